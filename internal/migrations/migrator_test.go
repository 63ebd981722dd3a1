package migrations

import (
	"testing"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigratorRunIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	m := NewMigrator(db)

	require.NoError(t, m.Run())
	require.NoError(t, m.Run())

	applied, err := m.Applied()
	require.NoError(t, err)
	assert.True(t, applied["001_conversation_index"])

	var count int64
	db.Model(&MigrationRecord{}).Count(&count)
	assert.Equal(t, int64(len(GetMigrations())), count)

	assert.True(t, db.Migrator().HasIndex(&models.Message{}, "idx_messages_conversation"))
}

func TestMigratorRejectsMissingDependency(t *testing.T) {
	db := testutil.NewDB(t)
	m := &Migrator{
		db: db,
		migrations: []Migration{{
			ID:        "002_needs_missing",
			Name:      "depends on nothing that exists",
			DependsOn: []string{"000_never_applied"},
		}},
	}

	err := m.Run()
	assert.ErrorContains(t, err, "depends on 000_never_applied")
}
