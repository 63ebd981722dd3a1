package seeds

import (
	"context"

	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/migrations"
	"github.com/pushp314/devconnect-chat/internal/realtime"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"gorm.io/gorm"
)

// Run brings the schema up to date the same way the server does, then seeds
// demo users and a conversation between the first user and each other one.
// Running it again adds nothing.
func Run(ctx context.Context, db *gorm.DB) error {
	logger.Info().Msg("Running migrations (just in case)...")
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if err := migrations.NewMigrator(db).Run(); err != nil {
		return err
	}

	users, err := SeedUsers(db)
	if err != nil {
		return err
	}

	// Nobody is connected while seeding
	quiet := realtime.PublisherFunc(func(context.Context, string, realtime.Event) error { return nil })
	chat := services.NewChatService(db, quiet)

	for i := 1; i < len(users); i++ {
		if err := SeedConversation(ctx, chat, users[0], users[i]); err != nil {
			return err
		}
	}
	return nil
}
