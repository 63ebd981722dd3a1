package services

import (
	"context"
	"errors"

	"github.com/pushp314/devconnect-chat/internal/models"
	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
)

// UserDirectory is the read side of the user collaborator
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// Get returns a ReferenceError when id is unknown
func (d *UserDirectory) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Reference("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

// Resolve loads every id in one query. Any unknown id is a ReferenceError.
func (d *UserDirectory) Resolve(ctx context.Context, ids ...string) (map[string]models.User, error) {
	var users []models.User
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperrors.Internal("failed to load users", err)
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperrors.Reference("user " + id + " not found")
		}
	}
	return byID, nil
}

// Others lists every user except viewerID
func (d *UserDirectory) Others(ctx context.Context, viewerID string) ([]models.UserSummary, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Select("id", "name", "avatar").
		Where("id <> ?", viewerID).
		Order("name ASC").Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list users", err)
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}
