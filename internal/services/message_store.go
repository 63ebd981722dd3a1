package services

import (
	"context"

	"github.com/pushp314/devconnect-chat/internal/models"
	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
)

// MessageStore owns the canonical, append-only message records
type MessageStore struct {
	db    *gorm.DB
	users *UserDirectory
}

func NewMessageStore(db *gorm.DB, users *UserDirectory) *MessageStore {
	return &MessageStore{db: db, users: users}
}

// Create validates, checks both participants exist, then inserts one row.
// The participants are returned so callers can render names without another read.
func (s *MessageStore) Create(ctx context.Context, senderID, receiverID, body string) (*models.Message, map[string]models.User, error) {
	if err := ValidateMessage(senderID, receiverID, body); err != nil {
		return nil, nil, err
	}

	participants, err := s.users.Resolve(ctx, senderID, receiverID)
	if err != nil {
		return nil, nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, nil, apperrors.Internal("failed to store message", err)
	}
	return msg, participants, nil
}
