package services

import (
	"context"

	"github.com/pushp314/devconnect-chat/internal/models"
	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
)

// Conversation is the history between a viewer and one counterpart
type Conversation struct {
	User     models.UserSummary      `json:"user"`
	Messages []models.DisplayMessage `json:"messages"`
}

// ConversationReader hydrates conversation views
type ConversationReader struct {
	db    *gorm.DB
	users *UserDirectory
}

func NewConversationReader(db *gorm.DB, users *UserDirectory) *ConversationReader {
	return &ConversationReader{db: db, users: users}
}

// Conversation returns the full history, oldest first. Ties on created_at
// fall back to id so the order is stable across reads.
func (r *ConversationReader) Conversation(ctx context.Context, viewerID, counterpartID string) (*Conversation, error) {
	if viewerID == counterpartID {
		return nil, apperrors.Validation("a conversation needs two different users")
	}

	counterpart, err := r.users.Get(ctx, counterpartID)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	err = r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, counterpartID, counterpartID, viewerID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.Internal("failed to fetch messages", err)
	}

	display := make([]models.DisplayMessage, 0, len(messages))
	for _, m := range messages {
		who := counterpart.Name
		if m.SenderID == viewerID {
			who = models.WhoMe
		}
		display = append(display, models.DisplayMessage{ID: m.ID, Message: m.Body, Who: who})
	}

	return &Conversation{User: counterpart.Summary(), Messages: display}, nil
}

// History is Conversation without the counterpart profile
func (r *ConversationReader) History(ctx context.Context, viewerID, counterpartID string) ([]models.DisplayMessage, error) {
	conv, err := r.Conversation(ctx, viewerID, counterpartID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}
