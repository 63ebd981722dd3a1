package services

import (
	"context"
	"time"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/realtime"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"gorm.io/gorm"
)

type options struct {
	publishTimeout time.Duration
}

type Option func(*options)

// WithPublishTimeout bounds the synchronous publish after each send
func WithPublishTimeout(d time.Duration) Option {
	return func(o *options) { o.publishTimeout = d }
}

// ChatService wires the store, the reader and the notifier together
type ChatService struct {
	Users    *UserDirectory
	Store    *MessageStore
	Reader   *ConversationReader
	Notifier *Notifier
}

func NewChatService(db *gorm.DB, publisher realtime.Publisher, opts ...Option) *ChatService {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	users := NewUserDirectory(db)
	return &ChatService{
		Users:    users,
		Store:    NewMessageStore(db, users),
		Reader:   NewConversationReader(db, users),
		Notifier: NewNotifier(publisher, o.publishTimeout),
	}
}

// Send persists the message, then pushes it to the recipient. A failed push
// is logged and otherwise ignored: the row is committed and the recipient
// will see it on the next history read.
func (s *ChatService) Send(ctx context.Context, senderID, receiverID, body string) (*models.Message, error) {
	msg, participants, err := s.Store.Create(ctx, senderID, receiverID, body)
	if err != nil {
		return nil, err
	}

	if err := s.Notifier.Notify(ctx, msg, participants[senderID].Name); err != nil {
		logger.Warn().
			Err(err).
			Uint64("message_id", msg.ID).
			Str("receiver_id", receiverID).
			Msg("Real-time delivery failed")
	}
	return msg, nil
}

func (s *ChatService) History(ctx context.Context, viewerID, counterpartID string) ([]models.DisplayMessage, error) {
	return s.Reader.History(ctx, viewerID, counterpartID)
}

func (s *ChatService) Conversation(ctx context.Context, viewerID, counterpartID string) (*Conversation, error) {
	return s.Reader.Conversation(ctx, viewerID, counterpartID)
}

// ListUsers returns everyone the viewer can start a conversation with
func (s *ChatService) ListUsers(ctx context.Context, viewerID string) ([]models.UserSummary, error) {
	return s.Users.Others(ctx, viewerID)
}
