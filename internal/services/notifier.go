package services

import (
	"context"
	"time"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/realtime"
	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
)

const EventMessageReceived = "MessageReceived"

// MessageReceived is the payload pushed to the recipient. ID carries the
// recipient's id for compatibility with existing clients; SenderID is what
// identifies the conversation.
type MessageReceived struct {
	Message   string    `json:"message"`
	ID        string    `json:"id"`
	Who       string    `json:"who"`
	SenderID  string    `json:"senderId"`
	MessageID uint64    `json:"messageId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier publishes new messages on the recipient's private channel
type Notifier struct {
	publisher realtime.Publisher
	timeout   time.Duration
}

func NewNotifier(publisher realtime.Publisher, timeout time.Duration) *Notifier {
	return &Notifier{publisher: publisher, timeout: timeout}
}

// Notify blocks until the publish attempt completes. The caller's
// cancellation is ignored so a sender hanging up does not suppress the push;
// only the notifier timeout bounds it.
func (n *Notifier) Notify(ctx context.Context, msg *models.Message, senderName string) error {
	ctx = context.WithoutCancel(ctx)
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	channel := realtime.ChannelFor(msg.ReceiverID)
	ev := realtime.Event{
		Name: EventMessageReceived,
		Payload: MessageReceived{
			Message:   msg.Body,
			ID:        msg.ReceiverID,
			Who:       senderName,
			SenderID:  msg.SenderID,
			MessageID: msg.ID,
			CreatedAt: msg.CreatedAt,
		},
	}

	if err := n.publisher.Publish(ctx, channel, ev); err != nil {
		return apperrors.Delivery(channel, err)
	}
	return nil
}
