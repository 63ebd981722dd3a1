package seeds

import (
	"context"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

var openers = []string{
	"Hey! Did you get a chance to look at the PR?",
	"Yes, left a couple of comments. Looks good overall.",
	"Thanks, pushing the fixes now.",
}

// SeedConversation alternates the openers between a and b through the
// message store, so seeded rows pass the same validation as real ones.
// Conversations that already have messages are left alone.
func SeedConversation(ctx context.Context, chat *services.ChatService, a, b models.User) error {
	existing, err := chat.History(ctx, a.ID, b.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info().Str("a", a.ID).Str("b", b.ID).Msg("Conversation already seeded")
		return nil
	}

	for i, body := range openers {
		sender, receiver := a, b
		if i%2 == 1 {
			sender, receiver = b, a
		}
		if _, err := chat.Send(ctx, sender.ID, receiver.ID, body); err != nil {
			return err
		}
	}
	logger.Info().Str("a", a.Name).Str("b", b.Name).Int("messages", len(openers)).Msg("Conversation seeded")
	return nil
}
