package services

import (
	"strings"
	"unicode/utf8"

	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
)

// MaxMessageLength is counted in characters, not bytes
const MaxMessageLength = 8000

// ValidateMessage checks a send request without altering the body. The body
// is stored exactly as submitted; escaping is the renderer's job.
func ValidateMessage(senderID, receiverID, body string) error {
	if senderID == "" {
		return apperrors.Validation("sender is required")
	}
	if receiverID == "" {
		return apperrors.Validation("the id field is required")
	}
	if senderID == receiverID {
		return apperrors.Validation("cannot send a message to yourself")
	}
	if strings.TrimSpace(body) == "" {
		return apperrors.Validation("the message field is required")
	}
	if !utf8.ValidString(body) {
		return apperrors.Validation("message must be valid UTF-8")
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return apperrors.Validation("message exceeds maximum length")
	}
	return nil
}
