package migrations

import (
	"gorm.io/gorm"
)

// Migration001ConversationIndex covers the history predicate
// (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
// ORDER BY created_at, id. Each OR branch is an index range scan.
func Migration001ConversationIndex() Migration {
	return Migration{
		ID:   "001_conversation_index",
		Name: "Add conversation lookup index on messages",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_messages_conversation
				ON messages (sender_id, receiver_id, created_at, id)
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_messages_conversation`).Error
		},
	}
}
