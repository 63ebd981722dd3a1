package models

import "time"

// Message is a direct message between two users. Rows are append-only.
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   string    `gorm:"type:text;not null;index" json:"senderId"`
	Sender     User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	ReceiverID string    `gorm:"type:text;not null;index" json:"receiverId"`
	Receiver   User      `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
	Body       string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DisplayMessage is a message projected for one viewer. Who is "me" for the
// viewer's own messages and the counterpart's name otherwise.
type DisplayMessage struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
	Who     string `json:"who"`
}

const WhoMe = "me"
