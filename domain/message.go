package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is an immutable snapshot of one posted message.
// A message is either channel-targeted (ChannelID set) or a direct
// message (RecipientID set); never both.
type Message struct {
	ID          uuid.UUID   `json:"id"`
	WorkspaceID WorkspaceID `json:"workspace_id"`
	ChannelID   ChannelID   `json:"channel_id,omitempty"`
	RecipientID UserID      `json:"recipient_id,omitempty"`
	SenderID    UserID      `json:"sender_id"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
	Reactions   []Reaction  `json:"reactions,omitempty"`
}

// Direct reports whether the message targets a single user instead of
// a channel audience.
func (m Message) Direct() bool {
	return m.RecipientID != ""
}

// Reaction is stored inline on its message record.
type Reaction struct {
	ID        uuid.UUID `json:"id"`
	MessageID uuid.UUID `json:"message_id"`
	UserID    UserID    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}
