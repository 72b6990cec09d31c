package domain

import "github.com/google/uuid"

// Commands are the write-side intents handled by the service layer.
// Exactly one of ChannelID / RecipientID must be set on message commands.

type PostMessageCommand struct {
	WorkspaceID WorkspaceID
	ChannelID   ChannelID
	RecipientID UserID
	SenderID    UserID
	Content     string
}

type EditMessageCommand struct {
	MessageID uuid.UUID
	EditorID  UserID
	Content   string
}

type DeleteMessageCommand struct {
	MessageID uuid.UUID
	ActorID   UserID
}

type HistoryCommand struct {
	ChannelID ChannelID
	Cursor    *string
}

type ReactCommand struct {
	MessageID uuid.UUID
	UserID    UserID
	Emoji     string
}

type MembershipCommand struct {
	WorkspaceID WorkspaceID
	UserID      UserID
	ActorID     UserID
}
