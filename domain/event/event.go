// Package event defines the domain events emitted by the CRUD services.
//
// Events are transient, in-process notifications: produced exactly once
// per causing mutation, never persisted, never replayed. Each carries an
// immutable snapshot of the affected entity plus the identities the
// fan-out layer needs to compute a recipient set. The json tags shape
// the push payload seen by clients.
package event

import "team-hub/domain"

type Type string

const (
	MessageCreatedType         Type = "MESSAGE_CREATED"
	MessageUpdatedType         Type = "MESSAGE_UPDATED"
	MessageRemovedType         Type = "MESSAGE_REMOVED"
	ReactionCreatedType        Type = "REACTION_CREATED"
	ReactionUpdatedType        Type = "REACTION_UPDATED"
	ReactionRemovedType        Type = "REACTION_REMOVED"
	NotificationCreatedType    Type = "NOTIFICATION_CREATED"
	NotificationReadType       Type = "NOTIFICATION_READ"
	WorkspaceMemberAddedType   Type = "WORKSPACE_MEMBER_ADDED"
	WorkspaceMemberRemovedType Type = "WORKSPACE_MEMBER_REMOVED"
	WorkspaceCreatedType       Type = "WORKSPACE_CREATED"
	WorkspaceUpdatedType       Type = "WORKSPACE_UPDATED"
	WorkspaceRemovedType       Type = "WORKSPACE_REMOVED"
	ChannelCreatedType         Type = "CHANNEL_CREATED"
	ChannelRemovedType         Type = "CHANNEL_REMOVED"
)

// DomainEvent is the closed union consumed by fan-out listeners.
type DomainEvent interface {
	EventType() Type
}

type MessageCreated struct {
	Message domain.Message `json:"message"`
}
type MessageUpdated struct {
	Message domain.Message `json:"message"`
}
type MessageRemoved struct {
	Message domain.Message `json:"message"`
}

func (MessageCreated) EventType() Type { return MessageCreatedType }
func (MessageUpdated) EventType() Type { return MessageUpdatedType }
func (MessageRemoved) EventType() Type { return MessageRemovedType }

// Reaction events carry the reacted-to message snapshot because the
// reaction itself does not know its delivery audience.
type ReactionCreated struct {
	Reaction domain.Reaction `json:"reaction"`
	Message  domain.Message  `json:"message"`
}
type ReactionUpdated struct {
	Reaction domain.Reaction `json:"reaction"`
	Message  domain.Message  `json:"message"`
}
type ReactionRemoved struct {
	Reaction domain.Reaction `json:"reaction"`
	Message  domain.Message  `json:"message"`
}

func (ReactionCreated) EventType() Type { return ReactionCreatedType }
func (ReactionUpdated) EventType() Type { return ReactionUpdatedType }
func (ReactionRemoved) EventType() Type { return ReactionRemovedType }

type NotificationCreated struct {
	Notification domain.Notification `json:"notification"`
}
type NotificationRead struct {
	Notification domain.Notification `json:"notification"`
}

func (NotificationCreated) EventType() Type { return NotificationCreatedType }
func (NotificationRead) EventType() Type    { return NotificationReadType }

// Membership events know the acting user so the broadcast copy can
// exclude them.
type WorkspaceMemberAdded struct {
	WorkspaceID domain.WorkspaceID `json:"workspace_id"`
	UserID      domain.UserID      `json:"user_id"`
	ActorID     domain.UserID      `json:"actor_id"`
}
type WorkspaceMemberRemoved struct {
	WorkspaceID domain.WorkspaceID `json:"workspace_id"`
	UserID      domain.UserID      `json:"user_id"`
	ActorID     domain.UserID      `json:"actor_id"`
}

func (WorkspaceMemberAdded) EventType() Type   { return WorkspaceMemberAddedType }
func (WorkspaceMemberRemoved) EventType() Type { return WorkspaceMemberRemovedType }

type WorkspaceCreated struct {
	Workspace domain.Workspace `json:"workspace"`
}
type WorkspaceUpdated struct {
	Workspace domain.Workspace `json:"workspace"`
}
type WorkspaceRemoved struct {
	Workspace domain.Workspace `json:"workspace"`
}

func (WorkspaceCreated) EventType() Type { return WorkspaceCreatedType }
func (WorkspaceUpdated) EventType() Type { return WorkspaceUpdatedType }
func (WorkspaceRemoved) EventType() Type { return WorkspaceRemovedType }

type ChannelCreated struct {
	Channel domain.Channel `json:"channel"`
}
type ChannelRemoved struct {
	Channel domain.Channel `json:"channel"`
}

func (ChannelCreated) EventType() Type { return ChannelCreatedType }
func (ChannelRemoved) EventType() Type { return ChannelRemovedType }
