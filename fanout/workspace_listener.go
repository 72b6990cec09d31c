package fanout

import (
	"log/slog"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
)

// WorkspaceListener handles workspace and channel lifecycle plus
// membership changes.
//
// Membership events are delivered twice over: a targeted copy to the
// affected user's own connection, and a broadcast to the workspace
// excluding both the actor (who already holds the ack) and the
// affected user (who got the targeted copy). Lifecycle events are a
// plain workspace broadcast.
type WorkspaceListener struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewWorkspaceListener(log *slog.Logger, registry contract.IRegistry) *WorkspaceListener {
	return &WorkspaceListener{log: log, registry: registry}
}

func (l *WorkspaceListener) Handle(e event.DomainEvent) {
	switch evt := e.(type) {
	case event.WorkspaceMemberAdded:
		l.membership(evt.WorkspaceID, evt.UserID, evt.ActorID, evt)
	case event.WorkspaceMemberRemoved:
		l.membership(evt.WorkspaceID, evt.UserID, evt.ActorID, evt)
	case event.WorkspaceCreated:
		push(l.log, l.registry.LookupByWorkspace(evt.Workspace.ID), evt)
	case event.WorkspaceUpdated:
		push(l.log, l.registry.LookupByWorkspace(evt.Workspace.ID), evt)
	case event.WorkspaceRemoved:
		push(l.log, l.registry.LookupByWorkspace(evt.Workspace.ID), evt)
	case event.ChannelCreated:
		push(l.log, l.registry.LookupByWorkspace(evt.Channel.WorkspaceID), evt)
	case event.ChannelRemoved:
		push(l.log, l.registry.LookupByWorkspace(evt.Channel.WorkspaceID), evt)
	}
}

func (l *WorkspaceListener) membership(ws domain.WorkspaceID, affected, actor domain.UserID, evt event.DomainEvent) {
	if rec, ok := l.registry.LookupByUser(affected); ok {
		push(l.log, []contract.Connection{rec.Conn}, evt)
	}

	var audience []contract.Connection
	for _, conn := range l.registry.LookupByWorkspace(ws) {
		if conn.UserID() == actor || conn.UserID() == affected {
			continue
		}
		audience = append(audience, conn)
	}
	push(l.log, audience, evt)
}
