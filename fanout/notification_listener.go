package fanout

import (
	"log/slog"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
)

// NotificationListener pushes only to the recipient's own connection.
// Nobody connected means the event is silently dropped.
type NotificationListener struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewNotificationListener(log *slog.Logger, registry contract.IRegistry) *NotificationListener {
	return &NotificationListener{log: log, registry: registry}
}

func (l *NotificationListener) Handle(e event.DomainEvent) {
	switch evt := e.(type) {
	case event.NotificationCreated:
		push(l.log, l.recipient(evt.Notification.RecipientID), evt)
	case event.NotificationRead:
		push(l.log, l.recipient(evt.Notification.RecipientID), evt)
	}
}

func (l *NotificationListener) recipient(user domain.UserID) []contract.Connection {
	if rec, ok := l.registry.LookupByUser(user); ok {
		return []contract.Connection{rec.Conn}
	}
	return nil
}
