package fanout

import (
	"log/slog"

	"team-hub/contract"
	"team-hub/domain/event"
)

// MessageListener pushes message lifecycle events to the message's
// audience.
type MessageListener struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewMessageListener(log *slog.Logger, registry contract.IRegistry) *MessageListener {
	return &MessageListener{log: log, registry: registry}
}

func (l *MessageListener) Handle(e event.DomainEvent) {
	switch evt := e.(type) {
	case event.MessageCreated:
		push(l.log, messageAudience(l.registry, evt.Message), evt)
	case event.MessageUpdated:
		push(l.log, messageAudience(l.registry, evt.Message), evt)
	case event.MessageRemoved:
		push(l.log, messageAudience(l.registry, evt.Message), evt)
	}
}
