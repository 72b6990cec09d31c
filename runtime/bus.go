package runtime

import (
	"fmt"
	"log/slog"

	"team-hub/domain/event"
)

// Bus is the in-process domain-event bus: a buffered channel drained by
// the fan-out worker. At-most-once, best-effort; producers never learn
// whether delivery happened.
type Bus struct {
	log    *slog.Logger
	events chan event.DomainEvent
}

func NewBus(log *slog.Logger, bufferSize int) *Bus {
	return &Bus{
		log:    log,
		events: make(chan event.DomainEvent, bufferSize),
	}
}

// Publish enqueues the event without ever blocking the producer.
// When the buffer is full the event is dropped with a warning.
func (b *Bus) Publish(e event.DomainEvent) {
	select {
	case b.events <- e:
	default:
		b.log.Warn(fmt.Sprintf("Event bus full, dropping %s", e.EventType()))
	}
}

// Events exposes the drain side to the fan-out worker.
func (b *Bus) Events() <-chan event.DomainEvent {
	return b.events
}
