package workers

import (
	"context"
	"log/slog"

	"team-hub/contract"
	"team-hub/domain/event"
)

// EventFanout drains the domain-event bus and hands each event to every
// subscribed listener, in the order the events were dequeued. That
// single drain loop is what gives per-workspace delivery its ordering.
//
// Best-effort only: no delivery guarantee, no ordering across event
// families, no retries. EventFanout is not a message broker.
type EventFanout struct {
	Log       *slog.Logger
	events    <-chan event.DomainEvent
	listeners []contract.EventListener
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent) *EventFanout {
	return &EventFanout{Log: log, events: events}
}

// Subscribe adds listeners before the worker starts. Not safe to call
// once Run is looping.
func (w *EventFanout) Subscribe(listeners ...contract.EventListener) *EventFanout {
	w.listeners = append(w.listeners, listeners...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(evt)
		case <-ctx.Done():
			w.Log.Debug("Context done, stopping event fan-out")
			return nil
		}
	}
}

// Fanout gives every listener its look at the event. Listeners return
// nothing; a listener that cannot deliver logs and moves on.
func (w *EventFanout) Fanout(evt event.DomainEvent) {
	for _, l := range w.listeners {
		l.Handle(evt)
	}
}
