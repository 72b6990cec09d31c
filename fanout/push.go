// Package fanout converts domain events into targeted pushes.
//
// One listener per event family. Listeners are fire-and-forget: they
// return nothing to the producer, push failures are logged and
// swallowed, and events with an empty recipient set are discarded,
// never queued.
package fanout

import (
	"log/slog"
	"time"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
)

// push writes one envelope to every resolved connection. A failed
// write (transport closed but not yet unregistered, or a saturated
// buffer) is a DeliveryFailure: logged, not retried, invisible to the
// event producer.
func push(log *slog.Logger, conns []contract.Connection, evt event.DomainEvent) {
	if len(conns) == 0 {
		return
	}
	env := contract.PushEnvelope{
		Timestamp: time.Now().Unix(),
		Event:     string(evt.EventType()),
		Payload:   evt,
	}
	for _, conn := range conns {
		if err := conn.Push(env); err != nil {
			log.Warn("Push failed",
				"event", evt.EventType(),
				"connection_id", conn.ID(),
				"user_id", conn.UserID(),
				"error", err)
		}
	}
}

// messageAudience resolves the recipient set for a message snapshot:
// the whole workspace for channel messages, the destination user's
// connection (if any) for direct ones.
func messageAudience(registry contract.IRegistry, m domain.Message) []contract.Connection {
	if m.Direct() {
		if rec, ok := registry.LookupByUser(m.RecipientID); ok {
			return []contract.Connection{rec.Conn}
		}
		return nil
	}
	return registry.LookupByWorkspace(m.WorkspaceID)
}
