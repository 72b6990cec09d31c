package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"team-hub/domain"
	"team-hub/errors"
)

// HandlerFunc processes one inbound command for an authenticated user
// and returns the ack to write back.
type HandlerFunc func(userID domain.UserID, payload json.RawMessage) Ack

// RouteTable maps route names to handlers. Registration happens once
// at boot; dispatch is read-only afterwards, so no locking.
type RouteTable struct {
	log    *slog.Logger
	routes map[string]HandlerFunc
}

func NewRouteTable(log *slog.Logger) *RouteTable {
	return &RouteTable{log: log, routes: make(map[string]HandlerFunc)}
}

// Handle binds a route name. Duplicate names are a wiring bug surfaced
// at boot rather than silently overwritten.
func (rt *RouteTable) Handle(name string, fn HandlerFunc) error {
	if _, exists := rt.routes[name]; exists {
		return fmt.Errorf("%w: %s", errors.ErrRouteConflict, name)
	}
	rt.routes[name] = fn
	return nil
}

// Dispatch resolves and runs the handler for one inbound message. A
// panicking handler is contained here: the connection survives and the
// client gets a generic failure ack.
func (rt *RouteTable) Dispatch(userID domain.UserID, msg InboundMessage) (ack Ack) {
	fn, ok := rt.routes[msg.Route]
	if !ok {
		return failAck(errors.ErrUnknownRoute.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			rt.log.Error(fmt.Sprintf("Handler panic on route %s: %v", msg.Route, r),
				"user_id", userID)
			ack = failAck("internal error")
		}
	}()

	return fn(userID, msg.Payload)
}
