package fanout

import (
	"log/slog"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
)

// ReactionListener targets the reacted-to message's audience and makes
// sure the reacting user's own connection is included, as a delivery
// confirmation. Inclusion, not duplication: a reactor already in the
// audience gets a single push.
type ReactionListener struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewReactionListener(log *slog.Logger, registry contract.IRegistry) *ReactionListener {
	return &ReactionListener{log: log, registry: registry}
}

func (l *ReactionListener) Handle(e event.DomainEvent) {
	switch evt := e.(type) {
	case event.ReactionCreated:
		push(l.log, l.audience(evt.Message, evt.Reaction.UserID), evt)
	case event.ReactionUpdated:
		push(l.log, l.audience(evt.Message, evt.Reaction.UserID), evt)
	case event.ReactionRemoved:
		push(l.log, l.audience(evt.Message, evt.Reaction.UserID), evt)
	}
}

func (l *ReactionListener) audience(m domain.Message, reactor domain.UserID) []contract.Connection {
	conns := messageAudience(l.registry, m)

	rec, ok := l.registry.LookupByUser(reactor)
	if !ok {
		return conns
	}
	for _, c := range conns {
		if c.ID() == rec.Conn.ID() {
			return conns
		}
	}
	return append(conns, rec.Conn)
}
