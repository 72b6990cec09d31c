// Package runtime owns the live, mutating state of the fan-out core:
// the connection registry and the event bus. It carries no business
// rules; those live in the services and listeners.
package runtime

import (
	"sync"

	"team-hub/contract"
	"team-hub/domain"
)

// tag remembers what a connection was registered under, so Unregister
// can resolve "which user, which workspaces" from the connection alone.
type tag struct {
	userID       domain.UserID
	workspaceIDs []domain.WorkspaceID
}

// Registry is the central concurrent index mapping user identity to the
// live connection and workspace identity to the set of live connections.
//
// One RWMutex guards both maps: register/unregister are exclusive,
// fan-out lookups proceed concurrently. No caller ever sees the maps
// themselves, and nothing here performs I/O under the lock.
type Registry struct {
	mu          sync.RWMutex
	byUser      map[domain.UserID]contract.Record
	byWorkspace map[domain.WorkspaceID]map[string]contract.Connection
	tags        map[string]tag
}

func NewRegistry() *Registry {
	return &Registry{
		byUser:      make(map[domain.UserID]contract.Record),
		byWorkspace: make(map[domain.WorkspaceID]map[string]contract.Connection),
		tags:        make(map[string]tag),
	}
}

// Register inserts the connection under the user's identity and under
// every workspace in the membership snapshot, creating sets on the fly.
//
// A second login for the same user overwrites the byUser slot; the
// superseded connection is NOT closed here and keeps its workspace
// entries until its own unregister. That staleness is documented
// behavior, not a bug to fix silently.
func (r *Registry) Register(conn contract.Connection, userID domain.UserID, workspaceIDs []domain.WorkspaceID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[userID] = contract.Record{Conn: conn, WorkspaceIDs: workspaceIDs}
	r.tags[conn.ID()] = tag{userID: userID, workspaceIDs: workspaceIDs}

	for _, w := range workspaceIDs {
		if _, ok := r.byWorkspace[w]; !ok {
			r.byWorkspace[w] = make(map[string]contract.Connection)
		}
		r.byWorkspace[w][conn.ID()] = conn
	}
}

// Unregister removes every index entry created for this connection.
// The byUser slot is removed only if it still points at this connection,
// so a displaced login does not evict its successor. Calling Unregister
// twice is a no-op.
func (r *Registry) Unregister(conn contract.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tags[conn.ID()]
	if !ok {
		// Never registered, or already unregistered.
		return
	}
	delete(r.tags, conn.ID())

	if rec, ok := r.byUser[t.userID]; ok && rec.Conn.ID() == conn.ID() {
		delete(r.byUser, t.userID)
	}

	for _, w := range t.workspaceIDs {
		members, ok := r.byWorkspace[w]
		if !ok {
			continue
		}
		delete(members, conn.ID())
		// No empty sets left behind, to avoid a slow leak over time.
		if len(members) == 0 {
			delete(r.byWorkspace, w)
		}
	}
}

// LookupByUser returns the record for a currently connected user.
func (r *Registry) LookupByUser(userID domain.UserID) (contract.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byUser[userID]
	return rec, ok
}

// LookupByWorkspace returns a snapshot of the live connections
// registered under a workspace, or nil if there are none.
func (r *Registry) LookupByWorkspace(workspaceID domain.WorkspaceID) []contract.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.byWorkspace[workspaceID]
	if !ok {
		return nil
	}
	conns := make([]contract.Connection, 0, len(members))
	for _, c := range members {
		conns = append(conns, c)
	}
	return conns
}
