//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"team-hub/domain"
	"team-hub/domain/event"
)

// Connection is one live bidirectional transport channel. It is tagged
// with its owning user at registration time and keeps that identity for
// its whole lifetime.
type Connection interface {
	ID() string
	UserID() domain.UserID
	// Push enqueues one envelope on the outbound channel. It never
	// blocks; a closed or saturated connection returns an error that
	// the caller is expected to log and swallow.
	Push(env PushEnvelope) error
}

// PushEnvelope is the server→client wire frame.
type PushEnvelope struct {
	Timestamp int64  `json:"timestamp"`
	Event     string `json:"event"`
	Payload   any    `json:"payload"`
}

// Record is the byUser entry: the live connection plus the workspace
// snapshot taken at registration time.
type Record struct {
	Conn         Connection
	WorkspaceIDs []domain.WorkspaceID
}

// IRegistry is the only mutation/read surface over the connection
// indexes. None of these operations fail; absence is an empty result.
type IRegistry interface {
	Register(conn Connection, userID domain.UserID, workspaceIDs []domain.WorkspaceID)
	Unregister(conn Connection)
	LookupByUser(userID domain.UserID) (Record, bool)
	LookupByWorkspace(workspaceID domain.WorkspaceID) []Connection
}

// EventListener handles one domain-event family. Fire-and-forget:
// producers never learn whether delivery succeeded, and no
// reimplementation of this interface may add a result channel.
type EventListener interface {
	Handle(e event.DomainEvent)
}

// EventBus accepts events from the CRUD services. Publish must never
// block the producer; at-most-once, best-effort semantics.
type EventBus interface {
	Publish(e event.DomainEvent)
}

type WorkerName string

// Worker doesn't protect itself; the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision purposes only.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
