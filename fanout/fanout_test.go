package fanout

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
	"team-hub/errors"
)

type fakeConn struct {
	id     string
	userID domain.UserID
	pushes []contract.PushEnvelope
	err    error
}

func newFakeConn(userID domain.UserID) *fakeConn {
	return &fakeConn{id: uuid.NewString(), userID: userID}
}

func (c *fakeConn) ID() string            { return c.id }
func (c *fakeConn) UserID() domain.UserID { return c.userID }
func (c *fakeConn) Push(env contract.PushEnvelope) error {
	if c.err != nil {
		return c.err
	}
	c.pushes = append(c.pushes, env)
	return nil
}

type fakeRegistry struct {
	byUser      map[domain.UserID]contract.Record
	byWorkspace map[domain.WorkspaceID][]contract.Connection
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		byUser:      make(map[domain.UserID]contract.Record),
		byWorkspace: make(map[domain.WorkspaceID][]contract.Connection),
	}
}

func (r *fakeRegistry) add(conn contract.Connection, userID domain.UserID, workspaces ...domain.WorkspaceID) {
	r.byUser[userID] = contract.Record{Conn: conn, WorkspaceIDs: workspaces}
	for _, w := range workspaces {
		r.byWorkspace[w] = append(r.byWorkspace[w], conn)
	}
}

func (r *fakeRegistry) Register(_ contract.Connection, _ domain.UserID, _ []domain.WorkspaceID) {}
func (r *fakeRegistry) Unregister(_ contract.Connection)                                        {}

func (r *fakeRegistry) LookupByUser(userID domain.UserID) (contract.Record, bool) {
	rec, ok := r.byUser[userID]
	return rec, ok
}

func (r *fakeRegistry) LookupByWorkspace(workspaceID domain.WorkspaceID) []contract.Connection {
	return r.byWorkspace[workspaceID]
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func TestMessageListener_ChannelMessage_ReachesWholeWorkspace(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	registry.add(alice, "alice", "ws-1")
	registry.add(bob, "bob", "ws-1")

	listener := NewMessageListener(testLogger(), registry)

	// When a channel message event arrives
	listener.Handle(event.MessageCreated{Message: domain.Message{
		WorkspaceID: "ws-1",
		ChannelID:   "general",
		SenderID:    "alice",
		Content:     "hello",
	}})

	// Then every workspace connection got exactly one copy, sender included
	req.Len(alice.pushes, 1)
	req.Len(bob.pushes, 1)
	req.Equal(string(event.MessageCreatedType), alice.pushes[0].Event)
}

func TestMessageListener_DirectMessage_ReachesOnlyRecipient(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	registry.add(alice, "alice", "ws-1")
	registry.add(bob, "bob", "ws-1")

	listener := NewMessageListener(testLogger(), registry)

	listener.Handle(event.MessageCreated{Message: domain.Message{
		RecipientID: "bob",
		SenderID:    "alice",
		Content:     "psst",
	}})

	req.Empty(alice.pushes)
	req.Len(bob.pushes, 1)
}

func TestMessageListener_DirectMessage_OfflineRecipient_IsSilentlyDropped(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	listener := NewMessageListener(testLogger(), registry)

	listener.Handle(event.MessageCreated{Message: domain.Message{
		RecipientID: "ghost",
		SenderID:    "alice",
	}})

	req.Empty(registry.byUser)
}

func TestMessageListener_PushFailure_DoesNotStopOthers(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	broken := newFakeConn("alice")
	broken.err = errors.ErrSlowConsumer
	healthy := newFakeConn("bob")
	registry.add(broken, "alice", "ws-1")
	registry.add(healthy, "bob", "ws-1")

	listener := NewMessageListener(testLogger(), registry)

	listener.Handle(event.MessageCreated{Message: domain.Message{
		WorkspaceID: "ws-1",
		ChannelID:   "general",
	}})

	// The failed push is swallowed; the healthy connection still delivers
	req.Len(healthy.pushes, 1)
}

func TestReactionListener_ReactorOutsideAudience_GetsACopy(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	member := newFakeConn("bob")
	reactor := newFakeConn("carol")
	registry.add(member, "bob", "ws-1")
	registry.add(reactor, "carol", "ws-9")

	listener := NewReactionListener(testLogger(), registry)

	listener.Handle(event.ReactionCreated{
		Reaction: domain.Reaction{UserID: "carol", Emoji: "👍"},
		Message:  domain.Message{WorkspaceID: "ws-1", ChannelID: "general"},
	})

	req.Len(member.pushes, 1)
	req.Len(reactor.pushes, 1)
}

func TestReactionListener_ReactorInsideAudience_NoDuplicate(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	reactor := newFakeConn("bob")
	registry.add(reactor, "bob", "ws-1")

	listener := NewReactionListener(testLogger(), registry)

	listener.Handle(event.ReactionCreated{
		Reaction: domain.Reaction{UserID: "bob", Emoji: "👍"},
		Message:  domain.Message{WorkspaceID: "ws-1", ChannelID: "general"},
	})

	req.Len(reactor.pushes, 1)
}

func TestNotificationListener_OnlyRecipientGetsThePush(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	registry.add(alice, "alice", "ws-1")
	registry.add(bob, "bob", "ws-1")

	listener := NewNotificationListener(testLogger(), registry)

	listener.Handle(event.NotificationCreated{Notification: domain.Notification{
		RecipientID: "alice",
		Kind:        "mention",
	}})

	req.Len(alice.pushes, 1)
	req.Empty(bob.pushes)
}

func TestWorkspaceListener_MemberAdded_TargetedAndBroadcastCopies(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	actor := newFakeConn("admin")
	bystander := newFakeConn("bob")
	joiner := newFakeConn("carol")
	registry.add(actor, "admin", "ws-1")
	registry.add(bystander, "bob", "ws-1")
	// The joining user is connected but not yet indexed under ws-1:
	// membership snapshots refresh only on reconnect.
	registry.add(joiner, "carol")

	listener := NewWorkspaceListener(testLogger(), registry)

	listener.Handle(event.WorkspaceMemberAdded{
		WorkspaceID: "ws-1",
		UserID:      "carol",
		ActorID:     "admin",
	})

	// The affected user gets the targeted copy
	req.Len(joiner.pushes, 1)
	// Bystanders get the broadcast copy
	req.Len(bystander.pushes, 1)
	// The actor is excluded from the broadcast
	req.Empty(actor.pushes)
}

func TestWorkspaceListener_MemberRemoved_AffectedUserNotDoubled(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	leaver := newFakeConn("bob")
	bystander := newFakeConn("carol")
	registry.add(leaver, "bob", "ws-1")
	registry.add(bystander, "carol", "ws-1")

	listener := NewWorkspaceListener(testLogger(), registry)

	listener.Handle(event.WorkspaceMemberRemoved{
		WorkspaceID: "ws-1",
		UserID:      "bob",
		ActorID:     "admin",
	})

	// The affected user is still indexed under the workspace (stale
	// snapshot) but only receives the targeted copy
	req.Len(leaver.pushes, 1)
	req.Len(bystander.pushes, 1)
}

func TestWorkspaceListener_ChannelCreated_BroadcastsToWorkspace(t *testing.T) {
	req := require.New(t)
	registry := newFakeRegistry()
	alice := newFakeConn("alice")
	registry.add(alice, "alice", "ws-1")

	listener := NewWorkspaceListener(testLogger(), registry)

	listener.Handle(event.ChannelCreated{Channel: domain.Channel{
		ID:          "general",
		WorkspaceID: "ws-1",
		Name:        "general",
	}})

	req.Len(alice.pushes, 1)
	req.Equal(string(event.ChannelCreatedType), alice.pushes[0].Event)
}
