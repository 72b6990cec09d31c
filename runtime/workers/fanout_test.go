package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"team-hub/domain"
	"team-hub/domain/event"
)

type recordingListener struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (l *recordingListener) Handle(e event.DomainEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *recordingListener) snapshot() []event.DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event.DomainEvent(nil), l.events...)
}

func TestEventFanout_Fanout_AllListenersSeeTheEvent(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	first := &recordingListener{}
	second := &recordingListener{}

	events := make(chan event.DomainEvent, 1)
	worker := NewEventFanout(log, events).Subscribe(first, second)

	// When one event is fanned out
	worker.Fanout(event.MessageCreated{Message: domain.Message{Content: "hello"}})

	// Then every listener saw it exactly once
	req.Len(first.events, 1)
	req.Len(second.events, 1)
}

func TestEventFanout_Run_DrainsInOrder(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	listener := &recordingListener{}

	events := make(chan event.DomainEvent, 2)
	events <- event.MessageCreated{Message: domain.Message{Content: "first"}}
	events <- event.MessageCreated{Message: domain.Message{Content: "second"}}

	worker := NewEventFanout(log, events).Subscribe(listener)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	req.Eventually(func() bool { return len(listener.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	seen := listener.snapshot()
	req.Equal("first", seen[0].(event.MessageCreated).Message.Content)
	req.Equal("second", seen[1].(event.MessageCreated).Message.Content)
}
