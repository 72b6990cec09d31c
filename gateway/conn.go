package gateway

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/errors"
)

// Conn wraps one websocket with a buffered outbound channel. All
// writes go through the channel so a single goroutine (writePump)
// owns the socket.
type Conn struct {
	id     string
	userID domain.UserID
	ws     *websocket.Conn

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewConn(id string, userID domain.UserID, ws *websocket.Conn, bufferSize int) *Conn {
	return &Conn{
		id:     id,
		userID: userID,
		ws:     ws,
		send:   make(chan []byte, bufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Conn) ID() string            { return c.id }
func (c *Conn) UserID() domain.UserID { return c.userID }

// Push enqueues one envelope without ever blocking the caller. A
// closed connection or a full buffer is reported back so the fan-out
// layer can log the drop.
func (c *Conn) Push(env contract.PushEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
		return errors.ErrSlowConsumer
	}
}

// Close marks the connection dead and closes the underlying socket.
// Idempotent; safe from both pumps.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// Done is closed once the connection is shut down.
func (c *Conn) Done() <-chan struct{} { return c.done }

var _ contract.Connection = (*Conn)(nil)
