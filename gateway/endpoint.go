package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"team-hub/auth"
	"team-hub/contract"
	"team-hub/services"
)

// EndpointConfig carries the socket tuning knobs.
type EndpointConfig struct {
	MaxMessageSize int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	SendBufferSize int
}

// Endpoint owns the websocket upgrade path. Authentication happens on
// the HTTP request, before any upgrade: an invalid credential never
// produces a websocket.
type Endpoint struct {
	log           *slog.Logger
	cfg           EndpointConfig
	authenticator *auth.Authenticator
	registry      contract.IRegistry
	workspaces    services.IWorkspaceService
	routes        *RouteTable
	upgrader      websocket.Upgrader
}

func NewEndpoint(
	log *slog.Logger,
	cfg EndpointConfig,
	authenticator *auth.Authenticator,
	registry contract.IRegistry,
	workspaces services.IWorkspaceService,
	routes *RouteTable,
) *Endpoint {
	return &Endpoint{
		log:           log,
		cfg:           cfg,
		authenticator: authenticator,
		registry:      registry,
		workspaces:    workspaces,
		routes:        routes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket admits, upgrades and registers one connection, then
// runs its pumps. The workspace list is snapshotted here; membership
// changes during the connection's lifetime do not retarget it.
func (e *Endpoint) HandleWebSocket(c echo.Context) error {
	session, err := e.authenticator.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		e.log.Warn(fmt.Sprintf("Connection refused: %v", err))
		return c.NoContent(http.StatusUnauthorized)
	}

	workspaceIDs, err := e.workspaces.WorkspacesForUser(session.UserID)
	if err != nil {
		e.log.Error(fmt.Sprintf("Workspace lookup failed: %v", err), "user_id", session.UserID)
		return c.NoContent(http.StatusInternalServerError)
	}

	ws, err := e.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		e.log.Warn(fmt.Sprintf("Upgrade failed: %v", err))
		return err
	}

	conn := NewConn(uuid.New().String(), session.UserID, ws, e.cfg.SendBufferSize)
	e.registry.Register(conn, session.UserID, workspaceIDs)
	e.log.Info("Connection registered",
		"connection_id", conn.ID(),
		"user_id", session.UserID,
		"workspaces", len(workspaceIDs))

	go e.writePump(conn)
	go e.readPump(conn)

	return nil
}

// readPump consumes inbound frames until the socket dies, then tears
// the connection down. Unregister is idempotent so a connection
// already displaced from its user slot unwinds cleanly.
func (e *Endpoint) readPump(conn *Conn) {
	defer func() {
		e.registry.Unregister(conn)
		conn.Close()
		e.log.Info("Connection closed", "connection_id", conn.ID(), "user_id", conn.UserID())
	}()

	conn.ws.SetReadLimit(e.cfg.MaxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(e.cfg.ReadTimeout))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(e.cfg.ReadTimeout))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				e.log.Warn(fmt.Sprintf("Read error: %v", err), "connection_id", conn.ID())
			}
			return
		}
		e.handleInbound(conn, data)
	}
}

// writePump is the only goroutine that writes to the socket. It
// drains the send channel and keeps the peer alive with pings.
func (e *Endpoint) writePump(conn *Conn) {
	ticker := time.NewTicker(e.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data := <-conn.send:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(e.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(e.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-conn.Done():
			return
		}
	}
}

func (e *Endpoint) handleInbound(conn *Conn, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		e.writeAck(conn, failAck("invalid JSON frame"))
		return
	}
	e.writeAck(conn, e.routes.Dispatch(conn.UserID(), msg))
}

// writeAck reuses the outbound channel so acks and pushes stay
// serialized on the single writer.
func (e *Endpoint) writeAck(conn *Conn, ack Ack) {
	data, err := json.Marshal(ack)
	if err != nil {
		return
	}
	select {
	case conn.send <- data:
	case <-conn.Done():
	default:
		e.log.Warn("Ack dropped, outbound buffer full", "connection_id", conn.ID())
	}
}
