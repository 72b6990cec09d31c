package gateway

import "encoding/json"

// InboundMessage is the client→server frame: a route name plus an
// opaque payload decoded by the route handler.
type InboundMessage struct {
	Route   string          `json:"route"`
	Payload json.RawMessage `json:"payload"`
}

// Ack is the per-command response frame. Success carries optional
// data; failure carries a message safe to show the client.
type Ack struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func okAck(data any) Ack         { return Ack{Success: true, Data: data} }
func failAck(message string) Ack { return Ack{Success: false, Error: message} }
