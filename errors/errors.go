package errors

import "fmt"

var (
	// Authentication. Everything below ErrUnauthenticated is wrapped
	// into it so callers only branch on one sentinel.
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")
	ErrMalformedBearer    = fmt.Errorf("malformed bearer credential")
	ErrSessionNotFound    = fmt.Errorf("session not found")
	ErrSessionExpired     = fmt.Errorf("session expired")
	ErrSessionRevoked     = fmt.Errorf("session revoked")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	// Gateway dispatch.
	ErrUnknownRoute  = fmt.Errorf("unknown route")
	ErrRouteConflict = fmt.Errorf("route already registered")

	// Push delivery. Logged and swallowed by the fan-out layer.
	ErrConnectionClosed = fmt.Errorf("connection closed")
	ErrSlowConsumer     = fmt.Errorf("outbound buffer full")

	// Storage.
	ErrNotFound          = fmt.Errorf("record not found")
	ErrUserAlreadyExists = fmt.Errorf("user already exists")

	// Supervision.
	ErrWorkerPanic = fmt.Errorf("worker panic")
)
