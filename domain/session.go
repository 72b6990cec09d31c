package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionDuration applies when no duration is configured.
const DefaultSessionDuration = 600 * time.Second

// Session is a server-issued, time-bounded credential record.
// It is created at login, mutated only by revocation, and re-checked
// on every use; there is no eager invalidation push.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	UserID    UserID        `json:"user_id"`
	Token     string        `json:"token"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration"`
	Revoked   bool          `json:"revoked"`
}

// ValidAt reports whether the session can still authenticate at the
// given instant. Expiry is exclusive: a session created at t0 with a
// 600s duration is invalid at exactly t0+600s.
func (s Session) ValidAt(now time.Time) bool {
	return !s.Revoked && now.Before(s.CreatedAt.Add(s.Duration))
}
