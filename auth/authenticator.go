package auth

import (
	"fmt"
	"strings"
	"time"

	"team-hub/domain"
	"team-hub/errors"
)

// SessionLookup is the slice of the session store the authenticator
// needs: lookup(token) -> Session?.
type SessionLookup interface {
	GetByToken(token string) (domain.Session, error)
}

// Authenticator decides connection admission. It is shared by the
// websocket handshake and the per-request HTTP middleware so that
// revoking a session cuts both transports at once.
//
// Read-only: it never renews or touches the session record.
type Authenticator struct {
	sessions SessionLookup
	tokens   *TokenManager
	now      func() time.Time
}

func NewAuthenticator(sessions SessionLookup, tokens *TokenManager) *Authenticator {
	return &Authenticator{sessions: sessions, tokens: tokens, now: time.Now}
}

// WithClock overrides the time source. Test seam only.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Authenticate validates a raw Authorization header value and returns
// the session it names. Every failure wraps errors.ErrUnauthenticated;
// the inner sentinel only distinguishes diagnostics, not behavior.
func (a *Authenticator) Authenticate(rawHeader string) (domain.Session, error) {
	token, err := ParseBearer(rawHeader)
	if err != nil {
		return domain.Session{}, err
	}

	if _, err := a.tokens.Verify(token); err != nil {
		return domain.Session{}, fmt.Errorf("%w: signature check: %v", errors.ErrUnauthenticated, err)
	}

	session, err := a.sessions.GetByToken(token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", errors.ErrUnauthenticated, errors.ErrSessionNotFound)
	}

	if session.Revoked {
		return domain.Session{}, fmt.Errorf("%w: %w", errors.ErrUnauthenticated, errors.ErrSessionRevoked)
	}
	if !session.ValidAt(a.now()) {
		return domain.Session{}, fmt.Errorf("%w: %w", errors.ErrUnauthenticated, errors.ErrSessionExpired)
	}

	return session, nil
}

// ParseBearer extracts the credential from the two-token scheme
// "Bearer <value>". Absence or any other scheme fails immediately.
func ParseBearer(rawHeader string) (string, error) {
	parts := strings.Fields(rawHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("%w: %w", errors.ErrUnauthenticated, errors.ErrMalformedBearer)
	}
	return parts[1], nil
}
