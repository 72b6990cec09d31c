package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"team-hub/domain"
	"team-hub/errors"
)

type fakeSessionStore struct {
	sessions map[string]domain.Session
}

func (s *fakeSessionStore) GetByToken(token string) (domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return domain.Session{}, errors.ErrSessionNotFound
	}
	return session, nil
}

func testAuthenticator(t *testing.T, createdAt time.Time, revoked bool) (*Authenticator, string) {
	t.Helper()
	tokens := NewTokenManager("test-secret-test-secret-test-key", "team-hub")
	userID := domain.UserID("alice")
	sessionID := uuid.New()

	token, err := tokens.Generate(userID, sessionID, domain.DefaultSessionDuration)
	require.NoError(t, err)

	store := &fakeSessionStore{sessions: map[string]domain.Session{
		token: {
			ID:        sessionID,
			UserID:    userID,
			Token:     token,
			CreatedAt: createdAt,
			Duration:  domain.DefaultSessionDuration,
			Revoked:   revoked,
		},
	}}
	return NewAuthenticator(store, tokens), token
}

func TestAuthenticator_Authenticate_ValidSession(t *testing.T) {
	req := require.New(t)
	createdAt := time.Now()
	authenticator, token := testAuthenticator(t, createdAt, false)

	// When authenticating one second before expiry
	authenticator.WithClock(func() time.Time { return createdAt.Add(599 * time.Second) })
	session, err := authenticator.Authenticate("Bearer " + token)

	req.NoError(err)
	req.Equal(domain.UserID("alice"), session.UserID)
}

func TestAuthenticator_Authenticate_ExpiryBoundaryIsExclusive(t *testing.T) {
	req := require.New(t)
	createdAt := time.Now()
	authenticator, token := testAuthenticator(t, createdAt, false)

	// A session is valid strictly before createdAt+duration; at the
	// boundary itself it is already expired.
	authenticator.WithClock(func() time.Time { return createdAt.Add(600 * time.Second) })
	_, err := authenticator.Authenticate("Bearer " + token)

	req.ErrorIs(err, errors.ErrUnauthenticated)
	req.ErrorIs(err, errors.ErrSessionExpired)
}

func TestAuthenticator_Authenticate_PastExpiry(t *testing.T) {
	req := require.New(t)
	createdAt := time.Now()
	authenticator, token := testAuthenticator(t, createdAt, false)

	authenticator.WithClock(func() time.Time { return createdAt.Add(601 * time.Second) })
	_, err := authenticator.Authenticate("Bearer " + token)

	req.ErrorIs(err, errors.ErrSessionExpired)
}

func TestAuthenticator_Authenticate_RevokedSession(t *testing.T) {
	req := require.New(t)
	createdAt := time.Now()
	authenticator, token := testAuthenticator(t, createdAt, true)

	authenticator.WithClock(func() time.Time { return createdAt.Add(time.Second) })
	_, err := authenticator.Authenticate("Bearer " + token)

	req.ErrorIs(err, errors.ErrUnauthenticated)
	req.ErrorIs(err, errors.ErrSessionRevoked)
}

func TestAuthenticator_Authenticate_UnknownToken(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("test-secret-test-secret-test-key", "team-hub")
	authenticator := NewAuthenticator(&fakeSessionStore{sessions: map[string]domain.Session{}}, tokens)

	// A well-signed token with no session record behind it
	orphan, err := tokens.Generate("ghost", uuid.New(), domain.DefaultSessionDuration)
	require.NoError(t, err)

	_, err = authenticator.Authenticate("Bearer " + orphan)
	req.ErrorIs(err, errors.ErrUnauthenticated)
	req.ErrorIs(err, errors.ErrSessionNotFound)
}

func TestAuthenticator_Authenticate_BadSignature(t *testing.T) {
	req := require.New(t)
	createdAt := time.Now()
	authenticator, _ := testAuthenticator(t, createdAt, false)

	_, err := authenticator.Authenticate("Bearer not-a-jwt")
	req.ErrorIs(err, errors.ErrUnauthenticated)
}

func TestParseBearer(t *testing.T) {
	req := require.New(t)

	token, err := ParseBearer("Bearer abc.def.ghi")
	req.NoError(err)
	req.Equal("abc.def.ghi", token)

	for _, raw := range []string{"", "abc", "Basic abc", "Bearer", "Bearer a b"} {
		_, err := ParseBearer(raw)
		req.ErrorIs(err, errors.ErrUnauthenticated, raw)
		req.ErrorIs(err, errors.ErrMalformedBearer, raw)
	}
}
