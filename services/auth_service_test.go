package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"team-hub/auth"
	"team-hub/domain"
	"team-hub/errors"
	"team-hub/repositories"
)

func newAuthFixture(t *testing.T) (IAuthService, *auth.Authenticator) {
	t.Helper()
	db := testDB(t)
	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)
	tokens := auth.NewTokenManager("test-secret-test-secret-test-key", "team-hub")
	service := NewAuthService(users, sessions, tokens, domain.DefaultSessionDuration)
	return service, auth.NewAuthenticator(sessions, tokens)
}

func TestAuthService_Register_IssuesUsableToken(t *testing.T) {
	req := require.New(t)
	service, authenticator := newAuthFixture(t)

	token, err := service.Register("alice@example.com", "Sup3r-Secret-Pass!", "Alice")
	req.NoError(err)
	req.NotEmpty(token)

	session, err := authenticator.Authenticate("Bearer " + string(token))
	req.NoError(err)
	req.NotEmpty(session.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	service, _ := newAuthFixture(t)
	_, err := service.Register("alice@example.com", "Sup3r-Secret-Pass!", "Alice")
	req.NoError(err)

	_, err = service.Register("alice@example.com", "An0ther-Secret-Pass!", "Imposter")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	req := require.New(t)
	service, _ := newAuthFixture(t)

	_, err := service.Register("alice@example.com", "alllowercasepassword", "Alice")
	req.Error(err)
}

func TestAuthService_Login(t *testing.T) {
	req := require.New(t)
	service, authenticator := newAuthFixture(t)
	_, err := service.Register("alice@example.com", "Sup3r-Secret-Pass!", "Alice")
	req.NoError(err)

	token, err := service.Login("alice@example.com", "Sup3r-Secret-Pass!")
	req.NoError(err)
	_, err = authenticator.Authenticate("Bearer " + string(token))
	req.NoError(err)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	req := require.New(t)
	service, _ := newAuthFixture(t)
	_, err := service.Register("alice@example.com", "Sup3r-Secret-Pass!", "Alice")
	req.NoError(err)

	// Wrong password and unknown user yield the same generic error
	_, wrongPassword := service.Login("alice@example.com", "wrong-password")
	_, unknownUser := service.Login("ghost@example.com", "Sup3r-Secret-Pass!")
	req.ErrorIs(wrongPassword, errors.ErrInvalidCredentials)
	req.ErrorIs(unknownUser, errors.ErrInvalidCredentials)
}

func TestAuthService_Logout_RevokesTheSession(t *testing.T) {
	req := require.New(t)
	service, authenticator := newAuthFixture(t)
	token, err := service.Register("alice@example.com", "Sup3r-Secret-Pass!", "Alice")
	req.NoError(err)

	req.NoError(service.Logout(string(token)))

	// The very next use fails on both transports
	_, err = authenticator.Authenticate("Bearer " + string(token))
	req.ErrorIs(err, errors.ErrUnauthenticated)
	req.ErrorIs(err, errors.ErrSessionRevoked)
}

func TestAuthService_SessionDurationDefaultsWhenUnset(t *testing.T) {
	req := require.New(t)
	db := testDB(t)
	sessions := repositories.NewSessionRepository(db)
	tokens := auth.NewTokenManager("test-secret-test-secret-test-key", "team-hub")
	service := NewAuthService(repositories.NewUserRepository(db), sessions, tokens, 0)

	token, err := service.Register("alice@example.com", "Sup3r-Secret-Pass!", "Alice")
	req.NoError(err)

	session, err := sessions.GetByToken(string(token))
	req.NoError(err)
	req.Equal(time.Duration(domain.DefaultSessionDuration), session.Duration)
}
