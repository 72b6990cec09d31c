package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"team-hub/auth"
	"team-hub/domain"
	"team-hub/errors"
	"team-hub/repositories"
)

type IAuthService interface {
	Register(email, password, displayName string) (Token, error)
	Login(email, password string) (Token, error)
	Logout(token string) error
}

type Token string

type AuthService struct {
	users           repositories.IUserRepository
	sessions        repositories.ISessionRepository
	tokens          *auth.TokenManager
	sessionDuration time.Duration
}

func NewAuthService(users repositories.IUserRepository, sessions repositories.ISessionRepository,
	tokens *auth.TokenManager, sessionDuration time.Duration) IAuthService {
	if sessionDuration <= 0 {
		sessionDuration = domain.DefaultSessionDuration
	}
	return &AuthService{
		users:           users,
		sessions:        sessions,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

func (s *AuthService) Register(email, password, displayName string) (Token, error) {
	req := auth.RegisterRequest{Email: email, Password: password, DisplayName: displayName}

	// Business rules first, before any expensive cryptographic work.
	if err := auth.ValidateRegister(req); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.CreateUser(email, hashedPassword, displayName)
	if err != nil {
		return "", err // Propagates ErrUserAlreadyExists when the email is taken.
	}

	return s.issueSession(user.ID)
}

func (s *AuthService) Login(email, password string) (Token, error) {
	// Generic error on every failure path to prevent user enumeration.
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	return s.issueSession(user.ID)
}

// Logout revokes the session record. Per-use validity checks make the
// revocation effective on both the HTTP and websocket transports; the
// registry is untouched here.
func (s *AuthService) Logout(token string) error {
	return s.sessions.Revoke(token)
}

func (s *AuthService) issueSession(userID domain.UserID) (Token, error) {
	sessionID := uuid.New()
	signed, err := s.tokens.Generate(userID, sessionID, s.sessionDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	session := domain.Session{
		ID:        sessionID,
		UserID:    userID,
		Token:     signed,
		CreatedAt: time.Now().UTC(),
		Duration:  s.sessionDuration,
	}
	if err := s.sessions.Create(session); err != nil {
		return "", err
	}
	return Token(signed), nil
}
