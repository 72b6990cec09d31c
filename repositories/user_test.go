package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"team-hub/errors"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(testDB(t))

	user, err := repo.CreateUser("alice@example.com", "hashed", "Alice")
	req.NoError(err)
	req.NotEmpty(user.ID)

	byEmail, err := repo.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(user.ID, byEmail.ID)
	req.Equal("hashed", byEmail.PasswordHash)

	byID, err := repo.GetUserByID(user.ID)
	req.NoError(err)
	req.Equal("alice@example.com", byID.Email)
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(testDB(t))
	_, err := repo.CreateUser("alice@example.com", "hashed", "Alice")
	req.NoError(err)

	_, err = repo.CreateUser("alice@example.com", "other", "Imposter")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_GetUserByEmail_Unknown(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(testDB(t))

	_, err := repo.GetUserByEmail("ghost@example.com")
	req.ErrorIs(err, errors.ErrNotFound)
}
