//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"team-hub/domain"
	"team-hub/errors"
)

type ISessionRepository interface {
	Create(session domain.Session) error
	GetByToken(token string) (domain.Session, error)
	Revoke(token string) error
}

// SessionRepository persists issued credentials in BadgerDB under
// "session:<token>". Records are mutated only by revocation; expiry is
// evaluated by the authenticator, never by the store.
type SessionRepository struct {
	db *badger.DB
}

func NewSessionRepository(db *badger.DB) ISessionRepository {
	return &SessionRepository{db: db}
}

func sessionKey(token string) []byte {
	return []byte("session:" + token)
}

func (r *SessionRepository) Create(session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(session.Token), data)
	})
}

func (r *SessionRepository) GetByToken(token string) (domain.Session, error) {
	var session domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(token))
		if err != nil {
			return errors.ErrNotFound
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Revoke flips the revoked flag in place. The record is kept: an active
// connection may still reference it, and per-use validity checks must
// keep failing consistently rather than hit a missing key.
func (r *SessionRepository) Revoke(token string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(token))
		if err != nil {
			return errors.ErrNotFound
		}
		var session domain.Session
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		}); err != nil {
			return err
		}
		session.Revoked = true
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return txn.Set(sessionKey(token), data)
	})
}
