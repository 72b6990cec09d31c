//go:generate go run go.uber.org/mock/mockgen -source=workspace.go -destination=../mocks/mock_workspace_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"team-hub/domain"
	"team-hub/errors"
)

type IWorkspaceRepository interface {
	CreateWorkspace(name string, owner domain.UserID) (domain.Workspace, error)
	GetWorkspace(id domain.WorkspaceID) (domain.Workspace, error)
	UpdateWorkspace(ws domain.Workspace) error
	DeleteWorkspace(id domain.WorkspaceID) error

	AddMember(ws domain.WorkspaceID, user domain.UserID) error
	RemoveMember(ws domain.WorkspaceID, user domain.UserID) error
	Members(ws domain.WorkspaceID) ([]domain.UserID, error)
	// WorkspacesForUser is the membership snapshot the gateway reads
	// right before registering a connection.
	WorkspacesForUser(user domain.UserID) ([]domain.WorkspaceID, error)

	CreateChannel(ws domain.WorkspaceID, name string) (domain.Channel, error)
	GetChannel(id domain.ChannelID) (domain.Channel, error)
	DeleteChannel(id domain.ChannelID) error
}

// WorkspaceRepository keeps workspaces, channels, and the two-way
// membership index in BadgerDB:
//
//	ws:<id>                 workspace record
//	chan:<id>               channel record
//	member:<ws>:<user>      forward membership edge
//	memberof:<user>:<ws>    reverse edge, scanned at connection time
type WorkspaceRepository struct {
	db *badger.DB
}

func NewWorkspaceRepository(db *badger.DB) IWorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func wsKey(id domain.WorkspaceID) []byte { return []byte("ws:" + string(id)) }
func chanKey(id domain.ChannelID) []byte { return []byte("chan:" + string(id)) }
func memberKey(ws domain.WorkspaceID, u domain.UserID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", ws, u))
}
func memberOfKey(u domain.UserID, ws domain.WorkspaceID) []byte {
	return []byte(fmt.Sprintf("memberof:%s:%s", u, ws))
}

func (r *WorkspaceRepository) CreateWorkspace(name string, owner domain.UserID) (domain.Workspace, error) {
	now := time.Now().UTC()
	ws := domain.Workspace{
		ID:        domain.WorkspaceID(uuid.NewString()),
		Name:      name,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	data, err := json.Marshal(ws)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(wsKey(ws.ID), data); err != nil {
			return err
		}
		// The owner is a member from the start.
		if err := txn.Set(memberKey(ws.ID, owner), nil); err != nil {
			return err
		}
		return txn.Set(memberOfKey(owner, ws.ID), nil)
	})
	if err != nil {
		return domain.Workspace{}, err
	}
	return ws, nil
}

func (r *WorkspaceRepository) GetWorkspace(id domain.WorkspaceID) (domain.Workspace, error) {
	var ws domain.Workspace
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(wsKey(id))
		if err != nil {
			return errors.ErrNotFound
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ws)
		})
	})
	if err != nil {
		return domain.Workspace{}, err
	}
	return ws, nil
}

func (r *WorkspaceRepository) UpdateWorkspace(ws domain.Workspace) error {
	ws.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(wsKey(ws.ID)); err != nil {
			return errors.ErrNotFound
		}
		return txn.Set(wsKey(ws.ID), data)
	})
}

// DeleteWorkspace removes the record and all membership edges. Live
// connections registered under the workspace are untouched; the
// registry only re-reads memberships at the next registration.
func (r *WorkspaceRepository) DeleteWorkspace(id domain.WorkspaceID) error {
	members, err := r.Members(id)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, u := range members {
			if err := txn.Delete(memberKey(id, u)); err != nil {
				return err
			}
			if err := txn.Delete(memberOfKey(u, id)); err != nil {
				return err
			}
		}
		return txn.Delete(wsKey(id))
	})
}

func (r *WorkspaceRepository) AddMember(ws domain.WorkspaceID, user domain.UserID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(wsKey(ws)); err != nil {
			return errors.ErrNotFound
		}
		if err := txn.Set(memberKey(ws, user), nil); err != nil {
			return err
		}
		return txn.Set(memberOfKey(user, ws), nil)
	})
}

func (r *WorkspaceRepository) RemoveMember(ws domain.WorkspaceID, user domain.UserID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(memberKey(ws, user)); err != nil {
			return err
		}
		return txn.Delete(memberOfKey(user, ws))
	})
}

func (r *WorkspaceRepository) Members(ws domain.WorkspaceID) ([]domain.UserID, error) {
	prefix := []byte(fmt.Sprintf("member:%s:", ws))
	var users []domain.UserID
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			users = append(users, domain.UserID(key[len(prefix):]))
		}
		return nil
	})
	return users, err
}

func (r *WorkspaceRepository) WorkspacesForUser(user domain.UserID) ([]domain.WorkspaceID, error) {
	prefix := []byte(fmt.Sprintf("memberof:%s:", user))
	var workspaces []domain.WorkspaceID
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			workspaces = append(workspaces, domain.WorkspaceID(key[len(prefix):]))
		}
		return nil
	})
	return workspaces, err
}

func (r *WorkspaceRepository) CreateChannel(ws domain.WorkspaceID, name string) (domain.Channel, error) {
	channel := domain.Channel{
		ID:          domain.ChannelID(uuid.NewString()),
		WorkspaceID: ws,
		Name:        name,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(channel)
	if err != nil {
		return domain.Channel{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(wsKey(ws)); err != nil {
			return errors.ErrNotFound
		}
		return txn.Set(chanKey(channel.ID), data)
	})
	if err != nil {
		return domain.Channel{}, err
	}
	return channel, nil
}

func (r *WorkspaceRepository) GetChannel(id domain.ChannelID) (domain.Channel, error) {
	var channel domain.Channel
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chanKey(id))
		if err != nil {
			return errors.ErrNotFound
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &channel)
		})
	})
	if err != nil {
		return domain.Channel{}, err
	}
	return channel, nil
}

func (r *WorkspaceRepository) DeleteChannel(id domain.ChannelID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chanKey(id))
	})
}
