//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"team-hub/domain"
	"team-hub/errors"
)

type IMessageRepository interface {
	Store(message domain.Message) error
	Update(message domain.Message) error
	Delete(id uuid.UUID) error
	Get(id uuid.UUID) (domain.Message, error)
	History(channel domain.ChannelID, cursor *string) ([]domain.Message, *string, error)
}

// MessageRepository persists messages in BadgerDB.
//
// Channel messages get two keys: the record under "msgid:<uuid>" and a
// history index entry "msg:<channel>:<timestamp_padded>:<uuid>". The
// 19-digit zero padding makes lexicographic order chronological, and
// the UUID suffix disambiguates same-nanosecond arrivals. Direct
// messages only get the record key; they have no shared history scan.
type MessageRepository struct {
	db       *badger.DB
	log      *slog.Logger
	pageSize int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, pageSize int) IMessageRepository {
	return &MessageRepository{db: db, log: log, pageSize: pageSize}
}

func messageKey(id uuid.UUID) []byte {
	return []byte("msgid:" + id.String())
}

func historyKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.ChannelID, m.CreatedAt.UnixNano(), m.ID))
}

func (r *MessageRepository) Store(message domain.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message.ID), data); err != nil {
			return err
		}
		if !message.Direct() {
			return txn.Set(historyKey(message), []byte(message.ID.String()))
		}
		return nil
	})
}

// Update rewrites the record in place. The history index key embeds the
// creation time, which never changes, so it stays untouched.
func (r *MessageRepository) Update(message domain.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(messageKey(message.ID)); err != nil {
			return errors.ErrNotFound
		}
		return txn.Set(messageKey(message.ID), data)
	})
}

func (r *MessageRepository) Delete(id uuid.UUID) error {
	message, err := r.Get(id)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(messageKey(id)); err != nil {
			return err
		}
		if !message.Direct() {
			return txn.Delete(historyKey(message))
		}
		return nil
	})
}

func (r *MessageRepository) Get(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(id))
		if err != nil {
			return errors.ErrNotFound
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &message)
		})
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// History returns one page of a channel's messages, newest first, via a
// reverse prefix scan over the time-ordered index. The returned cursor
// is the last index key of the page; pass it back to continue.
func (r *MessageRepository) History(channel domain.ChannelID, cursor *string) ([]domain.Message, *string, error) {
	prefix := []byte(fmt.Sprintf("msg:%s:", channel))
	var ids []uuid.UUID
	var lastKey string

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// In reverse mode the seek key must sort after every key of
		// the page we want; 0xFF never appears in our keys.
		seek := append(append([]byte{}, prefix...), 0xFF)
		if cursor != nil {
			seek = []byte(*cursor)
		}

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			if cursor != nil && key == *cursor {
				// The cursor names the last delivered entry.
				continue
			}
			if err := it.Item().Value(func(val []byte) error {
				id, err := uuid.Parse(string(val))
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			}); err != nil {
				return err
			}
			lastKey = key
			if len(ids) >= r.pageSize {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := r.Get(id)
		if err != nil {
			// Index entry outlived its record; skip rather than fail
			// the whole page.
			r.log.Warn("Dangling history entry", "message_id", id)
			continue
		}
		messages = append(messages, message)
	}

	if len(ids) < r.pageSize {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}
