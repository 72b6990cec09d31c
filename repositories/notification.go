//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"team-hub/domain"
	"team-hub/errors"
)

type INotificationRepository interface {
	Store(n domain.Notification) error
	MarkRead(recipient domain.UserID, id uuid.UUID) (domain.Notification, error)
	ListForUser(recipient domain.UserID) ([]domain.Notification, error)
}

// NotificationRepository stores notifications per recipient under
// "notif:<user>:<timestamp_padded>:<id>", time-ordered like the
// message history index.
type NotificationRepository struct {
	db *badger.DB
}

func NewNotificationRepository(db *badger.DB) INotificationRepository {
	return &NotificationRepository{db: db}
}

func notificationKey(n domain.Notification) []byte {
	return []byte(fmt.Sprintf("notif:%s:%019d:%s", n.RecipientID, n.CreatedAt.UnixNano(), n.ID))
}

func (r *NotificationRepository) Store(n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(notificationKey(n), data)
	})
}

// MarkRead locates the notification in the recipient's prefix range and
// rewrites it with the read flag set.
func (r *NotificationRepository) MarkRead(recipient domain.UserID, id uuid.UUID) (domain.Notification, error) {
	var updated domain.Notification
	err := r.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("notif:%s:", recipient))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var n domain.Notification
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			if n.ID != id {
				continue
			}
			n.Read = true
			data, err := json.Marshal(n)
			if err != nil {
				return err
			}
			updated = n
			return txn.Set(it.Item().KeyCopy(nil), data)
		}
		return errors.ErrNotFound
	})
	if err != nil {
		return domain.Notification{}, err
	}
	return updated, nil
}

func (r *NotificationRepository) ListForUser(recipient domain.UserID) ([]domain.Notification, error) {
	prefix := []byte(fmt.Sprintf("notif:%s:", recipient))
	var notifications []domain.Notification
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var n domain.Notification
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			notifications = append(notifications, n)
		}
		return nil
	})
	return notifications, err
}
