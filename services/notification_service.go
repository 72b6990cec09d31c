package services

import (
	"time"

	"github.com/google/uuid"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
	"team-hub/repositories"
)

type INotificationService interface {
	Notify(recipient domain.UserID, kind, body string) (domain.Notification, error)
	MarkRead(recipient domain.UserID, id uuid.UUID) (domain.Notification, error)
	ListForUser(recipient domain.UserID) ([]domain.Notification, error)
}

type NotificationService struct {
	notifications repositories.INotificationRepository
	bus           contract.EventBus
}

func NewNotificationService(notifications repositories.INotificationRepository, bus contract.EventBus) INotificationService {
	return &NotificationService{notifications: notifications, bus: bus}
}

func (s *NotificationService) Notify(recipient domain.UserID, kind, body string) (domain.Notification, error) {
	n := domain.Notification{
		ID:          uuid.New(),
		RecipientID: recipient,
		Kind:        kind,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.notifications.Store(n); err != nil {
		return domain.Notification{}, err
	}

	s.bus.Publish(event.NotificationCreated{Notification: n})
	return n, nil
}

func (s *NotificationService) MarkRead(recipient domain.UserID, id uuid.UUID) (domain.Notification, error) {
	n, err := s.notifications.MarkRead(recipient, id)
	if err != nil {
		return domain.Notification{}, err
	}

	// The read receipt only ever goes back to the recipient's own
	// connection, so other devices can clear the badge.
	s.bus.Publish(event.NotificationRead{Notification: n})
	return n, nil
}

func (s *NotificationService) ListForUser(recipient domain.UserID) ([]domain.Notification, error) {
	return s.notifications.ListForUser(recipient)
}
