package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
	"team-hub/repositories"
)

type IMessageService interface {
	Post(cmd domain.PostMessageCommand) (domain.Message, error)
	Edit(cmd domain.EditMessageCommand) (domain.Message, error)
	Delete(cmd domain.DeleteMessageCommand) error
	History(cmd domain.HistoryCommand) ([]domain.Message, *string, error)
}

// MessageService is the message CRUD surface. Every successful
// mutation publishes exactly one domain event; the service never
// learns whether fan-out delivered it.
type MessageService struct {
	log           *slog.Logger
	messages      repositories.IMessageRepository
	workspaces    repositories.IWorkspaceRepository
	notifications INotificationService
	bus           contract.EventBus
}

func NewMessageService(log *slog.Logger, messages repositories.IMessageRepository,
	workspaces repositories.IWorkspaceRepository,
	notifications INotificationService, bus contract.EventBus) IMessageService {
	return &MessageService{
		log:           log,
		messages:      messages,
		workspaces:    workspaces,
		notifications: notifications,
		bus:           bus,
	}
}

func (s *MessageService) Post(cmd domain.PostMessageCommand) (domain.Message, error) {
	if (cmd.ChannelID == "") == (cmd.RecipientID == "") {
		return domain.Message{}, fmt.Errorf("message must target exactly one of channel or user")
	}

	workspaceID := cmd.WorkspaceID
	if cmd.ChannelID != "" {
		// The channel is the authority on which workspace the message
		// broadcasts into.
		channel, err := s.workspaces.GetChannel(cmd.ChannelID)
		if err != nil {
			return domain.Message{}, err
		}
		workspaceID = channel.WorkspaceID
	}

	message := domain.Message{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		ChannelID:   cmd.ChannelID,
		RecipientID: cmd.RecipientID,
		SenderID:    cmd.SenderID,
		Content:     cmd.Content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messages.Store(message); err != nil {
		return domain.Message{}, err
	}

	s.bus.Publish(event.MessageCreated{Message: message})

	// Direct messages also leave a durable notification so offline
	// recipients find them on their next login. Best effort.
	if message.Direct() {
		if _, err := s.notifications.Notify(message.RecipientID, "direct_message", message.Content); err != nil {
			s.log.Warn(fmt.Sprintf("Notification for direct message failed: %v", err),
				"recipient_id", message.RecipientID)
		}
	}
	return message, nil
}

func (s *MessageService) Edit(cmd domain.EditMessageCommand) (domain.Message, error) {
	message, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return domain.Message{}, err
	}
	if message.SenderID != cmd.EditorID {
		return domain.Message{}, fmt.Errorf("only the sender can edit a message")
	}

	message.Content = cmd.Content
	message.UpdatedAt = time.Now().UTC()
	if err := s.messages.Update(message); err != nil {
		return domain.Message{}, err
	}

	s.bus.Publish(event.MessageUpdated{Message: message})
	return message, nil
}

func (s *MessageService) Delete(cmd domain.DeleteMessageCommand) error {
	message, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return err
	}
	if message.SenderID != cmd.ActorID {
		return fmt.Errorf("only the sender can delete a message")
	}
	if err := s.messages.Delete(cmd.MessageID); err != nil {
		return err
	}

	// The event carries the last snapshot so recipients can render
	// what disappeared.
	s.bus.Publish(event.MessageRemoved{Message: message})
	return nil
}

func (s *MessageService) History(cmd domain.HistoryCommand) ([]domain.Message, *string, error) {
	return s.messages.History(cmd.ChannelID, cmd.Cursor)
}
