package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
	"team-hub/repositories"
)

type IReactionService interface {
	Add(cmd domain.ReactCommand) (domain.Reaction, error)
	Update(cmd domain.ReactCommand) (domain.Reaction, error)
	Remove(cmd domain.ReactCommand) error
}

// ReactionService mutates the reaction list stored inline on the
// message record. Events carry the reacted-to message snapshot because
// delivery targets the message's audience, not the reaction's.
type ReactionService struct {
	messages repositories.IMessageRepository
	bus      contract.EventBus
}

func NewReactionService(messages repositories.IMessageRepository, bus contract.EventBus) IReactionService {
	return &ReactionService{messages: messages, bus: bus}
}

func (s *ReactionService) Add(cmd domain.ReactCommand) (domain.Reaction, error) {
	message, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return domain.Reaction{}, err
	}

	reaction := domain.Reaction{
		ID:        uuid.New(),
		MessageID: message.ID,
		UserID:    cmd.UserID,
		Emoji:     cmd.Emoji,
		CreatedAt: time.Now().UTC(),
	}
	message.Reactions = append(message.Reactions, reaction)
	if err := s.messages.Update(message); err != nil {
		return domain.Reaction{}, err
	}

	s.bus.Publish(event.ReactionCreated{Reaction: reaction, Message: message})
	return reaction, nil
}

func (s *ReactionService) Update(cmd domain.ReactCommand) (domain.Reaction, error) {
	message, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return domain.Reaction{}, err
	}

	idx, found := findReaction(message.Reactions, cmd.UserID)
	if !found {
		return domain.Reaction{}, fmt.Errorf("no reaction from this user to update")
	}
	message.Reactions[idx].Emoji = cmd.Emoji
	if err := s.messages.Update(message); err != nil {
		return domain.Reaction{}, err
	}

	s.bus.Publish(event.ReactionUpdated{Reaction: message.Reactions[idx], Message: message})
	return message.Reactions[idx], nil
}

func (s *ReactionService) Remove(cmd domain.ReactCommand) error {
	message, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return err
	}

	idx, found := findReaction(message.Reactions, cmd.UserID)
	if !found {
		return fmt.Errorf("no reaction from this user to remove")
	}
	removed := message.Reactions[idx]
	message.Reactions = append(message.Reactions[:idx], message.Reactions[idx+1:]...)
	if err := s.messages.Update(message); err != nil {
		return err
	}

	s.bus.Publish(event.ReactionRemoved{Reaction: removed, Message: message})
	return nil
}

func findReaction(reactions []domain.Reaction, user domain.UserID) (int, bool) {
	_, idx, found := lo.FindIndexOf(reactions, func(r domain.Reaction) bool {
		return r.UserID == user
	})
	return idx, found
}
