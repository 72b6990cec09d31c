package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"team-hub/domain"
	"team-hub/services"
)

// Route names accepted over the websocket. The acting user is always
// the connection's owner, never a payload field.
const (
	RouteMessageCreate    = "message.create"
	RouteMessageUpdate    = "message.update"
	RouteMessageDelete    = "message.delete"
	RouteMessageHistory   = "message.history"
	RouteReactionCreate   = "reaction.create"
	RouteReactionUpdate   = "reaction.update"
	RouteReactionDelete   = "reaction.delete"
	RouteNotificationRead = "notification.read"
)

type createMessagePayload struct {
	ChannelID   string `json:"channel_id,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`
	Content     string `json:"content"`
}

type updateMessagePayload struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

type deleteMessagePayload struct {
	MessageID string `json:"message_id"`
}

type historyPayload struct {
	ChannelID string  `json:"channel_id"`
	Cursor    *string `json:"cursor,omitempty"`
}

type historyResult struct {
	Messages []domain.Message `json:"messages"`
	Cursor   *string          `json:"cursor,omitempty"`
}

type reactionPayload struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

type readNotificationPayload struct {
	NotificationID string `json:"notification_id"`
}

// Handlers binds the command routes to the service layer.
type Handlers struct {
	log           *slog.Logger
	messages      services.IMessageService
	reactions     services.IReactionService
	notifications services.INotificationService
}

func NewHandlers(
	log *slog.Logger,
	messages services.IMessageService,
	reactions services.IReactionService,
	notifications services.INotificationService,
) *Handlers {
	return &Handlers{
		log:           log,
		messages:      messages,
		reactions:     reactions,
		notifications: notifications,
	}
}

// RegisterRoutes installs every command route. Fails on the first
// conflict so wiring bugs stop the boot.
func (h *Handlers) RegisterRoutes(rt *RouteTable) error {
	bindings := map[string]HandlerFunc{
		RouteMessageCreate:    h.createMessage,
		RouteMessageUpdate:    h.updateMessage,
		RouteMessageDelete:    h.deleteMessage,
		RouteMessageHistory:   h.history,
		RouteReactionCreate:   h.createReaction,
		RouteReactionUpdate:   h.updateReaction,
		RouteReactionDelete:   h.deleteReaction,
		RouteNotificationRead: h.readNotification,
	}
	for name, fn := range bindings {
		if err := rt.Handle(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) createMessage(userID domain.UserID, raw json.RawMessage) Ack {
	var p createMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failAck("invalid payload")
	}
	msg, err := h.messages.Post(domain.PostMessageCommand{
		ChannelID:   domain.ChannelID(p.ChannelID),
		RecipientID: domain.UserID(p.RecipientID),
		SenderID:    userID,
		Content:     p.Content,
	})
	if err != nil {
		return h.fail(RouteMessageCreate, userID, err)
	}
	return okAck(msg)
}

func (h *Handlers) updateMessage(userID domain.UserID, raw json.RawMessage) Ack {
	var p updateMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failAck("invalid payload")
	}
	id, err := uuid.Parse(p.MessageID)
	if err != nil {
		return failAck("invalid message_id")
	}
	msg, err := h.messages.Edit(domain.EditMessageCommand{
		MessageID: id,
		EditorID:  userID,
		Content:   p.Content,
	})
	if err != nil {
		return h.fail(RouteMessageUpdate, userID, err)
	}
	return okAck(msg)
}

func (h *Handlers) deleteMessage(userID domain.UserID, raw json.RawMessage) Ack {
	var p deleteMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failAck("invalid payload")
	}
	id, err := uuid.Parse(p.MessageID)
	if err != nil {
		return failAck("invalid message_id")
	}
	if err := h.messages.Delete(domain.DeleteMessageCommand{MessageID: id, ActorID: userID}); err != nil {
		return h.fail(RouteMessageDelete, userID, err)
	}
	return okAck(nil)
}

func (h *Handlers) history(userID domain.UserID, raw json.RawMessage) Ack {
	var p historyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failAck("invalid payload")
	}
	messages, cursor, err := h.messages.History(domain.HistoryCommand{
		ChannelID: domain.ChannelID(p.ChannelID),
		Cursor:    p.Cursor,
	})
	if err != nil {
		return h.fail(RouteMessageHistory, userID, err)
	}
	return okAck(historyResult{Messages: messages, Cursor: cursor})
}

func (h *Handlers) createReaction(userID domain.UserID, raw json.RawMessage) Ack {
	return h.react(RouteReactionCreate, userID, raw, h.reactions.Add)
}

func (h *Handlers) updateReaction(userID domain.UserID, raw json.RawMessage) Ack {
	return h.react(RouteReactionUpdate, userID, raw, h.reactions.Update)
}

func (h *Handlers) react(route string, userID domain.UserID, raw json.RawMessage,
	op func(domain.ReactCommand) (domain.Reaction, error)) Ack {
	var p reactionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failAck("invalid payload")
	}
	id, err := uuid.Parse(p.MessageID)
	if err != nil {
		return failAck("invalid message_id")
	}
	reaction, err := op(domain.ReactCommand{MessageID: id, UserID: userID, Emoji: p.Emoji})
	if err != nil {
		return h.fail(route, userID, err)
	}
	return okAck(reaction)
}

func (h *Handlers) deleteReaction(userID domain.UserID, raw json.RawMessage) Ack {
	var p reactionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failAck("invalid payload")
	}
	id, err := uuid.Parse(p.MessageID)
	if err != nil {
		return failAck("invalid message_id")
	}
	if err := h.reactions.Remove(domain.ReactCommand{MessageID: id, UserID: userID, Emoji: p.Emoji}); err != nil {
		return h.fail(RouteReactionDelete, userID, err)
	}
	return okAck(nil)
}

func (h *Handlers) readNotification(userID domain.UserID, raw json.RawMessage) Ack {
	var p readNotificationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failAck("invalid payload")
	}
	id, err := uuid.Parse(p.NotificationID)
	if err != nil {
		return failAck("invalid notification_id")
	}
	notification, err := h.notifications.MarkRead(userID, id)
	if err != nil {
		return h.fail(RouteNotificationRead, userID, err)
	}
	return okAck(notification)
}

func (h *Handlers) fail(route string, userID domain.UserID, err error) Ack {
	h.log.Warn(fmt.Sprintf("Route %s failed: %v", route, err), "user_id", userID)
	return failAck(err.Error())
}
