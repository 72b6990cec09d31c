package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"team-hub/domain"
	"team-hub/domain/event"
)

func postTestMessage(t *testing.T, f messageFixture) domain.Message {
	t.Helper()
	message, err := f.service.Post(domain.PostMessageCommand{
		ChannelID: f.channel.ID,
		SenderID:  "alice",
		Content:   "react to me",
	})
	require.NoError(t, err)
	return message
}

func newReactionFixture(t *testing.T) (IReactionService, messageFixture, domain.Message) {
	t.Helper()
	f := newMessageFixture(t)
	message := postTestMessage(t, f)
	service := NewReactionService(f.messages, f.bus)
	return service, f, message
}

func TestReactionService_Add_EventCarriesMessageSnapshot(t *testing.T) {
	req := require.New(t)
	service, f, message := newReactionFixture(t)

	reaction, err := service.Add(domain.ReactCommand{
		MessageID: message.ID,
		UserID:    "bob",
		Emoji:     "👍",
	})

	req.NoError(err)
	req.Equal("👍", reaction.Emoji)

	created := f.bus.published[1].(event.ReactionCreated)
	req.Equal(reaction.ID, created.Reaction.ID)
	// The snapshot includes the fresh reaction so recipients render it
	req.Len(created.Message.Reactions, 1)
}

func TestReactionService_Update_ChangesEmojiInPlace(t *testing.T) {
	req := require.New(t)
	service, f, message := newReactionFixture(t)
	_, err := service.Add(domain.ReactCommand{MessageID: message.ID, UserID: "bob", Emoji: "👍"})
	req.NoError(err)

	updated, err := service.Update(domain.ReactCommand{MessageID: message.ID, UserID: "bob", Emoji: "🎉"})

	req.NoError(err)
	req.Equal("🎉", updated.Emoji)
	req.IsType(event.ReactionUpdated{}, f.bus.published[2])
}

func TestReactionService_Update_WithoutExistingReaction(t *testing.T) {
	req := require.New(t)
	service, _, message := newReactionFixture(t)

	_, err := service.Update(domain.ReactCommand{MessageID: message.ID, UserID: "bob", Emoji: "🎉"})
	req.Error(err)
}

func TestReactionService_Remove(t *testing.T) {
	req := require.New(t)
	service, f, message := newReactionFixture(t)
	_, err := service.Add(domain.ReactCommand{MessageID: message.ID, UserID: "bob", Emoji: "👍"})
	req.NoError(err)

	req.NoError(service.Remove(domain.ReactCommand{MessageID: message.ID, UserID: "bob"}))

	removed := f.bus.published[2].(event.ReactionRemoved)
	req.Equal(domain.UserID("bob"), removed.Reaction.UserID)
	req.Empty(removed.Message.Reactions)

	req.Error(service.Remove(domain.ReactCommand{MessageID: message.ID, UserID: "bob"}))
}
