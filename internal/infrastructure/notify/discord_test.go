package notify

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportmeet/internal/domain/entities"
)

type fakeSession struct {
	opened []string
	sent   []*discordgo.MessageSend
}

func (f *fakeSession) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.opened = append(f.opened, recipientID)
	return &discordgo.Channel{ID: "dm"}, nil
}

func (f *fakeSession) ChannelMessageSendComplex(_ string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, data)
	return &discordgo.Message{}, nil
}

func TestDiscordSender(t *testing.T) {
	session := &fakeSession{}
	s := NewDiscordSender(session)
	msg := Message{Title: "You are in!", Text: "body", Place: "Arena", StartsAt: evCtx.StartsAt, PlaceLabel: "Where", WhenLabel: "When"}

	require.NoError(t, s.Send(context.Background(), &entities.User{ID: "u1"}, msg))
	assert.Empty(t, session.opened, "users without a linked account are skipped")

	require.NoError(t, s.Send(context.Background(), &entities.User{ID: "u1", DiscordID: "1234"}, msg))
	assert.Equal(t, []string{"1234"}, session.opened)
	require.Len(t, session.sent, 1)
	embed := session.sent[0].Embeds[0]
	assert.Equal(t, "You are in!", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Contains(t, embed.Fields[1].Value, "<t:")
}
