package notify

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"sportmeet/internal/domain/entities"
	"sportmeet/pkg/discord"
)

// DiscordSender DMs users who linked a Discord account.
type DiscordSender struct {
	session discord.Session
}

func NewDiscordSender(session discord.Session) *DiscordSender {
	return &DiscordSender{session: session}
}

// NewDiscordSession opens a bot session for token.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsDirectMessages
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DiscordSender) Name() string { return "discord" }

func (s *DiscordSender) Send(_ context.Context, user *entities.User, msg Message) error {
	if user.DiscordID == "" {
		return nil
	}
	embed := discord.BuildNotificationEmbed(msg.Title, msg.Text,
		discord.Field{Name: msg.PlaceLabel, Value: msg.Place},
		discord.Field{Name: msg.WhenLabel, Value: discord.FormatTimestamp(msg.StartsAt, discord.TimestampLongDateTime)},
	)
	return discord.SendDM(s.session, user.DiscordID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}
