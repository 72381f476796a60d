// Package discord holds small helpers for sending Discord direct messages.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Session is the subset of *discordgo.Session used to send DMs.
type Session interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ Session = (*discordgo.Session)(nil)

// SendDM opens (or reuses) the DM channel with userID and posts msg.
func SendDM(s Session, userID string, msg *discordgo.MessageSend) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if _, err := s.ChannelMessageSendComplex(ch.ID, msg); err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}
