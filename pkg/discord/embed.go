package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2

// Field is one labelled line of an embed.
type Field struct {
	Name  string
	Value string
}

// BuildNotificationEmbed builds the DM embed for a roster notification.
func BuildNotificationEmbed(title, body string, fields ...Field) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.TrimSpace(body),
		Color:       embedColor,
	}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: true})
	}
	return embed
}

