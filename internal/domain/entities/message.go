package entities

import "time"

// ChatMessage is one entry of an event's append-only chat log.
type ChatMessage struct {
	ID           string
	EventID      string
	UserID       string
	UserName     string
	UserPhotoURL string
	Message      string
	SentAt       time.Time
}
