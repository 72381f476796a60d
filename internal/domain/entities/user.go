package entities

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	PhotoURL     string
	Location     string
	Language     string
	DiscordID    string // optional, used for Discord DMs
	NoShows      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStats aggregates a user's confirmed participations.
type UserStats struct {
	TotalGames int
	TotalHours int
	NoShows    int
}

type PushToken struct {
	ID          string
	UserID      string
	DeviceToken string
	Platform    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
