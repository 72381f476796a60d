package entities

import (
	"time"

	"sportmeet/internal/domain"
)

// Participant represents a user's participation in an event.
type Participant struct {
	ID       string
	EventID  string
	UserID   string
	UserName string
	Status   domain.Status
	// WaitingPosition is set (>= 1) only while Status is waiting.
	WaitingPosition int
	JoinedAt        time.Time
}

func (p *Participant) IsConfirmed() bool { return p.Status == domain.StatusConfirmed }
func (p *Participant) IsWaiting() bool   { return p.Status == domain.StatusWaiting }
