package domain

import "fmt"

// Status is the participation state of a user in an event.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusWaiting   Status = "waiting"
	// StatusRemoved is a legacy tombstone. Nothing writes it anymore; join
	// reactivates such rows.
	StatusRemoved Status = "removed"
)

// ParseStatus accepts only the closed set of persisted statuses.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusWaiting, StatusRemoved:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown participant status %q", s)
}

// Active reports whether the status counts as roster membership.
func (s Status) Active() bool {
	return s == StatusConfirmed || s == StatusWaiting
}

// Sport identifiers.
const (
	SportBadminton = "badminton"
	SportPadel     = "padel"
	SportSquash    = "squash"
)

// Sports lists the supported sports in display order.
var Sports = []string{SportBadminton, SportPadel, SportSquash}

func IsSport(id string) bool {
	for _, s := range Sports {
		if s == id {
			return true
		}
	}
	return false
}

const (
	ReservationReserved     = "reserved"
	ReservationToBeArranged = "to_be_arranged"
)

const (
	LanguageCzech   = "cs"
	LanguageEnglish = "en"
)

func IsLanguage(l string) bool {
	return l == LanguageCzech || l == LanguageEnglish
}
