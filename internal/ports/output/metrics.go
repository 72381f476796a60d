package output

import "sportmeet/internal/domain"

// RosterMetrics observes committed roster transitions.
type RosterMetrics interface {
	Joined(status domain.Status)
	Left(status domain.Status)
	Promoted(n int)
	NotificationFailed(kind string)
}
