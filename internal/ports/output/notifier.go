package output

import (
	"context"

	"sportmeet/internal/domain/entities"
)

// Notifier informs users about roster transitions. Delivery is best effort:
// callers log returned errors and carry on.
type Notifier interface {
	NotifyPromoted(ctx context.Context, userID string, event entities.EventContext) error
	NotifyReminder(ctx context.Context, userID string, event entities.EventContext) error
}
