package notification

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/notification"
)

// Repository stores notifications.
type Repository interface {
	Create(ctx context.Context, n notification.Notification) error
}
