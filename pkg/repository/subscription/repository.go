package subscription

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines access to mirrored subscription records.
type Repository interface {
	Create(ctx context.Context, sub billing.Subscription) error

	Update(ctx context.Context, id uuid.UUID, update dto.SubscriptionUpdate) error

	// GetByStripeSubscriptionID returns the record or domain.ErrNotFound.
	GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*billing.Subscription, error)

	// GetLatestByCustomerID returns the newest record for a billing customer
	// or domain.ErrNotFound.
	GetLatestByCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error)

	// List lists every subscription record, newest first.
	List(ctx context.Context) ([]*billing.Subscription, error)
}
