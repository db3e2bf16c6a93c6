package dto

import (
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/google/uuid"
)

// SubscriptionUpdate is a DTO for updating a mirrored subscription record.
type SubscriptionUpdate struct {
	Plan              *billing.Tier
	Status            *billing.Status
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd *bool
	BillingCycle      *string
}

// SubscriptionRead is the API view of a subscription record.
type SubscriptionRead struct {
	ID                   uuid.UUID      `json:"id"`
	Plan                 billing.Tier   `json:"plan"`
	Status               billing.Status `json:"status"`
	StripeCustomerID     string         `json:"stripe_customer_id"`
	StripeSubscriptionID string         `json:"stripe_subscription_id"`
	CurrentPeriodEnd     *time.Time     `json:"current_period_end"`
	CancelAtPeriodEnd    bool           `json:"cancel_at_period_end"`
	BillingCycle         string         `json:"billing_cycle,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
}

// AdminUser is one profile merged with its subscription records.
type AdminUser struct {
	UserID             uuid.UUID           `json:"user_id"`
	Username           string              `json:"username"`
	FirstName          string              `json:"first_name"`
	LastName           string              `json:"last_name"`
	SubscriptionTier   billing.Tier        `json:"subscription_tier"`
	SubscriptionStatus billing.Status      `json:"subscription_status"`
	CreatedAt          time.Time           `json:"created_at"`
	Subscriptions      []*SubscriptionRead `json:"subscriptions"`
}

// NewSubscriptionRead maps a subscription record onto its API view.
func NewSubscriptionRead(s *billing.Subscription) *SubscriptionRead {
	return &SubscriptionRead{
		ID:                   s.ID,
		Plan:                 s.Plan,
		Status:               s.Status,
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		BillingCycle:         s.BillingCycle,
		CreatedAt:            s.CreatedAt,
	}
}
