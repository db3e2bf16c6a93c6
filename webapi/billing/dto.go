package billing

import (
	"encoding/json"
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/billing"
)

// CheckResponse is the reconciled billing state of the caller.
type CheckResponse struct {
	Subscribed      bool         `json:"subscribed"`
	Tier            billing.Tier `json:"tier"`
	ProductID       *string      `json:"product_id"`
	SubscriptionEnd *time.Time   `json:"subscription_end"`
}

// UpdateRequest is the body of POST /billing/update-subscription.
type UpdateRequest struct {
	PriceID string `json:"priceId" validate:"required"`
}

// UpdateResponse reports a plan change. ProratedAmount is a JSON number with
// two decimals.
type UpdateResponse struct {
	Success         bool        `json:"success"`
	SubscriptionID  string      `json:"subscriptionId"`
	ProratedAmount  json.Number `json:"proratedAmount"`
	NextBillingDate *time.Time  `json:"nextBillingDate"`
}
