// Package billing models subscription tiers mirrored from the billing provider.
package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tier is the internal subscription tier.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierPremium:
		return true
	}
	return false
}

// Status is the internal subscription status.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
	StatusTrialing Status = "trialing"
)

// StatusFromProvider maps a billing-provider subscription status onto the
// internal enum. Unknown statuses are treated as canceled.
func StatusFromProvider(s string) Status {
	switch s {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "unpaid", "incomplete":
		return StatusPastDue
	default:
		return StatusCanceled
	}
}

// Profile is the denormalized tier/status cache on the user profile.
type Profile struct {
	UserID    uuid.UUID
	Username  string
	FirstName string
	LastName  string
	Tier      Tier
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription is the mirrored subscription record.
type Subscription struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Plan                 Tier
	Status               Status
	StripeCustomerID     string
	StripeSubscriptionID string
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool
	BillingCycle         string
	TrialEnd             *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// MinorUnitsToDecimal converts integer cents into a decimal currency amount.
func MinorUnitsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// maxEpoch is 9999-12-31T23:59:59Z.
const maxEpoch = 253402300799

// PeriodEnd converts a provider epoch timestamp in seconds into a UTC time.
// Missing or out of range values yield nil and ok=false instead of failing.
func PeriodEnd(epoch int64) (t *time.Time, ok bool) {
	if epoch <= 0 || epoch > maxEpoch {
		return nil, false
	}
	ts := time.Unix(epoch, 0).UTC()
	return &ts, true
}
