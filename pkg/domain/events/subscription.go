package events

import (
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/google/uuid"
)

// SubscriptionTierChanged is emitted whenever a profile tier is written with a
// value different from the previous one.
type SubscriptionTierChanged struct {
	UserID    uuid.UUID      `json:"user_id"`
	Previous  billing.Tier   `json:"previous"`
	Tier      billing.Tier   `json:"tier"`
	Status    billing.Status `json:"status"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e SubscriptionTierChanged) Type() string { return EventTypeSubscriptionTierChanged.String() }
func (e SubscriptionTierChanged) Owner() uuid.UUID { return e.UserID }
