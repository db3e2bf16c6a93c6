package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Subscription represents a mirrored billing subscription.
type Subscription struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index"`
	Plan                 string    `gorm:"type:varchar(16);not null;default:'free'"`
	Status               string    `gorm:"type:varchar(16);not null;default:'active'"`
	StripeCustomerID     string    `gorm:"type:varchar(64);index"`
	StripeSubscriptionID string    `gorm:"type:varchar(64);uniqueIndex"`
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool   `gorm:"not null;default:false"`
	BillingCycle         string `gorm:"type:varchar(16)"`
	TrialEnd             *time.Time
	CreatedAt            time.Time `gorm:"index"`
	UpdatedAt            time.Time
}

// TableName pins the table name used by migrations.
func (Subscription) TableName() string { return "subscriptions" }
