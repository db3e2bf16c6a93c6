package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a persisted user profile.
type Profile struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Username           string    `gorm:"type:varchar(64)"`
	FirstName          string    `gorm:"type:varchar(128)"`
	LastName           string    `gorm:"type:varchar(128)"`
	SubscriptionTier   string    `gorm:"type:varchar(16);not null;default:'free'"`
	SubscriptionStatus string    `gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

// TableName pins the table name used by migrations.
func (Profile) TableName() string { return "profiles" }

// UserRole grants a named role to a user.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role,priority:1"`
	Role      string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_user_roles_user_role,priority:2"`
	CreatedAt time.Time
}

// TableName pins the table name used by migrations.
func (UserRole) TableName() string { return "user_roles" }
