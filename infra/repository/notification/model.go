package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification represents a persisted in-app notification.
type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type      string         `gorm:"type:varchar(32);not null;default:'system'"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Message   string         `gorm:"type:text;not null"`
	IsRead    bool           `gorm:"not null;default:false"`
	Metadata  map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time
}

// TableName pins the table name used by migrations.
func (Notification) TableName() string { return "notifications" }
