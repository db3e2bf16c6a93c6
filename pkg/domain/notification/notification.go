// Package notification models in-app notifications raised by domain events.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type is the notification category.
type Type string

const (
	TypeGoalReminder       Type = "goal_reminder"
	TypeTransactionAlert   Type = "transaction_alert"
	TypeSubscriptionUpdate Type = "subscription_update"
	TypeSystem             Type = "system"
)

// Notification is a message shown to one user.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	IsRead    bool
	Metadata  map[string]any
	CreatedAt time.Time
}

// New builds an unread notification.
func New(userID uuid.UUID, t Type, title, message string, metadata map[string]any) Notification {
	return Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     t,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}
}
