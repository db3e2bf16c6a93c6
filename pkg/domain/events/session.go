package events

import (
	"time"

	"github.com/google/uuid"
)

// SessionStarted is emitted when the identity provider reports a sign-in.
type SessionStarted struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func (e SessionStarted) Type() string { return EventTypeSessionStarted.String() }
func (e SessionStarted) Owner() uuid.UUID { return e.UserID }
