// Package events defines the domain events published on the event bus.
package events

import "github.com/google/uuid"

// Event is anything published on the bus.
type Event interface {
	Type() string
}

// Owned is implemented by events that belong to one user. Broker buses key
// messages by owner so that a user's events keep their order.
type Owned interface {
	Owner() uuid.UUID
}

// EventType represents the type of an event in the system.
type EventType string

const (
	EventTypeSessionStarted          EventType = "Session.Started"
	EventTypeAccountsLinked          EventType = "Accounts.Linked"
	EventTypeAccountSynced           EventType = "Account.Synced"
	EventTypeSubscriptionTierChanged EventType = "Subscription.TierChanged"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// EventTypes holds a constructor per event type so that brokers can decode
// envelopes back into concrete events.
var EventTypes = map[EventType]func() Event{
	EventTypeSessionStarted:          func() Event { return &SessionStarted{} },
	EventTypeAccountsLinked:          func() Event { return &AccountsLinked{} },
	EventTypeAccountSynced:           func() Event { return &AccountSynced{} },
	EventTypeSubscriptionTierChanged: func() Event { return &SubscriptionTierChanged{} },
}
