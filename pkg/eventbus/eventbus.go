// Package eventbus defines the publish/subscribe contract used between services.
package eventbus

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/events"
)

// HandlerFunc processes one event.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus publishes domain events and dispatches them to registered handlers.
// Emit must not wait for handlers to finish on asynchronous implementations.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
	Register(eventType events.EventType, handler HandlerFunc)
}
