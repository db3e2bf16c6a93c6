package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
)

// MemoryEventBus dispatches synchronously inside Emit. It is used by tests
// and keeps every published event for inspection.
type MemoryEventBus struct {
	handlers  map[events.EventType][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates a synchronous in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register adds a handler for eventType.
func (b *MemoryEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit runs every handler registered for the event's type. Handler errors are
// logged, never returned to the emitter.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append([]eventbus.HandlerFunc{}, b.handlers[events.EventType(event.Type())]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("failed to process event", "type", event.Type(), "error", err)
		}
	}
	return nil
}

// Published returns the events emitted so far.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event{}, b.published...)
}

// ClearPublished forgets the recorded events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)

type queued struct {
	ctx   context.Context
	event events.Event
}

// MemoryAsyncEventBus queues events on a buffered channel and runs handlers
// on background goroutines, so Emit returns before any handler finishes.
type MemoryAsyncEventBus struct {
	handlers map[events.EventType][]eventbus.HandlerFunc
	mu       sync.RWMutex
	eventCh  chan queued
	wg       sync.WaitGroup
	once     sync.Once
	log      *slog.Logger
}

// NewWithMemoryAsync creates an asynchronous in-memory event bus.
func NewWithMemoryAsync(logger *slog.Logger) *MemoryAsyncEventBus {
	b := &MemoryAsyncEventBus{
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		eventCh:  make(chan queued, 100),
		log:      logger.With("bus", "memory-async"),
	}
	go b.process()
	return b
}

// Register adds a handler for eventType.
func (b *MemoryAsyncEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// Emit enqueues the event. The handlers get a context that outlives the
// caller's request but keeps its values.
func (b *MemoryAsyncEventBus) Emit(ctx context.Context, event events.Event) error {
	q := queued{ctx: context.WithoutCancel(ctx), event: event}
	b.wg.Add(1)
	select {
	case b.eventCh <- q:
		return nil
	default:
	}
	// Queue is full; wait for room unless the caller gives up.
	select {
	case b.eventCh <- q:
		return nil
	case <-ctx.Done():
		b.wg.Done()
		return ctx.Err()
	}
}

// Wait blocks until every event emitted so far has been handled.
func (b *MemoryAsyncEventBus) Wait() {
	b.wg.Wait()
}

// Close drains outstanding events and stops the dispatcher.
func (b *MemoryAsyncEventBus) Close() error {
	b.once.Do(func() {
		b.wg.Wait()
		close(b.eventCh)
	})
	return nil
}

func (b *MemoryAsyncEventBus) process() {
	for w := range b.eventCh {
		go func(w queued) {
			defer b.wg.Done()
			b.mu.RLock()
			handlers := append([]eventbus.HandlerFunc{}, b.handlers[events.EventType(w.event.Type())]...)
			b.mu.RUnlock()
			for _, handler := range handlers {
				b.dispatch(w, handler)
			}
		}(w)
	}
}

func (b *MemoryAsyncEventBus) dispatch(w queued, handler eventbus.HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic recovered in event handler", "type", w.event.Type(), "panic", r)
		}
	}()
	if err := handler(w.ctx, w.event); err != nil {
		b.log.Error("failed to process event", "type", w.event.Type(), "error", err)
	}
}

var _ eventbus.Bus = (*MemoryAsyncEventBus)(nil)
