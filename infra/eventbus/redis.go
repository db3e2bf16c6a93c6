package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

const redisEventField = "event"

// RedisEventBus publishes events to one Redis stream and consumes them with a
// consumer group. Failed or undecodable messages go to "<stream>-DLQ".
type RedisEventBus struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	block    time.Duration
	logger   *slog.Logger

	handlers map[events.EventType][]eventbus.HandlerFunc
	mu       sync.RWMutex

	start  sync.Once
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis connects to url and creates the stream and consumer group if
// they are missing.
func NewWithRedis(url, stream, group string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	return NewWithRedisClient(context.Background(), redis.NewClient(opt), stream, group, logger)
}

// NewWithRedisClient builds the bus on an existing client.
func NewWithRedisClient(
	ctx context.Context,
	client *redis.Client,
	stream, group string,
	logger *slog.Logger,
) (*RedisEventBus, error) {
	if stream == "" || group == "" {
		return nil, fmt.Errorf("redis event bus: stream and group are required")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	err := client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("redis event bus: create group failed: %w", err)
	}

	busCtx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: fmt.Sprintf("consumer-%d", time.Now().UnixNano()),
		block:    5 * time.Second,
		logger:   logger.With("bus", "redis", "stream", stream),
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		ctx:      busCtx,
		cancel:   cancel,
	}, nil
}

// Emit appends the event to the stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	env, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{redisEventField: string(env)},
	}).Err(); err != nil {
		b.logger.Error("failed to emit event", "type", event.Type(), "error", err)
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Register adds a handler. The first registration starts the consumer loop.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()

	b.start.Do(func() {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.consume()
		}()
		b.logger.Info("consumer started", "group", b.group, "consumer", b.consumer)
	})
}

// Close stops the consumer loop and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

func (b *RedisEventBus) consume() {
	for {
		if b.ctx.Err() != nil {
			return
		}
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: b.consumer,
			Streams:  []string{b.stream, ">"},
			Count:    10,
			Block:    b.block,
		}).Result()
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err)
				time.Sleep(time.Second)
			}
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handleMessage(msg)
			}
		}
	}
}

func (b *RedisEventBus) handleMessage(msg redis.XMessage) {
	defer func() {
		if err := b.client.XAck(b.ctx, b.stream, b.group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "msg_id", msg.ID, "error", err)
		}
	}()

	raw, ok := msg.Values[redisEventField].(string)
	if !ok {
		b.pushToDLQ(msg.Values)
		return
	}
	eventType, evt, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode event", "msg_id", msg.ID, "error", err)
		b.pushToDLQ(msg.Values)
		return
	}

	b.mu.RLock()
	handlers := append([]eventbus.HandlerFunc{}, b.handlers[eventType]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if !b.run(eventType, evt, handler) {
			b.pushToDLQ(msg.Values)
		}
	}
}

func (b *RedisEventBus) run(eventType events.EventType, evt events.Event, handler eventbus.HandlerFunc) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic recovered", "event_type", eventType, "panic", r)
			ok = false
		}
	}()
	if err := handler(b.ctx, evt); err != nil {
		b.logger.Error("handler error", "event_type", eventType, "error", err)
		return false
	}
	return true
}

func (b *RedisEventBus) pushToDLQ(values map[string]any) {
	dlq := b.stream + "-DLQ"
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{Stream: dlq, Values: values}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "stream", dlq, "error", err)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlq)
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
