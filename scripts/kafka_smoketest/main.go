// Command kafka_smoketest round-trips a session event through the Kafka event
// bus against a local cluster.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/budgettracker/infra/eventbus"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// RunSmokeTest creates the event topics, emits one SessionStarted event and
// waits for the registered handler to receive it.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9093,localhost:9092"
	}
	groupID := strings.TrimSpace(os.Getenv("GROUP_ID"))
	if groupID == "" {
		groupID = "budgettracker-smoke"
	}
	prefix := strings.TrimSpace(os.Getenv("TOPIC_PREFIX"))
	if prefix == "" {
		prefix = "budget.events"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := createTopics(ctx, strings.Split(brokers, ",")[0], prefix, logger); err != nil {
		return err
	}

	bus, err := infra_eventbus.NewWithKafka(brokers, infra_eventbus.KafkaEventBusConfig{
		GroupID:     groupID,
		TopicPrefix: prefix,
	}, logger)
	if err != nil {
		return err
	}
	defer bus.Close() //nolint:errcheck

	want := events.SessionStarted{UserID: uuid.New(), Email: "smoke@example.com", Timestamp: time.Now().UTC()}
	received := make(chan uuid.UUID, 1)
	bus.Register(events.EventTypeSessionStarted, func(_ context.Context, e events.Event) error {
		if s, ok := e.(*events.SessionStarted); ok {
			select {
			case received <- s.UserID:
			default:
			}
		}
		return nil
	})

	if err := bus.Emit(ctx, want); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "type", want.Type(), "userID", want.UserID)

	for {
		select {
		case got := <-received:
			if got != want.UserID {
				logger.Info("skipping stale event", "userID", got)
				continue
			}
			logger.Info("kafka smoke test passed")
			return nil
		case <-ctx.Done():
			return errors.New("timed out waiting for the event")
		}
	}
}

func createTopics(ctx context.Context, broker, prefix string, logger *slog.Logger) error {
	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", broker)
	if err != nil {
		logger.Error("dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	for eventType := range events.EventTypes {
		topic := fmt.Sprintf("%s.%s", prefix, strings.ToLower(eventType.String()))
		err = conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
			logger.Error("create topic failed", "topic", topic, "error", err)
			return err
		}
		logger.Info("topic ready", "topic", topic)
	}
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
