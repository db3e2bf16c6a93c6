package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/budgettracker/infra"
	infra_cache "github.com/amirasaad/budgettracker/infra/cache"
	infra_eventbus "github.com/amirasaad/budgettracker/infra/eventbus"
	"github.com/amirasaad/budgettracker/infra/provider/plaid"
	"github.com/amirasaad/budgettracker/infra/provider/stripe"
	infra_repository "github.com/amirasaad/budgettracker/infra/repository"
	"github.com/amirasaad/budgettracker/pkg/cache"
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

const (
	driverMemory = "memory"
	driverRedis  = "redis"
	driverKafka  = "kafka"

	memoryCacheSweep = 10 * time.Minute
	redisPingTimeout = 3 * time.Second
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *config.Deps,
	err error,
) {
	logger := setupLogger(cfg.Log)
	deps = &config.Deps{Logger: logger, Config: cfg}

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	deps.Uow = infra_repository.NewUoW(db)

	deps.EventBus, err = newEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	deps.InstitutionCache = newInstitutionCache(cfg.Redis, logger)
	deps.Aggregator = plaid.New(cfg.Plaid, deps.InstitutionCache, logger)
	deps.Billing = stripe.New(cfg.Stripe, logger)

	logger.Info("Dependencies initialized",
		"event_bus", cfg.EventBus.Driver,
		"plaid_env", cfg.Plaid.Env,
		"stripe_env", cfg.Stripe.Env,
	)
	return deps, nil
}

func newEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	switch cfg.EventBus.Driver {
	case "", driverMemory:
		return infra_eventbus.NewWithMemoryAsync(logger), nil
	case driverRedis:
		bus, err := infra_eventbus.NewWithRedis(cfg.Redis.URL, cfg.EventBus.Stream, cfg.EventBus.Group, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis event bus: %w", err)
		}
		return bus, nil
	case driverKafka:
		bus, err := infra_eventbus.NewWithKafka(cfg.EventBus.KafkaBroker, infra_eventbus.KafkaEventBusConfig{
			GroupID:     cfg.EventBus.Group,
			TopicPrefix: cfg.EventBus.TopicPrefix,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown event bus driver %q", cfg.EventBus.Driver)
	}
}

// newInstitutionCache prefers Redis and falls back to memory when Redis is
// not configured or not reachable.
func newInstitutionCache(cfg *config.Redis, logger *slog.Logger) cache.InstitutionCache {
	if cfg != nil && cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err == nil {
			opt.PoolSize = cfg.PoolSize
			opt.DialTimeout = cfg.DialTimeout
			opt.ReadTimeout = cfg.ReadTimeout
			opt.WriteTimeout = cfg.WriteTimeout
			client := redis.NewClient(opt)

			ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
			err = client.Ping(ctx).Err()
			cancel()
			if err == nil {
				logger.Info("Using Redis institution cache")
				return infra_cache.NewRedisInstitutionCache(client, cfg.KeyPrefix, logger)
			}
			_ = client.Close()
		}
		logger.Warn("Redis unavailable, using in-memory institution cache", "error", err)
	}
	return infra_cache.NewMemoryCache(context.Background(), memoryCacheSweep)
}
