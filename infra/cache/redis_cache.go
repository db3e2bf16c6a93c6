package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/budgettracker/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const institutionKeyPrefix = "institution:"

// RedisInstitutionCache implements cache.InstitutionCache using Redis.
type RedisInstitutionCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisInstitutionCache creates a cache on an existing client. Keys are
// namespaced with prefix.
func NewRedisInstitutionCache(
	client *redis.Client,
	prefix string,
	logger *slog.Logger,
) *RedisInstitutionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisInstitutionCache{client: client, prefix: prefix, logger: logger}
}

// NewRedisInstitutionCacheWithOptions creates a cache from redis.Options.
func NewRedisInstitutionCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisInstitutionCache {
	return NewRedisInstitutionCache(redis.NewClient(opt), prefix, logger)
}

func (r *RedisInstitutionCache) key(id string) string {
	return r.prefix + institutionKeyPrefix + id
}

// Get implements cache.InstitutionCache.
func (r *RedisInstitutionCache) Get(ctx context.Context, id string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "institution_id", id)
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "institution_id", id, "error", err)
		return "", false, err
	}
	r.logger.Debug("Redis cache hit", "institution_id", id)
	return val, true, nil
}

// Set implements cache.InstitutionCache.
func (r *RedisInstitutionCache) Set(
	ctx context.Context,
	id, name string,
	ttl time.Duration,
) error {
	if err := r.client.Set(ctx, r.key(id), name, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "institution_id", id, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "institution_id", id, "ttl", ttl)
	return nil
}

var _ cache.InstitutionCache = (*RedisInstitutionCache)(nil)
