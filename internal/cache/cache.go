package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/config"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores serialized provider responses under keys shaped like
// "api:{source}:{endpoint}:{params}". DeletePattern takes glob patterns
// ("api:tmdb:search:*") so writes can invalidate related lookups.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
	Close() error
}

// New picks the backend from config. A configured but unreachable Redis
// degrades to the in-memory backend instead of failing startup.
func New(cfg *config.Config) Cache {
	if cfg.CacheBackend == "redis" {
		rc, err := NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Warn("redis unavailable, falling back to in-memory cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			slog.Info("cache backend ready", "backend", "redis", "addr", cfg.RedisAddr)
			return rc
		}
	}
	slog.Info("cache backend ready", "backend", "memory")
	return NewMemory()
}
