// Package bootstrap builds the client's shared infrastructure from config:
// the Redis connection, the session store, the backend API client and the
// optional metrics endpoint.
package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/mhrs-booking/internal/config"
	"github.com/wolfman30/mhrs-booking/internal/session"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

// Session store kinds accepted in MHRS_SESSION_STORE.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore picks the session store named by cfg.SessionStore. The
// returned close func releases any connection the store holds.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (session.Store, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() error { return nil }

	switch kind := strings.ToLower(strings.TrimSpace(cfg.SessionStore)); kind {
	case "", StoreFile:
		if strings.TrimSpace(cfg.SessionFile) == "" {
			return nil, nil, fmt.Errorf("bootstrap: session file path is empty")
		}
		return session.NewFileStore(cfg.SessionFile), noop, nil
	case StoreMemory:
		return session.NewMemoryStore(), noop, nil
	case StoreRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, nil, fmt.Errorf("bootstrap: redis session store unavailable at %q", cfg.RedisAddr)
		}
		logger.Debug("using redis session store", "addr", cfg.RedisAddr, "profile", cfg.SessionProfile)
		return session.NewRedisStore(client, cfg.SessionProfile), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown session store %q", kind)
	}
}
