// Package redis connects to the Redis instance used as the session store.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"foodie/internal/platform/config"
)

// Config holds Redis connection settings.
type Config struct {
	URL      string // takes precedence over Host/Port when set
	Host     string
	Port     string
	Password string
}

// LoadConfig reads Redis settings from environment variables.
func LoadConfig() Config {
	return Config{
		URL:      os.Getenv("REDIS_URL"),
		Host:     os.Getenv("REDIS_HOST"),
		Port:     config.String("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

// Enabled reports whether any Redis address is configured.
func (c Config) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// Options converts c into client options.
func (c Config) Options() (*redis.Options, error) {
	if c.URL != "" {
		opt, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		return opt, nil
	}
	return &redis.Options{
		Addr:     c.Host + ":" + c.Port,
		Password: c.Password,
		DB:       0,
	}, nil
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opt, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opt.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opt.Addr)
	return rdb, nil
}
