package config

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client used by the response cache. The cache
// is best-effort, so connectivity is not verified here.
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
