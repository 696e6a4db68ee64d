// Package redisconn turns the shared REDIS_URL setting into client options
// for go-redis and asynq.
package redisconn

import (
	"crypto/tls"
	"fmt"

	"storefront_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// Options parses the configured URL. TLS verification is skipped when
// REDIS_TLS_INSECURE is set, for managed Redis with self-signed certificates.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if cfg.GetRedisTLSInsecure() {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if cfg.GetRedisTLSInsecure() {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}

	return opt, nil
}

// NewClient opens a go-redis client for cfg.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
