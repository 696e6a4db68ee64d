// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Consumer-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for the admin middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// RedisConfig provides the Redis connection used by the cache and scheduler.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// CacheConfig provides settings for the catalog read cache.
type CacheConfig interface {
	RedisConfig
	GetCatalogCacheTTL() time.Duration
	IsCatalogCacheEnabled() bool
}

// SchedulerConfig provides settings for asynq background jobs.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetCatalogRefreshInterval() time.Duration
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOPublicBaseURL() string
	GetMinioBucketProductImages() string
	IsMinIOEnabled() bool
}

// StorefrontConfig provides presentation defaults for the catalog.
type StorefrontConfig interface {
	GetDefaultCurrency() string
	GetDefaultLocale() string
	GetHomeListingSize() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	MigrationsDir            string
	JWTAccessSecret          string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	RateLimitRPS             float64
	RateLimitBurst           int
	RedisURL                 string
	RedisTLSInsecure         bool
	CatalogCacheTTL          time.Duration
	AsynqQueueName           string
	AsynqConcurrency         int
	CatalogRefreshInterval   time.Duration
	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinIOMaxFileSize         int64
	MinIOPublicBaseURL       string
	MinioBucketProductImages string
	DefaultCurrency          string
	DefaultLocale            string
	HomeListingSize          int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// CacheConfig implementation
func (c *Config) GetCatalogCacheTTL() time.Duration { return c.CatalogCacheTTL }
func (c *Config) IsCatalogCacheEnabled() bool {
	return c.RedisURL != "" && c.CatalogCacheTTL > 0
}

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) GetCatalogRefreshInterval() time.Duration {
	return c.CatalogRefreshInterval
}

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64    { return c.MinIOMaxFileSize }
func (c *Config) GetMinIOPublicBaseURL() string { return c.MinIOPublicBaseURL }
func (c *Config) GetMinioBucketProductImages() string {
	return c.MinioBucketProductImages
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// StorefrontConfig implementation
func (c *Config) GetDefaultCurrency() string { return c.DefaultCurrency }
func (c *Config) GetDefaultLocale() string   { return c.DefaultLocale }
func (c *Config) GetHomeListingSize() int    { return c.HomeListingSize }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		MigrationsDir:            getEnv("MIGRATIONS_DIR", "migrations"),
		JWTAccessSecret:          getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:             mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:           mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisTLSInsecure:         strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		CatalogCacheTTL:          mustDuration(getEnv("CATALOG_CACHE_TTL", "60s")),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "storefront"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "4")),
		CatalogRefreshInterval:   mustDuration(getEnv("CATALOG_REFRESH_INTERVAL", "10m")),
		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:         mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinIOPublicBaseURL:       strings.TrimRight(getEnv("MINIO_PUBLIC_BASE_URL", ""), "/"),
		MinioBucketProductImages: getEnv("MINIO_BUCKET_PRODUCT_IMAGES", "product-images"),
		DefaultCurrency:          strings.ToUpper(getEnv("STOREFRONT_DEFAULT_CURRENCY", "USD")),
		DefaultLocale:            getEnv("STOREFRONT_DEFAULT_LOCALE", "en-US"),
		HomeListingSize:          mustInt(getEnv("STOREFRONT_HOME_LISTING_SIZE", "8")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.HomeListingSize < 1 || cfg.HomeListingSize > 24 {
		return nil, fmt.Errorf("STOREFRONT_HOME_LISTING_SIZE must be between 1 and 24")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
