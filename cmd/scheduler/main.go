package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront_backend/internal/catalog/cache"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/service"
	"storefront_backend/internal/events"
	"storefront_backend/internal/scheduler"
	"storefront_backend/platform/config"
	"storefront_backend/platform/db"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/redisconn"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL is required for the scheduler")
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	redisClient, err := redisconn.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	var listingCache cache.ListingCache = cache.NopCache{}
	if cfg.IsCatalogCacheEnabled() {
		listingCache = cache.NewRedisCache(redisClient, cfg.GetCatalogCacheTTL())
	} else {
		log.Warn("catalog cache disabled; refresh jobs only re-read the database")
	}

	// Worker-side catalog wiring (no HTTP handlers or storage required).
	catalogSvc := service.New(repository.New(pool), listingCache, nil, "", events.NewInMemoryBus(log), cfg, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	ticker := scheduler.NewListingRefreshTicker(client, log, cfg.GetCatalogRefreshInterval())
	go ticker.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, catalogSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
