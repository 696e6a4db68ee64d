package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront_backend/internal/adapters/storage"
	"storefront_backend/internal/catalog"
	"storefront_backend/internal/catalog/cache"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/events"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/internal/http/router"
	"storefront_backend/internal/scheduler"
	"storefront_backend/platform/config"
	"storefront_backend/platform/db"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/redisconn"
	"storefront_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, bucket string) {
	if err := withRetry(ctx, log, "ensure product image bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, cfg.MigrationsDir)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	listingCache, closeCache := initListingCache(cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	refresher, closeScheduler := initRefresher(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for product image uploads (MinIO)
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, minioSvc, cfg.GetMinioBucketProductImages())
		storageSvc = minioSvc
		log.Info("storage service initialized", "productImagesBucket", cfg.GetMinioBucketProductImages())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; product image uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(catalog.Deps{
		Repo:      repository.New(pool),
		Cache:     listingCache,
		Storage:   storageSvc,
		Bucket:    cfg.GetMinioBucketProductImages(),
		Bus:       eventBus,
		Refresher: refresher,
		Validator: val,
		Config:    cfg,
		Logger:    log,
	})
	catalogModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	// Let in-flight event handlers finish before the pool and Redis close.
	eventBus.Wait()
	log.Info("server stopped")
}

func initListingCache(cfg config.CacheConfig, log *logger.Logger) (cache.ListingCache, func()) {
	if !cfg.IsCatalogCacheEnabled() {
		log.Warn("catalog cache disabled; listings are read from the database on every request")
		return nil, nil
	}

	client, err := redisconn.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize catalog cache", "error", err)
		return nil, nil
	}

	return cache.NewRedisCache(client, cfg.GetCatalogCacheTTL()), func() {
		_ = client.Close()
	}
}

func initRefresher(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ListingRefresher, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; listing refresh jobs disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
