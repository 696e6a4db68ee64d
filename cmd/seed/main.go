package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/seed"
	"storefront_backend/internal/catalog/service"
	"storefront_backend/internal/events"
	"storefront_backend/platform/config"
	"storefront_backend/platform/db"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

func main() {
	fixturePath := flag.String("file", "fixtures/catalog.yaml", "path to the catalog fixture")
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fixture, err := seed.LoadFile(*fixturePath)
	if err != nil {
		log.Error("invalid fixture", "file", *fixturePath, "error", err)
		os.Exit(1)
	}

	if *migrate {
		if err := db.RunMigrations(ctx, cfg, cfg.MigrationsDir); err != nil {
			log.Error("failed to run database migrations", "error", err)
			os.Exit(1)
		}
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Caches are not touched: the API drops them on its next product change
	// and the scheduler rebuilds them on its interval.
	catalogSvc := service.New(repository.New(pool), nil, nil, "", events.NewInMemoryBus(log), cfg, log)

	result, err := seed.New(catalogSvc, validator.New(), log).Run(ctx, fixture)
	if err != nil {
		log.Error("seed failed", "error", err, "created", result.Created, "skipped", result.Skipped)
		pool.Close()
		os.Exit(1)
	}

	log.Info("seed complete", "created", result.Created, "skipped", result.Skipped, "images", result.Images)
}
