package scheduler

import (
	"context"
	"fmt"

	"storefront_backend/internal/catalog/transport"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

// warmConcurrency bounds parallel listing reads during a refresh.
const warmConcurrency = 4

// ListingWarmer is the catalog surface a refresh drives.
type ListingWarmer interface {
	InvalidateCache(ctx context.Context) error
	WarmupRequests() []transport.ListProductsRequest
	ListProducts(ctx context.Context, req transport.ListProductsRequest) (transport.ProductListResponse, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	warmer ListingWarmer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, warmer ListingWarmer, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 4
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		warmer: warmer,
		log:    log,
	}

	mux.HandleFunc(TaskListingRefresh, w.handleListingRefresh)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleListingRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseListingRefreshPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	warmed, err := RefreshListings(ctx, w.warmer)
	if err != nil {
		return err
	}

	w.log.Info("catalog listings refreshed", "reason", payload.Reason, "pages", warmed)
	return nil
}

// RefreshListings drops every cached page and rebuilds the default listing
// variants. It returns how many pages were rebuilt.
func RefreshListings(ctx context.Context, warmer ListingWarmer) (int, error) {
	if err := warmer.InvalidateCache(ctx); err != nil {
		return 0, fmt.Errorf("invalidate catalog cache: %w", err)
	}

	requests := warmer.WarmupRequests()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, req := range requests {
		g.Go(func() error {
			if _, err := warmer.ListProducts(gctx, req); err != nil {
				return fmt.Errorf("warm listing page %d: %w", req.Page, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(requests), nil
}
