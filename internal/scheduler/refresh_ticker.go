package scheduler

import (
	"context"
	"time"

	"storefront_backend/platform/logger"
)

const defaultListingRefreshInterval = 10 * time.Minute

// ListingRefreshTicker enqueues a listing refresh on a fixed interval so the
// cached home and first listing pages are rebuilt before their TTL lapses.
type ListingRefreshTicker struct {
	refresher ListingRefresher
	log       *logger.Logger
	interval  time.Duration
}

func NewListingRefreshTicker(refresher ListingRefresher, log *logger.Logger, interval time.Duration) *ListingRefreshTicker {
	if interval <= 0 {
		interval = defaultListingRefreshInterval
	}

	return &ListingRefreshTicker{
		refresher: refresher,
		log:       log,
		interval:  interval,
	}
}

func (t *ListingRefreshTicker) Run(ctx context.Context) {
	if t == nil || t.refresher == nil {
		return
	}

	t.enqueue(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.enqueue(ctx)
		}
	}
}

func (t *ListingRefreshTicker) enqueue(ctx context.Context) {
	if err := t.refresher.EnqueueListingRefresh(ctx, ListingRefreshPayload{Reason: RefreshReasonScheduled}); err != nil {
		t.log.Warn("scheduled listing refresh enqueue failed", "error", err)
	}
}
