package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/events"
	"storefront_backend/internal/scheduler"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/google/uuid"
)

type stubRepo struct {
	repository.Repository
}

type countingCache struct {
	invalidations int
	err           error
}

func (c *countingCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (c *countingCache) Set(context.Context, string, interface{}) error         { return nil }
func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return c.err
}

type storefrontConfig struct{}

func (storefrontConfig) GetDefaultCurrency() string { return "USD" }
func (storefrontConfig) GetDefaultLocale() string   { return "en-US" }
func (storefrontConfig) GetHomeListingSize() int    { return 8 }

type recordingRefresher struct {
	payloads []scheduler.ListingRefreshPayload
	err      error
}

func (r *recordingRefresher) EnqueueListingRefresh(_ context.Context, payload scheduler.ListingRefreshPayload) error {
	r.payloads = append(r.payloads, payload)
	return r.err
}

func newTestModule(c *countingCache, refresher scheduler.ListingRefresher) *Module {
	return NewModule(Deps{
		Repo:      stubRepo{},
		Cache:     c,
		Bus:       events.NewInMemoryBus(logger.Discard()),
		Refresher: refresher,
		Validator: validator.New(),
		Config:    storefrontConfig{},
		Logger:    logger.Discard(),
	})
}

func productChanged() events.ProductChanged {
	return events.ProductChanged{
		BaseEvent: events.NewBaseEvent(),
		ProductID: uuid.New(),
		Slug:      "walnut-desk",
		Action:    events.ProductUpdated,
	}
}

func TestProductChangedInvalidatesAndEnqueuesRefresh(t *testing.T) {
	c := &countingCache{}
	refresher := &recordingRefresher{}
	m := newTestModule(c, refresher)

	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), productChanged()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.invalidations != 1 {
		t.Fatalf("expected one invalidation, got %d", c.invalidations)
	}
	if len(refresher.payloads) != 1 || refresher.payloads[0].Reason != scheduler.RefreshReasonProductChanged {
		t.Fatalf("unexpected refresh payloads %+v", refresher.payloads)
	}
}

func TestProductChangedWithoutRefresher(t *testing.T) {
	c := &countingCache{}
	m := newTestModule(c, nil)

	if err := m.Handle(context.Background(), productChanged()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.invalidations != 1 {
		t.Fatalf("expected one invalidation, got %d", c.invalidations)
	}
}

func TestProductChangedEnqueueFailureIsNotFatal(t *testing.T) {
	m := newTestModule(&countingCache{}, &recordingRefresher{err: errors.New("redis down")})

	if err := m.Handle(context.Background(), productChanged()); err != nil {
		t.Fatalf("expected enqueue failure to be logged only, got %v", err)
	}
}

func TestProductChangedReportsInvalidateFailure(t *testing.T) {
	refresher := &recordingRefresher{}
	m := newTestModule(&countingCache{err: errors.New("redis down")}, refresher)

	if err := m.Handle(context.Background(), productChanged()); err == nil {
		t.Fatal("expected invalidate error")
	}
	if len(refresher.payloads) != 0 {
		t.Fatalf("expected no refresh after failed invalidation, got %+v", refresher.payloads)
	}
}
