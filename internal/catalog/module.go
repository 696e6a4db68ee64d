// Package catalog provides the catalog bounded context module.
package catalog

import (
	"context"

	"storefront_backend/internal/adapters/storage"
	"storefront_backend/internal/catalog/cache"
	"storefront_backend/internal/catalog/handler"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/service"
	"storefront_backend/internal/events"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/internal/scheduler"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	service   *service.Service
	repo      repository.Repository
	refresher scheduler.ListingRefresher
	log       *logger.Logger
}

// Deps groups what the composition root hands to the catalog module.
// Cache, Storage and Refresher are optional.
type Deps struct {
	Repo      repository.Repository
	Cache     cache.ListingCache
	Storage   storage.StorageService
	Bucket    string
	Bus       events.Bus
	Refresher scheduler.ListingRefresher
	Validator *validator.Validator
	Config    config.StorefrontConfig
	Logger    *logger.Logger
}

// NewModule creates and initializes the catalog module.
func NewModule(deps Deps) *Module {
	svc := service.New(deps.Repo, deps.Cache, deps.Storage, deps.Bucket, deps.Bus, deps.Config, deps.Logger)
	h := handler.New(svc, deps.Validator, deps.Logger)

	return &Module{
		handler:   h,
		service:   svc,
		repo:      deps.Repo,
		refresher: deps.Refresher,
		log:       deps.Logger,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Storefront read surfaces
	ctx.V1.GET("/products", m.handler.ListProducts)
	ctx.V1.GET("/products/:slug", m.handler.GetProduct)
	ctx.V1.GET("/storefront/home", m.handler.Home)

	// Admin catalog management
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/products", m.handler.CreateProduct)
	adminGroup.PUT("/products/:id", m.handler.UpdateProduct)
	adminGroup.DELETE("/products/:id", m.handler.DeleteProduct)
	adminGroup.POST("/products/:id/inventory", m.handler.AdjustInventory)
	adminGroup.POST("/products/:id/images/presign", m.handler.PresignImage)
	adminGroup.POST("/products/:id/images", m.handler.AddImage)
	adminGroup.DELETE("/products/:id/images/:imageId", m.handler.DeleteImage)
}

// RegisterHandlers subscribes the module to product changes so cached
// storefront pages are dropped and rebuilt after every admin mutation.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ProductChanged{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ProductChanged:
		return m.handleProductChanged(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleProductChanged(ctx context.Context, e events.ProductChanged) error {
	if err := m.service.InvalidateCache(ctx); err != nil {
		return err
	}
	if m.refresher == nil {
		return nil
	}
	if err := m.refresher.EnqueueListingRefresh(ctx, scheduler.ListingRefreshPayload{Reason: scheduler.RefreshReasonProductChanged}); err != nil {
		m.log.Warn("listing refresh enqueue failed", "productId", e.ProductID, "action", e.Action, "error", err)
	}
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
