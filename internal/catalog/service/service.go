package service

import (
	"context"
	"strings"

	"storefront_backend/internal/adapters/storage"
	"storefront_backend/internal/catalog/cache"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/transport"
	"storefront_backend/internal/events"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
)

const (
	// DefaultPageSize is used when a listing request omits pageSize.
	DefaultPageSize = 12
	// MaxPageSize bounds every listing page.
	MaxPageSize = 24
)

// Service provides the storefront read surfaces and admin catalog operations.
type Service struct {
	repo     repository.Repository
	cache    cache.ListingCache
	storage  storage.StorageService
	bucket   string
	bus      events.Bus
	log      *logger.Logger
	currency string
	locale   string
	homeSize int
}

// New creates a new catalog service. listingCache may be nil to disable
// caching and storageSvc may be nil when image uploads are not configured.
func New(
	repo repository.Repository,
	listingCache cache.ListingCache,
	storageSvc storage.StorageService,
	bucket string,
	bus events.Bus,
	cfg config.StorefrontConfig,
	log *logger.Logger,
) *Service {
	if listingCache == nil {
		listingCache = cache.NopCache{}
	}
	return &Service{
		repo:     repo,
		cache:    listingCache,
		storage:  storageSvc,
		bucket:   bucket,
		bus:      bus,
		log:      log,
		currency: cfg.GetDefaultCurrency(),
		locale:   cfg.GetDefaultLocale(),
		homeSize: cfg.GetHomeListingSize(),
	}
}

// ListingResult carries a listing page or the reason it could not be built.
// Callers that must render something can tell an empty catalog apart from a
// failed read.
type ListingResult struct {
	Response transport.ProductListResponse
	Err      error
}

// Listing is ListProducts as a single value.
func (s *Service) Listing(ctx context.Context, req transport.ListProductsRequest) ListingResult {
	resp, err := s.ListProducts(ctx, req)
	return ListingResult{Response: resp, Err: err}
}

// HomeRequest is the listing shown on the storefront home page: active
// products with in-stock items first.
func (s *Service) HomeRequest() transport.ListProductsRequest {
	return transport.ListProductsRequest{
		Page:     1,
		PageSize: s.homeSize,
		SortBy:   "availability",
	}
}

// WarmupRequests lists the listing variants kept hot in the cache.
func (s *Service) WarmupRequests() []transport.ListProductsRequest {
	reqs := []transport.ListProductsRequest{s.HomeRequest()}
	for page := 1; page <= 3; page++ {
		reqs = append(reqs, transport.ListProductsRequest{Page: page})
	}
	return reqs
}

// ListProducts returns one page of product cards. Products whose stored data
// breaks catalog rules are left out of the page and logged.
func (s *Service) ListProducts(ctx context.Context, req transport.ListProductsRequest) (transport.ProductListResponse, error) {
	req = normalizeListRequest(req)
	key := cache.ListingKey(req)

	var cached transport.ProductListResponse
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.CacheError("get listing", err)
	} else if found {
		return cached, nil
	}

	items, total, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		Status:      req.Status,
		InStockOnly: req.InStock,
		Search:      strings.TrimSpace(req.Search),
		Brand:       strings.TrimSpace(req.Brand),
		Tag:         strings.TrimSpace(req.Tag),
		Offset:      (req.Page - 1) * req.PageSize,
		Limit:       req.PageSize,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		s.log.DatabaseError("list products", err)
		return transport.ProductListResponse{}, apperr.Wrap(apperr.KindUnavailable, "catalog unavailable", err).WithOp("list products")
	}

	cards := make([]transport.ProductCard, 0, len(items))
	for _, item := range items {
		card, err := s.toCard(item)
		if err != nil {
			s.log.DataIntegrity("product", item.ID.String(), err)
			total--
			continue
		}
		cards = append(cards, card)
	}

	resp := toListResponse(cards, max(total, len(cards)), req.Page, req.PageSize)
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.log.CacheError("set listing", err)
	}
	return resp, nil
}

// GetProductBySlug returns the product page for an active product.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (transport.ProductDetail, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	key := cache.ProductKey(slug)

	var cached transport.ProductDetail
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.CacheError("get product", err)
	} else if found {
		return cached, nil
	}

	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return transport.ProductDetail{}, err
	}
	if product.Status != repository.StatusActive {
		return transport.ProductDetail{}, apperr.NotFound("product not found")
	}

	detail, err := s.toDetail(product)
	if err != nil {
		s.log.DataIntegrity("product", product.ID.String(), err)
		return transport.ProductDetail{}, apperr.Wrap(apperr.KindInternal, "product data is invalid", err).WithOp("get product")
	}

	if err := s.cache.Set(ctx, key, detail); err != nil {
		s.log.CacheError("set product", err)
	}
	return detail, nil
}

// InvalidateCache drops every cached storefront payload.
func (s *Service) InvalidateCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

func normalizeListRequest(req transport.ListProductsRequest) transport.ListProductsRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
	// The storefront only ever lists published products.
	req.Status = repository.StatusActive
	req.Search = strings.TrimSpace(req.Search)
	req.Brand = strings.TrimSpace(req.Brand)
	req.Tag = strings.TrimSpace(req.Tag)
	return req
}

func toListResponse(items []transport.ProductCard, total int, page int, pageSize int) transport.ProductListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return transport.ProductListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
