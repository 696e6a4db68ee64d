package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront_backend/internal/adapters/storage"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/events"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"
)

type storefrontConfig struct{}

func (storefrontConfig) GetDefaultCurrency() string { return "USD" }
func (storefrontConfig) GetDefaultLocale() string   { return "en-US" }
func (storefrontConfig) GetHomeListingSize() int    { return 8 }

type fakeRepo struct {
	mu         sync.Mutex
	products   map[uuid.UUID]repository.Product
	listErr    error
	listCalls  int
	lastParams repository.ListProductsParams
}

func newFakeRepo(products ...repository.Product) *fakeRepo {
	r := &fakeRepo{products: make(map[uuid.UUID]repository.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeRepo) ListProducts(_ context.Context, params repository.ListProductsParams) ([]repository.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	r.lastParams = params
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	items := make([]repository.Product, 0, len(r.products))
	for _, p := range r.products {
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		items = append(items, p)
	}
	return items, len(items), nil
}

func (r *fakeRepo) GetProductBySlug(_ context.Context, slug string) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return repository.Product{}, apperr.NotFound("product not found")
}

func (r *fakeRepo) GetProductByID(_ context.Context, id uuid.UUID) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

func (r *fakeRepo) CreateProduct(_ context.Context, params repository.CreateProductParams) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == params.Slug {
			return repository.Product{}, apperr.Conflict("slug already in use")
		}
	}
	now := time.Now()
	p := repository.Product{
		ID:             uuid.New(),
		Title:          params.Title,
		Slug:           params.Slug,
		Brand:          params.Brand,
		Description:    params.Description,
		PriceCents:     params.PriceCents,
		CompareAtCents: params.CompareAtCents,
		Inventory:      params.Inventory,
		Tags:           params.Tags,
		Currency:       params.Currency,
		Status:         params.Status,
		Images:         []repository.Image{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeRepo) UpdateProduct(_ context.Context, params repository.UpdateProductParams) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[params.ID]
	if !ok {
		return repository.Product{}, apperr.NotFound("product not found")
	}
	if params.Title != nil {
		p.Title = *params.Title
	}
	if params.PriceCents != nil {
		p.PriceCents = *params.PriceCents
	}
	if params.ClearCompareAt {
		p.CompareAtCents = nil
	} else if params.CompareAtCents != nil {
		p.CompareAtCents = params.CompareAtCents
	}
	if params.Tags != nil {
		p.Tags = params.Tags
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(r.products, id)
	return nil
}

func (r *fakeRepo) AdjustInventory(_ context.Context, id uuid.UUID, delta int) (repository.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.Product{}, apperr.NotFound("product not found")
	}
	if p.Inventory+delta < 0 {
		return repository.Product{}, apperr.Conflict("insufficient inventory")
	}
	p.Inventory += delta
	r.products[id] = p
	return p, nil
}

func (r *fakeRepo) AddProductImage(_ context.Context, params repository.AddImageParams) (repository.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[params.ProductID]
	if !ok {
		return repository.Image{}, apperr.NotFound("product not found")
	}
	img := repository.Image{
		ID:        uuid.New(),
		ProductID: p.ID,
		URL:       params.URL,
		Alt:       params.Alt,
		FileKey:   params.FileKey,
		Position:  len(p.Images),
		CreatedAt: time.Now(),
	}
	p.Images = append(p.Images, img)
	r.products[p.ID] = p
	return img, nil
}

func (r *fakeRepo) DeleteProductImage(_ context.Context, productID uuid.UUID, imageID uuid.UUID) (repository.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return repository.Image{}, apperr.NotFound("product image not found")
	}
	for i, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			r.products[productID] = p
			return img, nil
		}
	}
	return repository.Image{}, apperr.NotFound("product image not found")
}

// mapCache stores JSON like the Redis cache does.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	return nil
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) changes() []events.ProductChanged {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.ProductChanged, 0, len(b.published))
	for _, e := range b.published {
		if pc, ok := e.(events.ProductChanged); ok {
			out = append(out, pc)
		}
	}
	return out
}

type fakeStorage struct {
	deleted []string
	failGen bool
}

func (s *fakeStorage) GenerateUploadURL(_ context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*storage.PresignedURL, error) {
	if s.failGen {
		return nil, errors.New("minio: connection refused")
	}
	return &storage.PresignedURL{
		URL:       "https://minio.local/" + bucket + "/" + folder + "/" + fileName + "?sig",
		FileKey:   folder + "/" + fileName,
		ExpiresAt: time.Now().Add(storage.PresignedURLTTL),
	}, nil
}

func (s *fakeStorage) PublicURL(bucket, fileKey string) string {
	return "https://cdn.example.com/" + bucket + "/" + fileKey
}

func (s *fakeStorage) DeleteObject(_ context.Context, _ string, fileKey string) error {
	s.deleted = append(s.deleted, fileKey)
	return nil
}

func (s *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func newTestService(repo *fakeRepo, c *mapCache, store *fakeStorage, bus *recordingBus) *Service {
	var storageSvc storage.StorageService
	if store != nil {
		storageSvc = store
	}
	var listingCache = newMapCache()
	if c != nil {
		listingCache = c
	}
	return New(repo, listingCache, storageSvc, "product-images", bus, storefrontConfig{}, logger.Discard())
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func activeProduct(slug string, priceCents int64, compareAt *int64, inventory int) repository.Product {
	return repository.Product{
		ID:             uuid.New(),
		Title:          "Walnut Desk",
		Slug:           slug,
		PriceCents:     priceCents,
		CompareAtCents: compareAt,
		Inventory:      inventory,
		Tags:           []string{},
		Currency:       "USD",
		Status:         repository.StatusActive,
		Images:         []repository.Image{},
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}
