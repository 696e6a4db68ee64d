package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product lifecycle states. Only active products appear on the storefront.
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Product is a stored catalog product with its images in display order.
type Product struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Brand          *string   `json:"brand,omitempty"`
	Description    *string   `json:"description,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	CompareAtCents *int64    `json:"compareAtCents,omitempty"`
	Inventory      int       `json:"inventory"`
	Tags           []string  `json:"tags"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	Images         []Image   `json:"images"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Image is a product image. Position 0 is the primary image.
type Image struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	URL       string    `json:"url"`
	Alt       *string   `json:"alt,omitempty"`
	FileKey   *string   `json:"fileKey,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateProductParams contains data for creating a product.
type CreateProductParams struct {
	Title          string
	Slug           string
	Brand          *string
	Description    *string
	PriceCents     int64
	CompareAtCents *int64
	Inventory      int
	Tags           []string
	Currency       string
	Status         string
}

// UpdateProductParams contains data for a partial product update. Nil fields
// are left unchanged. ClearCompareAt removes the compare-at price, ending a sale.
type UpdateProductParams struct {
	ID             uuid.UUID
	Title          *string
	Slug           *string
	Brand          *string
	Description    *string
	PriceCents     *int64
	CompareAtCents *int64
	ClearCompareAt bool
	Tags           []string
	Currency       *string
	Status         *string
}

// ListProductsParams defines filters for listing products.
type ListProductsParams struct {
	Status      string
	InStockOnly bool
	Search      string
	Brand       string
	Tag         string
	Offset      int
	Limit       int
	SortBy      string
	SortOrder   string
}

// AddImageParams contains data for attaching an image to a product.
type AddImageParams struct {
	ProductID uuid.UUID
	URL       string
	Alt       *string
	FileKey   *string
}

// Repository defines catalog storage operations.
type Repository interface {
	ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (Product, error)

	CreateProduct(ctx context.Context, params CreateProductParams) (Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustInventory(ctx context.Context, id uuid.UUID, delta int) (Product, error)

	AddProductImage(ctx context.Context, params AddImageParams) (Image, error)
	DeleteProductImage(ctx context.Context, productID uuid.UUID, imageID uuid.UUID) (Image, error)
}
