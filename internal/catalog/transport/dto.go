package transport

import (
	"time"

	"github.com/google/uuid"
)

// Storefront

type ListProductsRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=active"`
	InStock   bool   `form:"inStock"`
	Search    string `form:"search" validate:"max=100"`
	Brand     string `form:"brand" validate:"max=100"`
	Tag       string `form:"tag" validate:"max=40"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt title priceCents inventory updatedAt availability"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ImageView is an image as rendered on the storefront.
type ImageView struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
	Alt string    `json:"alt"`
}

// StockView is the availability block of a product.
type StockView struct {
	Level     string `json:"level"`
	Remaining int    `json:"remaining"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// ProductCard is a product as shown in a listing grid.
type ProductCard struct {
	ID              uuid.UUID  `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Brand           *string    `json:"brand,omitempty"`
	Currency        string     `json:"currency"`
	PriceCents      int64      `json:"priceCents"`
	Price           string     `json:"price"`
	CompareAtPrice  *string    `json:"compareAtPrice,omitempty"`
	OnSale          bool       `json:"onSale"`
	DiscountPercent int        `json:"discountPercent"`
	SaleBadge       *string    `json:"saleBadge,omitempty"`
	Stock           StockView  `json:"stock"`
	OutOfStock      bool       `json:"outOfStock"`
	Tags            []string   `json:"tags"`
	TagOverflow     int        `json:"tagOverflow"`
	PrimaryImage    *ImageView `json:"primaryImage,omitempty"`
	Placeholder     bool       `json:"placeholder"`
}

// ProductDetail is the product page payload.
type ProductDetail struct {
	ProductCard
	Description *string     `json:"description,omitempty"`
	AllTags     []string    `json:"allTags"`
	Images      []ImageView `json:"images"`
}

type ProductListResponse struct {
	Items      []ProductCard `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// HomeResponse is the storefront home grid. Degraded is set when the catalog
// could not be read and Items was replaced by an empty list.
type HomeResponse struct {
	Items    []ProductCard `json:"items"`
	Degraded bool          `json:"degraded"`
}

// Admin

type CreateProductRequest struct {
	Title          string   `json:"title" validate:"required,nonblank,max=200"`
	Slug           *string  `json:"slug,omitempty" validate:"omitempty,slug,max=120"`
	Brand          *string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	Description    *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PriceCents     *int64   `json:"priceCents" validate:"required,min=0"`
	CompareAtCents *int64   `json:"compareAtCents,omitempty" validate:"omitempty,min=0"`
	Inventory      int      `json:"inventory" validate:"min=0"`
	Tags           []string `json:"tags,omitempty" validate:"max=20,dive,max=40"`
	Currency       string   `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Status         string   `json:"status,omitempty" validate:"omitempty,oneof=active draft archived"`
}

type UpdateProductRequest struct {
	Title          *string  `json:"title,omitempty" validate:"omitempty,nonblank,max=200"`
	Slug           *string  `json:"slug,omitempty" validate:"omitempty,slug,max=120"`
	Brand          *string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	Description    *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PriceCents     *int64   `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	CompareAtCents *int64   `json:"compareAtCents,omitempty" validate:"omitempty,min=0"`
	ClearCompareAt bool     `json:"clearCompareAt,omitempty"`
	Tags           []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=40"`
	Currency       *string  `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Status         *string  `json:"status,omitempty" validate:"omitempty,oneof=active draft archived"`
}

type AdjustInventoryRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"max=200"`
}

type PresignImageRequest struct {
	FileName    string `json:"fileName" validate:"required,max=200"`
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp image/gif"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

type PresignImageResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AddImageRequest attaches an uploaded object (FileKey) or an external URL.
// Exactly one of the two is expected.
type AddImageRequest struct {
	FileKey *string `json:"fileKey,omitempty" validate:"omitempty,max=500"`
	URL     *string `json:"url,omitempty" validate:"omitempty,url,max=2000"`
	Alt     *string `json:"alt,omitempty" validate:"omitempty,max=200"`
}

type AdminImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Alt       *string   `json:"alt,omitempty"`
	FileKey   *string   `json:"fileKey,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminProductResponse struct {
	ID             uuid.UUID            `json:"id"`
	Title          string               `json:"title"`
	Slug           string               `json:"slug"`
	Brand          *string              `json:"brand,omitempty"`
	Description    *string              `json:"description,omitempty"`
	PriceCents     int64                `json:"priceCents"`
	CompareAtCents *int64               `json:"compareAtCents,omitempty"`
	Inventory      int                  `json:"inventory"`
	Tags           []string             `json:"tags"`
	Currency       string               `json:"currency"`
	Status         string               `json:"status"`
	Images         []AdminImageResponse `json:"images"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}
