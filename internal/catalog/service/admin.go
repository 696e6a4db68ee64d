package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"storefront_backend/internal/catalog/pricing"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/transport"
	"storefront_backend/internal/events"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/sanitize"
)

const msgStorageNotConfigured = "image storage is not configured"

// CreateProduct creates a product. The slug is derived from the title when
// the request omits one.
func (s *Service) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (transport.AdminProductResponse, error) {
	title := sanitize.Text(req.Title)
	slug := Slugify(title)
	if req.Slug != nil {
		slug = strings.TrimSpace(*req.Slug)
	}
	if slug == "" {
		return transport.AdminProductResponse{}, apperr.Validation("slug could not be derived from title")
	}

	var priceCents int64
	if req.PriceCents != nil {
		priceCents = *req.PriceCents
	}
	if err := validateAmounts(priceCents, req.Inventory); err != nil {
		return transport.AdminProductResponse{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.currency
	}
	status := req.Status
	if status == "" {
		status = repository.StatusActive
	}

	product, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		Title:          title,
		Slug:           slug,
		Brand:          sanitize.TextPtr(req.Brand),
		Description:    sanitize.TextPtr(req.Description),
		PriceCents:     priceCents,
		CompareAtCents: req.CompareAtCents,
		Inventory:      req.Inventory,
		Tags:           sanitize.Tags(req.Tags),
		Currency:       currency,
		Status:         status,
	})
	if err != nil {
		return transport.AdminProductResponse{}, err
	}

	s.log.Info("product created", "id", product.ID, "slug", product.Slug)
	s.publish(ctx, product.ID, product.Slug, events.ProductCreated)
	return toAdminProductResponse(product), nil
}

// UpdateProduct applies a partial update.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (transport.AdminProductResponse, error) {
	if req.PriceCents != nil {
		if err := validateAmounts(*req.PriceCents, 0); err != nil {
			return transport.AdminProductResponse{}, err
		}
	}

	var title *string
	if req.Title != nil {
		clean := sanitize.Text(*req.Title)
		if clean == "" {
			return transport.AdminProductResponse{}, apperr.Validation("title must not be blank")
		}
		title = &clean
	}

	var tags []string
	if req.Tags != nil {
		tags = sanitize.Tags(req.Tags)
	}

	var currency *string
	if req.Currency != nil {
		upper := strings.ToUpper(strings.TrimSpace(*req.Currency))
		currency = &upper
	}

	product, err := s.repo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:             id,
		Title:          title,
		Slug:           trimPtr(req.Slug),
		Brand:          sanitize.TextPtr(req.Brand),
		Description:    sanitize.TextPtr(req.Description),
		PriceCents:     req.PriceCents,
		CompareAtCents: req.CompareAtCents,
		ClearCompareAt: req.ClearCompareAt,
		Tags:           tags,
		Currency:       currency,
		Status:         req.Status,
	})
	if err != nil {
		return transport.AdminProductResponse{}, err
	}

	s.log.Info("product updated", "id", product.ID, "slug", product.Slug)
	s.publish(ctx, product.ID, product.Slug, events.ProductUpdated)
	return toAdminProductResponse(product), nil
}

// DeleteProduct deletes a product and makes a best-effort attempt to remove
// its uploaded images from storage.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	for _, img := range product.Images {
		s.removeObject(ctx, img)
	}

	s.log.Info("product deleted", "id", id, "slug", product.Slug)
	s.publish(ctx, product.ID, product.Slug, events.ProductDeleted)
	return nil
}

// AdjustInventory applies a stock delta.
func (s *Service) AdjustInventory(ctx context.Context, id uuid.UUID, req transport.AdjustInventoryRequest) (transport.AdminProductResponse, error) {
	if req.Delta == 0 {
		return transport.AdminProductResponse{}, apperr.Validation("delta must not be zero")
	}

	product, err := s.repo.AdjustInventory(ctx, id, req.Delta)
	if err != nil {
		return transport.AdminProductResponse{}, err
	}

	s.log.Info("inventory adjusted", "id", id, "delta", req.Delta, "inventory", product.Inventory, "reason", req.Reason)
	s.publish(ctx, product.ID, product.Slug, events.ProductInventoryChanged)
	return toAdminProductResponse(product), nil
}

// PresignImageUpload issues an upload URL for a new product image.
func (s *Service) PresignImageUpload(ctx context.Context, id uuid.UUID, req transport.PresignImageRequest) (transport.PresignImageResponse, error) {
	if s.storage == nil {
		return transport.PresignImageResponse{}, apperr.Unavailable(msgStorageNotConfigured)
	}
	if _, err := s.repo.GetProductByID(ctx, id); err != nil {
		return transport.PresignImageResponse{}, err
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, s.bucket, imageFolder(id), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return transport.PresignImageResponse{}, err
		}
		return transport.PresignImageResponse{}, apperr.Wrap(apperr.KindUnavailable, "could not create upload url", err)
	}

	return transport.PresignImageResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// AddProductImage attaches an uploaded object or an external URL to a product.
func (s *Service) AddProductImage(ctx context.Context, id uuid.UUID, req transport.AddImageRequest) (transport.AdminImageResponse, error) {
	fileKey := trimPtr(req.FileKey)
	imageURL := trimPtr(req.URL)
	hasKey := fileKey != nil && *fileKey != ""
	hasURL := imageURL != nil && *imageURL != ""
	if hasKey == hasURL {
		return transport.AdminImageResponse{}, apperr.Validation("provide exactly one of fileKey or url")
	}

	params := repository.AddImageParams{ProductID: id, Alt: sanitize.TextPtr(req.Alt)}
	if hasKey {
		if s.storage == nil {
			return transport.AdminImageResponse{}, apperr.Unavailable(msgStorageNotConfigured)
		}
		if !strings.HasPrefix(*fileKey, imageFolder(id)+"/") {
			return transport.AdminImageResponse{}, apperr.Validation("file key does not belong to this product")
		}
		params.FileKey = fileKey
		params.URL = s.storage.PublicURL(s.bucket, *fileKey)
	} else {
		params.URL = *imageURL
	}

	img, err := s.repo.AddProductImage(ctx, params)
	if err != nil {
		return transport.AdminImageResponse{}, err
	}

	s.log.Info("product image added", "productId", id, "imageId", img.ID, "position", img.Position)
	s.publishByID(ctx, id, events.ProductImagesChanged)
	return toAdminImageResponse(img), nil
}

// DeleteProductImage removes an image from a product.
func (s *Service) DeleteProductImage(ctx context.Context, id uuid.UUID, imageID uuid.UUID) error {
	img, err := s.repo.DeleteProductImage(ctx, id, imageID)
	if err != nil {
		return err
	}
	s.removeObject(ctx, img)

	s.log.Info("product image deleted", "productId", id, "imageId", imageID)
	s.publishByID(ctx, id, events.ProductImagesChanged)
	return nil
}

func (s *Service) removeObject(ctx context.Context, img repository.Image) {
	if s.storage == nil || img.FileKey == nil || *img.FileKey == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, s.bucket, *img.FileKey); err != nil {
		s.log.Warn("failed to delete product image object", "imageId", img.ID, "fileKey", *img.FileKey, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, id uuid.UUID, slug string, action events.ProductAction) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.ProductChanged{
		BaseEvent: events.NewBaseEvent(),
		ProductID: id,
		Slug:      slug,
		Action:    action,
	})
}

// publishByID looks up the slug for events raised from image endpoints,
// which only know the product ID.
func (s *Service) publishByID(ctx context.Context, id uuid.UUID, action events.ProductAction) {
	slug := ""
	if product, err := s.repo.GetProductByID(ctx, id); err == nil {
		slug = product.Slug
	}
	s.publish(ctx, id, slug, action)
}

func validateAmounts(priceCents int64, inventory int) error {
	if err := pricing.Validate(priceCents, inventory); err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return apperr.Validation("price and inventory must not be negative")
		}
		return err
	}
	return nil
}

func imageFolder(id uuid.UUID) string {
	return "products/" + id.String()
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
