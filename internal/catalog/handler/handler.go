package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront_backend/internal/catalog/service"
	"storefront_backend/internal/catalog/transport"
	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// CatalogService is the service surface the handler needs.
type CatalogService interface {
	ListProducts(ctx context.Context, req transport.ListProductsRequest) (transport.ProductListResponse, error)
	Listing(ctx context.Context, req transport.ListProductsRequest) service.ListingResult
	HomeRequest() transport.ListProductsRequest
	GetProductBySlug(ctx context.Context, slug string) (transport.ProductDetail, error)

	CreateProduct(ctx context.Context, req transport.CreateProductRequest) (transport.AdminProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (transport.AdminProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustInventory(ctx context.Context, id uuid.UUID, req transport.AdjustInventoryRequest) (transport.AdminProductResponse, error)
	PresignImageUpload(ctx context.Context, id uuid.UUID, req transport.PresignImageRequest) (transport.PresignImageResponse, error)
	AddProductImage(ctx context.Context, id uuid.UUID, req transport.AddImageRequest) (transport.AdminImageResponse, error)
	DeleteProductImage(ctx context.Context, id uuid.UUID, imageID uuid.UUID) error
}

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc CatalogService
	val *validator.Validator
	log *logger.Logger
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid product id"
	msgInvalidImageID = "invalid image id"
)

// New creates a new catalog handler.
func New(svc CatalogService, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

// ListProducts returns a page of product cards.
// GET /api/v1/products
func (h *Handler) ListProducts(c *gin.Context) {
	var req transport.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}

	result, err := h.svc.ListProducts(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Home returns the storefront home grid. A catalog outage degrades to an
// empty grid instead of failing the page.
// GET /api/v1/storefront/home
func (h *Handler) Home(c *gin.Context) {
	result := h.svc.Listing(c.Request.Context(), h.svc.HomeRequest())
	if result.Err != nil {
		h.log.WithContext(c.Request.Context()).Error("storefront home degraded", "error", result.Err)
		httpkit.OK(c, transport.HomeResponse{Items: []transport.ProductCard{}, Degraded: true})
		return
	}

	items := result.Response.Items
	if items == nil {
		items = []transport.ProductCard{}
	}
	httpkit.OK(c, transport.HomeResponse{Items: items})
}

// GetProduct returns the product page payload.
// GET /api/v1/products/:slug
func (h *Handler) GetProduct(c *gin.Context) {
	result, err := h.svc.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateProduct creates a product.
// POST /api/v1/admin/catalog/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req transport.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.CreateProduct(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	h.audit(c, "create_product", result.ID)
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateProduct applies a partial update.
// PUT /api/v1/admin/catalog/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.UpdateProduct(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	h.audit(c, "update_product", id)
	httpkit.OK(c, result)
}

// DeleteProduct deletes a product.
// DELETE /api/v1/admin/catalog/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteProduct(c.Request.Context(), id)) {
		return
	}
	h.audit(c, "delete_product", id)
	c.Status(http.StatusNoContent)
}

// AdjustInventory applies a stock delta.
// POST /api/v1/admin/catalog/products/:id/inventory
func (h *Handler) AdjustInventory(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.AdjustInventoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.AdjustInventory(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	h.audit(c, "adjust_inventory", id, "delta", req.Delta)
	httpkit.OK(c, result)
}

// PresignImage returns an upload URL for a product image.
// POST /api/v1/admin/catalog/products/:id/images/presign
func (h *Handler) PresignImage(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.PresignImageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.PresignImageUpload(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddImage attaches an image to a product.
// POST /api/v1/admin/catalog/products/:id/images
func (h *Handler) AddImage(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.AddImageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.AddProductImage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	h.audit(c, "add_image", id, "imageId", result.ID)
	httpkit.JSON(c, http.StatusCreated, result)
}

// DeleteImage removes an image from a product.
// DELETE /api/v1/admin/catalog/products/:id/images/:imageId
func (h *Handler) DeleteImage(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId", msgInvalidImageID)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteProductImage(c.Request.Context(), id, imageID)) {
		return
	}
	h.audit(c, "delete_image", id, "imageId", imageID)
	c.Status(http.StatusNoContent)
}

// audit records which admin changed the catalog.
func (h *Handler) audit(c *gin.Context, action string, productID uuid.UUID, attrs ...any) {
	args := append([]any{"action", action, "productId", productID, "actor", httpkit.GetIdentity(c).UserID()}, attrs...)
	h.log.WithContext(c.Request.Context()).Info("catalog admin action", args...)
}

func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	return !httpkit.HandleError(c, h.val.Struct(dst))
}

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}
