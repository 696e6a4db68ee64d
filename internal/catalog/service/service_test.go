package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/transport"
	"storefront_backend/platform/apperr"
)

func TestListProductsProjectsSaleCard(t *testing.T) {
	p := activeProduct("walnut-desk", 8000, int64Ptr(10000), 3)
	p.Brand = strPtr("Oakline")
	p.Tags = []string{"walnut", "desk", "office"}
	svc := newTestService(newFakeRepo(p), nil, nil, &recordingBus{})

	resp, err := svc.ListProducts(context.Background(), transport.ListProductsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected one card, got %d", len(resp.Items))
	}

	card := resp.Items[0]
	if !card.OnSale || card.DiscountPercent != 20 {
		t.Fatalf("expected 20%% sale, got onSale=%v discount=%d", card.OnSale, card.DiscountPercent)
	}
	if card.Price != "$80.00" || card.CompareAtPrice == nil || *card.CompareAtPrice != "$100.00" {
		t.Fatalf("unexpected prices %q / %v", card.Price, card.CompareAtPrice)
	}
	if card.SaleBadge == nil || *card.SaleBadge != "-20% OFF" {
		t.Fatalf("unexpected badge %v", card.SaleBadge)
	}
	if card.Stock.Level != "LOW_STOCK" || card.Stock.Label != "Only 3 left" || card.OutOfStock {
		t.Fatalf("unexpected stock %+v", card.Stock)
	}
	if len(card.Tags) != 2 || card.Tags[0] != "walnut" || card.TagOverflow != 1 {
		t.Fatalf("unexpected tags %v +%d", card.Tags, card.TagOverflow)
	}
	if !card.Placeholder || card.PrimaryImage != nil {
		t.Fatalf("expected placeholder for product without images")
	}
	if card.Brand == nil || *card.Brand != "Oakline" {
		t.Fatalf("expected brand line")
	}
}

func TestListProductsRegularPriceCard(t *testing.T) {
	p := activeProduct("lamp", 1999, int64Ptr(1999), 0)
	p.Images = []repository.Image{{ID: uuid.New(), URL: "https://cdn.example.com/lamp.jpg"}}
	svc := newTestService(newFakeRepo(p), nil, nil, &recordingBus{})

	resp, err := svc.ListProducts(context.Background(), transport.ListProductsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	card := resp.Items[0]
	if card.OnSale || card.DiscountPercent != 0 || card.SaleBadge != nil || card.CompareAtPrice != nil {
		t.Fatalf("expected no sale when compare-at equals price, got %+v", card)
	}
	if card.Price != "$19.99" {
		t.Fatalf("expected $19.99, got %q", card.Price)
	}
	if !card.OutOfStock || card.Stock.Label != "Out of stock" {
		t.Fatalf("expected out of stock, got %+v", card.Stock)
	}
	if card.PrimaryImage == nil || card.PrimaryImage.Alt != "Walnut Desk" || card.Placeholder {
		t.Fatalf("expected primary image with title alt, got %+v", card.PrimaryImage)
	}
}

func TestListProductsNormalizesPaging(t *testing.T) {
	cases := []struct {
		name       string
		req        transport.ListProductsRequest
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", req: transport.ListProductsRequest{}, wantLimit: 12, wantOffset: 0},
		{name: "upper bound", req: transport.ListProductsRequest{PageSize: 100}, wantLimit: 24, wantOffset: 0},
		{name: "third page", req: transport.ListProductsRequest{Page: 3, PageSize: 10}, wantLimit: 10, wantOffset: 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo, nil, nil, &recordingBus{})

			if _, err := svc.ListProducts(context.Background(), tc.req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.lastParams.Limit != tc.wantLimit || repo.lastParams.Offset != tc.wantOffset {
				t.Fatalf("expected limit %d offset %d, got %+v", tc.wantLimit, tc.wantOffset, repo.lastParams)
			}
			if repo.lastParams.Status != repository.StatusActive {
				t.Fatalf("expected active status filter, got %q", repo.lastParams.Status)
			}
		})
	}
}

func TestListProductsDropsCorruptProducts(t *testing.T) {
	good := activeProduct("good", 1000, nil, 10)
	bad := activeProduct("bad", 1000, nil, -2)
	svc := newTestService(newFakeRepo(good, bad), nil, nil, &recordingBus{})

	resp, err := svc.ListProducts(context.Background(), transport.ListProductsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Slug != "good" {
		t.Fatalf("expected only the valid product, got %+v", resp.Items)
	}
	if resp.Total != 1 {
		t.Fatalf("expected total to exclude dropped product, got %d", resp.Total)
	}
}

func TestListProductsServesFromCache(t *testing.T) {
	repo := newFakeRepo(activeProduct("desk", 1000, nil, 10))
	svc := newTestService(repo, newMapCache(), nil, &recordingBus{})
	ctx := context.Background()

	first, err := svc.ListProducts(ctx, transport.ListProductsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ListProducts(ctx, transport.ListProductsRequest{Page: 1, PageSize: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.listCalls != 1 {
		t.Fatalf("expected equivalent requests to share a cache entry, repo called %d times", repo.listCalls)
	}
	if len(second.Items) != len(first.Items) || second.Items[0].Price != first.Items[0].Price {
		t.Fatalf("cached response differs from original")
	}

	if err := svc.InvalidateCache(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := svc.ListProducts(ctx, transport.ListProductsRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected a repository read after invalidation, got %d calls", repo.listCalls)
	}
}

func TestListProductsBypassesBrokenCache(t *testing.T) {
	c := newMapCache()
	c.getErr = errors.New("redis: connection refused")
	svc := newTestService(newFakeRepo(activeProduct("desk", 1000, nil, 10)), c, nil, &recordingBus{})

	resp, err := svc.ListProducts(context.Background(), transport.ListProductsRequest{})
	if err != nil {
		t.Fatalf("expected cache failure to be bypassed, got %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected one card, got %d", len(resp.Items))
	}
}

func TestListingReportsRetrievalFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection refused")
	svc := newTestService(repo, nil, nil, &recordingBus{})

	result := svc.Listing(context.Background(), svc.HomeRequest())
	if result.Err == nil {
		t.Fatalf("expected retrieval error")
	}
	if !apperr.Is(result.Err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable kind, got %v", result.Err)
	}
	if len(result.Response.Items) != 0 {
		t.Fatalf("expected no items on failure")
	}
}

func TestListingEmptyCatalogIsNotAnError(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, nil, &recordingBus{})

	result := svc.Listing(context.Background(), svc.HomeRequest())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Response.Items == nil || len(result.Response.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %v", result.Response.Items)
	}
}

func TestHomeRequestUsesConfiguredSize(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil, &recordingBus{})

	if _, err := svc.ListProducts(context.Background(), svc.HomeRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastParams.Limit != 8 || repo.lastParams.SortBy != "availability" {
		t.Fatalf("unexpected home params %+v", repo.lastParams)
	}
}

func TestGetProductBySlugDetail(t *testing.T) {
	p := activeProduct("walnut-desk", 8500, int64Ptr(10000), 12)
	p.Description = strPtr("Solid walnut.")
	p.Tags = []string{"walnut", "desk", "office", "walnut"}
	p.Images = []repository.Image{
		{ID: uuid.New(), URL: "https://cdn.example.com/front.jpg", Alt: strPtr("Front view")},
		{ID: uuid.New(), URL: "https://cdn.example.com/side.jpg", Alt: strPtr("  ")},
	}
	svc := newTestService(newFakeRepo(p), nil, nil, &recordingBus{})

	detail, err := svc.GetProductBySlug(context.Background(), " Walnut-Desk ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.DiscountPercent != 15 || detail.Stock.Label != "In stock" {
		t.Fatalf("unexpected card fields %+v", detail.ProductCard)
	}
	if len(detail.AllTags) != 4 || detail.TagOverflow != 2 {
		t.Fatalf("expected all tags on detail, got %v (+%d)", detail.AllTags, detail.TagOverflow)
	}
	if len(detail.Images) != 2 || detail.Images[0].Alt != "Front view" || detail.Images[1].Alt != "Walnut Desk" {
		t.Fatalf("unexpected images %+v", detail.Images)
	}
	if detail.Description == nil || *detail.Description != "Solid walnut." {
		t.Fatalf("expected description")
	}
}

func TestGetProductBySlugErrors(t *testing.T) {
	draft := activeProduct("draft-desk", 1000, nil, 1)
	draft.Status = repository.StatusDraft
	corrupt := activeProduct("corrupt", -5, nil, 1)
	svc := newTestService(newFakeRepo(draft, corrupt), nil, nil, &recordingBus{})

	cases := map[string]apperr.Kind{
		"missing":    apperr.KindNotFound,
		"draft-desk": apperr.KindNotFound,
		"corrupt":    apperr.KindInternal,
	}
	for slug, want := range cases {
		_, err := svc.GetProductBySlug(context.Background(), slug)
		if !apperr.Is(err, want) {
			t.Fatalf("%s: expected kind %v, got %v", slug, want, err)
		}
	}
}
