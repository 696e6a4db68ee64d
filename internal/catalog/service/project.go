package service

import (
	"strings"

	"storefront_backend/internal/catalog/pricing"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/transport"
)

// CardTagLimit is how many tags a listing card shows before "+N".
const CardTagLimit = 2

func (s *Service) toCard(p repository.Product) (transport.ProductCard, error) {
	if err := pricing.Validate(p.PriceCents, p.Inventory); err != nil {
		return transport.ProductCard{}, err
	}
	stock, err := pricing.StockStatus(p.Inventory)
	if err != nil {
		return transport.ProductCard{}, err
	}
	discount, err := pricing.DiscountPercent(p.PriceCents, p.CompareAtCents)
	if err != nil {
		return transport.ProductCard{}, err
	}

	currency := p.Currency
	if strings.TrimSpace(currency) == "" {
		currency = s.currency
	}

	shownTags, overflow := pricing.TruncateTags(p.Tags, CardTagLimit)
	card := transport.ProductCard{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		Brand:           nonBlank(p.Brand),
		Currency:        currency,
		PriceCents:      p.PriceCents,
		Price:           pricing.FormatCents(p.PriceCents, currency, s.locale),
		OnSale:          pricing.IsOnSale(p.PriceCents, p.CompareAtCents),
		DiscountPercent: discount,
		Stock: transport.StockView{
			Level:     string(stock.Level),
			Remaining: stock.Remaining,
			Label:     stock.Label(),
			Available: stock.Available(),
		},
		OutOfStock:  !stock.Available(),
		Tags:        shownTags,
		TagOverflow: overflow,
	}

	if card.OnSale {
		compareAt := pricing.FormatCurrency(p.CompareAtCents, currency, s.locale)
		badge, err := pricing.SaleBadge(p.PriceCents, p.CompareAtCents)
		if err != nil {
			return transport.ProductCard{}, err
		}
		card.CompareAtPrice = &compareAt
		card.SaleBadge = &badge
	}

	if len(p.Images) > 0 {
		primary := toImageView(p.Images[0], p.Title)
		card.PrimaryImage = &primary
	} else {
		card.Placeholder = true
	}

	return card, nil
}

func (s *Service) toDetail(p repository.Product) (transport.ProductDetail, error) {
	card, err := s.toCard(p)
	if err != nil {
		return transport.ProductDetail{}, err
	}

	allTags := make([]string, len(p.Tags))
	copy(allTags, p.Tags)

	images := make([]transport.ImageView, len(p.Images))
	for i, img := range p.Images {
		images[i] = toImageView(img, p.Title)
	}

	return transport.ProductDetail{
		ProductCard: card,
		Description: nonBlank(p.Description),
		AllTags:     allTags,
		Images:      images,
	}, nil
}

// toImageView falls back to the product title when an image has no alt text.
func toImageView(img repository.Image, title string) transport.ImageView {
	alt := title
	if img.Alt != nil && strings.TrimSpace(*img.Alt) != "" {
		alt = *img.Alt
	}
	return transport.ImageView{ID: img.ID, URL: img.URL, Alt: alt}
}

func toAdminProductResponse(p repository.Product) transport.AdminProductResponse {
	images := make([]transport.AdminImageResponse, len(p.Images))
	for i, img := range p.Images {
		images[i] = toAdminImageResponse(img)
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return transport.AdminProductResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Brand:          p.Brand,
		Description:    p.Description,
		PriceCents:     p.PriceCents,
		CompareAtCents: p.CompareAtCents,
		Inventory:      p.Inventory,
		Tags:           tags,
		Currency:       p.Currency,
		Status:         p.Status,
		Images:         images,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toAdminImageResponse(img repository.Image) transport.AdminImageResponse {
	return transport.AdminImageResponse{
		ID:        img.ID,
		URL:       img.URL,
		Alt:       img.Alt,
		FileKey:   img.FileKey,
		Position:  img.Position,
		CreatedAt: img.CreatedAt,
	}
}

func nonBlank(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
