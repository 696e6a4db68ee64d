// Package seed loads catalog fixtures from YAML and creates the products
// through the admin service, so seeded data passes the same checks as the API.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"storefront_backend/internal/catalog/pricing"
	"storefront_backend/internal/catalog/transport"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Products []Product `yaml:"products"`
}

type Product struct {
	Title          string   `yaml:"title"`
	Slug           string   `yaml:"slug"`
	Brand          string   `yaml:"brand"`
	Description    string   `yaml:"description"`
	PriceCents     int64    `yaml:"priceCents"`
	CompareAtCents *int64   `yaml:"compareAtCents"`
	Inventory      int      `yaml:"inventory"`
	Tags           []string `yaml:"tags"`
	Currency       string   `yaml:"currency"`
	Status         string   `yaml:"status"`
	Images         []Image  `yaml:"images"`
}

type Image struct {
	URL string `yaml:"url"`
	Alt string `yaml:"alt"`
}

// ProductWriter is the admin surface the seeder writes through.
type ProductWriter interface {
	CreateProduct(ctx context.Context, req transport.CreateProductRequest) (transport.AdminProductResponse, error)
	AddProductImage(ctx context.Context, id uuid.UUID, req transport.AddImageRequest) (transport.AdminImageResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Result counts what a run did.
type Result struct {
	Created int
	Skipped int
	Images  int
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a fixture and checks every product against the catalog's
// integrity rules. Unknown keys are rejected. All problems are reported
// together.
func Parse(r io.Reader) (Fixture, error) {
	var fixture Fixture

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixture{}, nil
		}
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}

	var errs []error
	seen := make(map[string]int, len(fixture.Products))
	for i, p := range fixture.Products {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("product %d: title is required", i))
		}
		if err := pricing.Validate(p.PriceCents, p.Inventory); err != nil {
			errs = append(errs, fmt.Errorf("product %d (%s): %w", i, p.Title, err))
		}
		if p.CompareAtCents != nil && *p.CompareAtCents < 0 {
			errs = append(errs, fmt.Errorf("product %d (%s): compareAtCents %d is negative", i, p.Title, *p.CompareAtCents))
		}
		for j, img := range p.Images {
			if strings.TrimSpace(img.URL) == "" {
				errs = append(errs, fmt.Errorf("product %d (%s): image %d has no url", i, p.Title, j))
			}
		}
		if p.Slug != "" {
			if first, dup := seen[p.Slug]; dup {
				errs = append(errs, fmt.Errorf("product %d: slug %q already used by product %d", i, p.Slug, first))
			}
			seen[p.Slug] = i
		}
	}

	if len(errs) > 0 {
		return Fixture{}, errors.Join(errs...)
	}
	return fixture, nil
}

// Seeder creates fixture products.
type Seeder struct {
	writer ProductWriter
	val    *validator.Validator
	log    *logger.Logger
}

func New(writer ProductWriter, val *validator.Validator, log *logger.Logger) *Seeder {
	return &Seeder{writer: writer, val: val, log: log}
}

// Run creates every product in the fixture. Products whose slug already
// exists are skipped, so running a fixture twice is safe. A product whose
// images cannot all be added is deleted again before Run returns, so the next
// run recreates it complete instead of skipping it.
func (s *Seeder) Run(ctx context.Context, fixture Fixture) (Result, error) {
	var result Result

	for i, p := range fixture.Products {
		req := p.createRequest()
		if err := s.val.Struct(req); err != nil {
			return result, fmt.Errorf("product %d (%s): %w", i, p.Title, err)
		}

		created, err := s.writer.CreateProduct(ctx, req)
		if apperr.Is(err, apperr.KindConflict) {
			s.log.Info("seed product skipped", "title", p.Title, "slug", p.Slug)
			result.Skipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("create product %d (%s): %w", i, p.Title, err)
		}

		for j, img := range p.Images {
			if _, err := s.writer.AddProductImage(ctx, created.ID, img.addRequest()); err != nil {
				err = fmt.Errorf("add image %d to %s: %w", j, created.Slug, err)
				if delErr := s.writer.DeleteProduct(ctx, created.ID); delErr != nil {
					return result, errors.Join(err, fmt.Errorf("roll back %s: %w", created.Slug, delErr))
				}
				s.log.Warn("seed product rolled back", "slug", created.Slug, "error", err)
				return result, err
			}
		}
		result.Created++
		result.Images += len(p.Images)

		s.log.Info("seed product created", "id", created.ID, "slug", created.Slug, "images", len(p.Images))
	}

	return result, nil
}

func (p Product) createRequest() transport.CreateProductRequest {
	price := p.PriceCents
	return transport.CreateProductRequest{
		Title:          p.Title,
		Slug:           optional(p.Slug),
		Brand:          optional(p.Brand),
		Description:    optional(p.Description),
		PriceCents:     &price,
		CompareAtCents: p.CompareAtCents,
		Inventory:      p.Inventory,
		Tags:           p.Tags,
		Currency:       strings.ToUpper(strings.TrimSpace(p.Currency)),
		Status:         p.Status,
	}
}

func (img Image) addRequest() transport.AddImageRequest {
	url := strings.TrimSpace(img.URL)
	return transport.AddImageRequest{
		URL: &url,
		Alt: optional(img.Alt),
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
