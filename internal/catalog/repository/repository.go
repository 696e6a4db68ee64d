package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/platform/apperr"
)

const (
	productNotFoundMessage = "product not found"
	slugTakenMessage       = "slug already in use"

	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"

	productColumns = `id, title, slug, brand, description, price_cents, compare_at_cents, inventory, tags, currency, status, created_at, updated_at`
)

// Repo implements the catalog repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Brand, &p.Description, &p.PriceCents, &p.CompareAtCents,
		&p.Inventory, &p.Tags, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Images = []Image{}
	return p, err
}

// ListProducts lists products with filters and pagination. Images are loaded
// for the whole page in a single extra query.
func (r *Repo) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error) {
	whereClause, args := buildListFilter(params)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM catalog_products WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	argIdx := len(args) + 1
	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM catalog_products
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, listOrderBy(params), argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, product)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", rows.Err())
	}

	if err := r.attachImages(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func buildListFilter(params ListProductsParams) (string, []interface{}) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	next := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Status != "" {
		whereClauses = append(whereClauses, "status = "+next(params.Status))
	}
	if params.InStockOnly {
		whereClauses = append(whereClauses, "inventory > 0")
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		placeholder := next("%" + search + "%")
		whereClauses = append(whereClauses, fmt.Sprintf("(title ILIKE %s OR brand ILIKE %s)", placeholder, placeholder))
	}
	if brand := strings.TrimSpace(params.Brand); brand != "" {
		whereClauses = append(whereClauses, "lower(brand) = lower("+next(brand)+")")
	}
	if tag := strings.TrimSpace(params.Tag); tag != "" {
		whereClauses = append(whereClauses, next(tag)+" = ANY(tags)")
	}

	return strings.Join(whereClauses, " AND "), args
}

func listOrderBy(params ListProductsParams) string {
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	switch params.SortBy {
	case "title":
		return fmt.Sprintf("title %s, created_at DESC", sortOrder)
	case "priceCents":
		return fmt.Sprintf("price_cents %s, created_at DESC", sortOrder)
	case "inventory":
		return fmt.Sprintf("inventory %s, created_at DESC", sortOrder)
	case "updatedAt":
		return fmt.Sprintf("updated_at %s, created_at DESC", sortOrder)
	case "availability":
		return "(inventory > 0) DESC, created_at DESC"
	default:
		return fmt.Sprintf("created_at %s, id ASC", sortOrder)
	}
}

// GetProductBySlug retrieves a product and its images by slug.
func (r *Repo) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_products WHERE slug = $1`, productColumns)
	return r.getOne(ctx, "get product by slug", query, slug)
}

// GetProductByID retrieves a product and its images by ID.
func (r *Repo) GetProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_products WHERE id = $1`, productColumns)
	return r.getOne(ctx, "get product by id", query, id)
}

func (r *Repo) getOne(ctx context.Context, op, query string, arg interface{}) (Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("%s: %w", op, err)
	}

	items := []Product{product}
	if err := r.attachImages(ctx, items); err != nil {
		return Product{}, err
	}
	return items[0], nil
}

// CreateProduct creates a product.
func (r *Repo) CreateProduct(ctx context.Context, params CreateProductParams) (Product, error) {
	query := fmt.Sprintf(`
		INSERT INTO catalog_products (
			title, slug, brand, description, price_cents, compare_at_cents, inventory, tags, currency, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, productColumns)

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	product, err := scanProduct(r.pool.QueryRow(ctx, query,
		params.Title, params.Slug, params.Brand, params.Description, params.PriceCents,
		params.CompareAtCents, params.Inventory, tags, params.Currency, params.Status,
	))
	if err != nil {
		return Product{}, translateWriteError("create product", err)
	}
	return product, nil
}

// UpdateProduct applies a partial update.
func (r *Repo) UpdateProduct(ctx context.Context, params UpdateProductParams) (Product, error) {
	query := fmt.Sprintf(`
		UPDATE catalog_products
		SET
			title = COALESCE($2, title),
			slug = COALESCE($3, slug),
			brand = COALESCE($4, brand),
			description = COALESCE($5, description),
			price_cents = COALESCE($6, price_cents),
			compare_at_cents = CASE WHEN $7 THEN NULL ELSE COALESCE($8, compare_at_cents) END,
			tags = COALESCE($9, tags),
			currency = COALESCE($10, currency),
			status = COALESCE($11, status),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, productColumns)

	product, err := scanProduct(r.pool.QueryRow(ctx, query,
		params.ID, params.Title, params.Slug, params.Brand, params.Description, params.PriceCents,
		params.ClearCompareAt, params.CompareAtCents, params.Tags, params.Currency, params.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, translateWriteError("update product", err)
	}

	items := []Product{product}
	if err := r.attachImages(ctx, items); err != nil {
		return Product{}, err
	}
	return items[0], nil
}

// DeleteProduct deletes a product. Its images cascade.
func (r *Repo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM catalog_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

// AdjustInventory atomically adds delta to the stock level. A change that
// would leave inventory negative is rejected with a conflict.
func (r *Repo) AdjustInventory(ctx context.Context, id uuid.UUID, delta int) (Product, error) {
	query := fmt.Sprintf(`
		UPDATE catalog_products
		SET inventory = inventory + $2, updated_at = now()
		WHERE id = $1 AND inventory + $2 >= 0
		RETURNING %s`, productColumns)

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id, delta))
	if err == nil {
		items := []Product{product}
		if err := r.attachImages(ctx, items); err != nil {
			return Product{}, err
		}
		return items[0], nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("adjust inventory: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM catalog_products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return Product{}, fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return Product{}, apperr.NotFound(productNotFoundMessage)
	}
	return Product{}, apperr.Conflict("insufficient inventory")
}

func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict(slugTakenMessage).WithOp(op)
		case pgCheckViolation:
			return apperr.Validation("price and inventory must not be negative").WithOp(op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
