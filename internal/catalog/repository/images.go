package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storefront_backend/platform/apperr"
)

const (
	imageNotFoundMessage  = "product image not found"
	pgForeignKeyViolation = "23503"

	imageColumns = `id, product_id, url, alt, file_key, position, created_at`
)

// AddProductImage appends an image after the product's existing images.
func (r *Repo) AddProductImage(ctx context.Context, params AddImageParams) (Image, error) {
	query := fmt.Sprintf(`
		INSERT INTO catalog_product_images (product_id, url, alt, file_key, position)
		VALUES ($1, $2, $3, $4,
			COALESCE((SELECT MAX(position) + 1 FROM catalog_product_images WHERE product_id = $1), 0))
		RETURNING %s`, imageColumns)

	var img Image
	if err := r.pool.QueryRow(ctx, query, params.ProductID, params.URL, params.Alt, params.FileKey).Scan(
		&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.FileKey, &img.Position, &img.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Image{}, apperr.NotFound(productNotFoundMessage)
		}
		return Image{}, fmt.Errorf("add product image: %w", err)
	}
	return img, nil
}

// DeleteProductImage removes an image and returns it so the caller can clean
// up the stored object.
func (r *Repo) DeleteProductImage(ctx context.Context, productID uuid.UUID, imageID uuid.UUID) (Image, error) {
	query := fmt.Sprintf(`
		DELETE FROM catalog_product_images
		WHERE id = $1 AND product_id = $2
		RETURNING %s`, imageColumns)

	var img Image
	if err := r.pool.QueryRow(ctx, query, imageID, productID).Scan(
		&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.FileKey, &img.Position, &img.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Image{}, apperr.NotFound(imageNotFoundMessage)
		}
		return Image{}, fmt.Errorf("delete product image: %w", err)
	}
	return img, nil
}

// attachImages loads images for every product in items, in display order.
func (r *Repo) attachImages(ctx context.Context, items []Product) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for i, p := range items {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM catalog_product_images
		WHERE product_id = ANY($1)
		ORDER BY product_id, position ASC, created_at ASC`, imageColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.FileKey, &img.Position, &img.CreatedAt); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		if i, ok := index[img.ProductID]; ok {
			items[i].Images = append(items[i].Images, img)
		}
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterate product images: %w", rows.Err())
	}
	return nil
}
