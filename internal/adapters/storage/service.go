// Package storage provides S3-compatible object storage for product images.
package storage

import (
	"context"
	"time"
)

// PresignedURL contains the URL and metadata for a presigned upload.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StorageService defines the object storage operations the catalog needs.
type StorageService interface {
	// GenerateUploadURL validates the upload and returns a presigned PUT URL
	// for a unique key under folder.
	GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)

	// PublicURL is the browser-facing URL of a stored object.
	PublicURL(bucket, fileKey string) string

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, bucket, fileKey string) error

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error
}
