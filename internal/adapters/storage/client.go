package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"storefront_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL is how long an upload URL stays valid.
const PresignedURLTTL = 15 * time.Minute

// MinIOService implements StorageService using MinIO.
type MinIOService struct {
	client        *minio.Client
	maxFileSize   int64
	publicBaseURL string
}

var _ StorageService = (*MinIOService)(nil)

// NewMinIOService creates a new MinIO storage service.
func NewMinIOService(cfg config.MinIOConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	base := cfg.GetMinIOPublicBaseURL()
	if base == "" {
		scheme := "http"
		if cfg.GetMinIOUseSSL() {
			scheme = "https"
		}
		base = scheme + "://" + cfg.GetMinIOEndpoint()
	}

	return &MinIOService{
		client:        client,
		maxFileSize:   cfg.GetMinIOMaxFileSize(),
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// GenerateUploadURL creates a presigned URL for uploading an image.
func (s *MinIOService) GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := s.ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if err := s.ValidateFileSize(sizeBytes); err != nil {
		return nil, err
	}

	fileKey := objectKey(folder, fileName, uuid.NewString()[:8])
	expiresAt := time.Now().Add(PresignedURLTTL)
	presignedURL, err := s.client.PresignedPutObject(ctx, bucket, fileKey, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return &PresignedURL{
		URL:       presignedURL.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
	}, nil
}

// PublicURL joins the public base URL, bucket and key.
func (s *MinIOService) PublicURL(bucket, fileKey string) string {
	return publicURL(s.publicBaseURL, bucket, fileKey)
}

// DeleteObject removes an object from storage.
func (s *MinIOService) DeleteObject(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", fileKey, err)
	}
	return nil
}

// objectKey builds "<folder>/<base>_<suffix><ext>" from a client file name,
// dropping any directory the client sent.
func objectKey(folder, fileName, suffix string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	base := strings.TrimSuffix(name, path.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	return path.Join(folder, fmt.Sprintf("%s_%s%s", base, suffix, ext))
}

func publicURL(base, bucket, fileKey string) string {
	segments := strings.Split(fileKey, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", base, bucket, strings.Join(segments, "/"))
}
