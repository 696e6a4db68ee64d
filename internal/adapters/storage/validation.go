package storage

import (
	"fmt"
	"strings"

	"storefront_backend/platform/apperr"
)

// AllowedContentTypes lists the image formats accepted for product images.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateContentType checks if the content type is an accepted image format.
func (s *MinIOService) ValidateContentType(contentType string) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !AllowedContentTypes[normalized] {
		return apperr.Validation(fmt.Sprintf("content type %q is not allowed", contentType))
	}
	return nil
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return apperr.Validation("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return apperr.Validation(fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize))
	}
	return nil
}
