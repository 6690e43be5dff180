package storage

import (
	"fmt"
	"strings"

	"vitrine_backend/platform/apperr"
)

// AllowedImageTypes defines the MIME types accepted for logos and case images.
var AllowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/avif":    true,
}

// ValidateImage checks the declared content type and size of an upload.
func ValidateImage(contentType string, sizeBytes, maxBytes int64) error {
	// Normalize content type (remove parameters like charset)
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !AllowedImageTypes[normalized] {
		return apperr.Field("contentType", fmt.Sprintf("content type %q is not allowed", contentType))
	}
	if sizeBytes <= 0 {
		return apperr.Field("sizeBytes", "must be greater than 0")
	}
	if maxBytes > 0 && sizeBytes > maxBytes {
		return apperr.Field("sizeBytes", fmt.Sprintf("must be at most %d bytes", maxBytes))
	}
	return nil
}
