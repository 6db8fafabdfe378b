package catalog

import (
	"context"
	"time"
)

// ImageStorage stores product images in an object store. Implementations
// live in infrastructure/storage.
type ImageStorage interface {
	// Upload stores image bytes under the given key
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// DownloadURL returns a time-limited URL for fetching an image
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)

	// Delete removes an image
	Delete(ctx context.Context, key string) error
}
