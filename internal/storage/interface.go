package storage

import (
	"context"
	"io"
)

// ObjectStorage stores generated images outside the database.
type ObjectStorage interface {
	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// GetURL returns the public URL for an object
	GetURL(key string) string

	// KeyFromURL returns the object key for a URL produced by GetURL.
	// ok is false for URLs this storage does not own.
	KeyFromURL(url string) (key string, ok bool)

	// Delete deletes an object from storage
	Delete(ctx context.Context, key string) error
}
