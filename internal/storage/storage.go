package storage

import (
	"context"
	"errors"
	"io"
)

// ObjectStore defines the operations the media gateway needs from a remote
// object storage provider.
type ObjectStore interface {
	// Put stores body under key and returns the public URL of the object.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Error constants for the storage layer.
var (
	ErrEmptyKey = errors.New("object key is empty")
)
