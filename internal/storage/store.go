package storage

import (
	"context"
	"io"
)

// Reader defines the read side of a file storage backend.
type Reader interface {
	Get(ctx context.Context, path string) (io.ReadCloser, error)
}
