package ports

import (
	"context"
	"io"
)

type ContentStore interface {
	// Put writes data under key exactly once; an existing key is an error.
	Put(ctx context.Context, key string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
}
