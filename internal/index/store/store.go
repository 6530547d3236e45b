// Package store provides an optional shared cache for index artifacts so
// several machines can reuse one indexing run. Store failures are advisory:
// the dispatcher logs them and falls back to local indexing.
package store

import (
	"context"
	"io"
)

type Store interface {
	// Fetch retrieves a previously published artifact by key.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// Put publishes a freshly built artifact under key.
	Put(ctx context.Context, key string, body io.Reader) error
}
