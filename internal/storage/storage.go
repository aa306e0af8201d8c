package storage

import (
	"context"
	"io"
)

// Store is the blob store for slide assets. Paths are session-scoped
// ("<sessionID>/<name>"); Save returns the public URL the asset is
// served from.
type Store interface {
	Save(ctx context.Context, path string, r io.Reader) (string, error)
	Remove(ctx context.Context, paths ...string) error
	List(ctx context.Context, prefix string) ([]string, error)
	PublicURL(path string) string
}
