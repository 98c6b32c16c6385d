package storage

import (
	"context"
	"io"
)

// ImageStore persists uploaded recipe images. Save returns the stable
// reference later stored on the recipe row; Remove accepts that same
// reference.
type ImageStore interface {
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}
