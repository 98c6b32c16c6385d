package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// uploadPrefix is the per-entity path prefix under the media root.
const uploadPrefix = "uploads/recipe"

// DiskStore writes images to the local filesystem under a media root.
type DiskStore struct {
	root string
}

// NewDiskStore builds a store rooted at the given directory.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Save stores the content under a random filename that keeps the original
// extension, e.g. uploads/recipe/3f1f…c2.jpg.
func (s *DiskStore) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	ref := filepath.Join(uploadPrefix, uuid.NewString()+ext)

	full := filepath.Join(s.root, ref)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write image file: %w", err)
	}
	return ref, nil
}

// Remove deletes a previously saved image. A vanished file is not an error.
func (s *DiskStore) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, ref))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Open returns the stored content for serving or inspection.
func (s *DiskStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, ref))
}
