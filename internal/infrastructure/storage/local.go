package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/qiustore/backend/internal/domain/shared"
)

// Store persists uploaded files and returns the public URL to reach them.
// A cloud-backed implementation can replace LocalStore without touching the
// upload handler.
type Store interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// LocalStore writes uploads to a directory on local disk, served under
// the /uploads static route.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns the store
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save streams the file under a generated name and returns its URL path.
// The original name contributes only its extension.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", shared.Internal("Could not store the uploaded file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", shared.Internal("Could not store the uploaded file")
	}
	return "/uploads/" + name, nil
}
