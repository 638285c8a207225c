package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/modinver/recoverycashback-sub000/internal/config"
)

// LocalStore writes artifacts into a directory served verbatim by the HTTP
// static file handler. Keys are bare file names; URLs are root-relative
// paths under the configured mount point.
type LocalStore struct {
	dir   string
	mount string
}

func NewLocalStore(cfg config.LocalStorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	mount := "/" + strings.Trim(cfg.PublicMount, "/")
	return &LocalStore{dir: cfg.Dir, mount: mount}, nil
}

func (s *LocalStore) Write(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	// O_EXCL: generated names are unique, a collision means a naming bug
	// and must not overwrite an existing asset.
	path := filepath.Join(s.dir, fileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrWrite, fileName, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: write %s: %v", ErrWrite, fileName, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: close %s: %v", ErrWrite, fileName, err)
	}

	return fileName, nil
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) PublicURL(key string) string {
	return s.mount + "/" + key
}

func (s *LocalStore) Backend() string {
	return "local"
}

// Dir exposes the storage directory for the static file mount.
func (s *LocalStore) Dir() string {
	return s.dir
}
