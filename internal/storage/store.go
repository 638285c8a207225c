package storage

import (
	"context"
	"errors"
	"io"
)

// ErrWrite marks backend write failures. Unlike a transcode failure, a write
// failure is plausibly transient and safe for the caller to retry: a retry
// simply produces a fresh key.
var ErrWrite = errors.New("storage write failed")

// BlobStore persists transcoded artifacts and derives their public URLs.
// Write returns the key the backend chose for the file; PublicURL builds the
// URL deterministically from that key and configuration, never by parsing a
// backend response.
type BlobStore interface {
	Write(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (key string, err error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
	Backend() string
}
