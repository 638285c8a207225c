package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modinver/recoverycashback-sub000/internal/config"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(config.LocalStorageConfig{
		Dir:         t.TempDir(),
		PublicMount: "/images",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStoreWriteAndURL(t *testing.T) {
	store := newTestLocalStore(t)
	data := []byte("jpeg bytes")

	key, err := store.Write(context.Background(), "card-abc.jpg", bytes.NewReader(data), int64(len(data)), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "card-abc.jpg", key)
	assert.Equal(t, "/images/card-abc.jpg", store.PublicURL(key))
	assert.Equal(t, "local", store.Backend())

	written, err := os.ReadFile(filepath.Join(store.Dir(), key))
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestLocalStoreRefusesOverwrite(t *testing.T) {
	store := newTestLocalStore(t)

	_, err := store.Write(context.Background(), "dup.jpg", bytes.NewReader([]byte("one")), 3, "image/jpeg")
	require.NoError(t, err)

	_, err = store.Write(context.Background(), "dup.jpg", bytes.NewReader([]byte("two")), 3, "image/jpeg")
	require.ErrorIs(t, err, ErrWrite)

	// First write must be untouched.
	written, err := os.ReadFile(filepath.Join(store.Dir(), "dup.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), written)
}

func TestLocalStoreRemove(t *testing.T) {
	store := newTestLocalStore(t)

	key, err := store.Write(context.Background(), "gone.jpg", bytes.NewReader([]byte("x")), 1, "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, store.Remove(context.Background(), key))
	_, statErr := os.Stat(filepath.Join(store.Dir(), key))
	assert.True(t, os.IsNotExist(statErr))

	// Removing a missing key is not an error.
	assert.NoError(t, store.Remove(context.Background(), key))
}

func TestLocalStoreRemoveIgnoresPathTraversal(t *testing.T) {
	store := newTestLocalStore(t)

	outside := filepath.Join(filepath.Dir(store.Dir()), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	require.NoError(t, store.Remove(context.Background(), "../outside.txt"))
	_, err := os.Stat(outside)
	assert.NoError(t, err, "file outside the storage dir must survive")
}

func TestLocalStoreMountNormalized(t *testing.T) {
	store, err := NewLocalStore(config.LocalStorageConfig{
		Dir:         t.TempDir(),
		PublicMount: "images/",
	})
	require.NoError(t, err)
	assert.Equal(t, "/images/a.jpg", store.PublicURL("a.jpg"))
}
