package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, int64(5<<20), cfg.Upload.SizeCapBytes)
	assert.Equal(t, 80, cfg.Upload.TargetQuality)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "/images", cfg.Storage.Local.PublicMount)
	assert.Equal(t, "assets:maintenance", cfg.Jobs.Stream)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RCB_UPLOAD_TARGETQUALITY", "70")
	t.Setenv("RCB_STORAGE_BACKEND", "s3")
	t.Setenv("RCB_STORAGE_S3_PUBLICBASEURL", "https://cdn.example.com/assets")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.Upload.TargetQuality)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "https://cdn.example.com/assets", cfg.Storage.S3.PublicBaseURL)
}

func TestLoadRejectsBadBackend(t *testing.T) {
	t.Setenv("RCB_STORAGE_BACKEND", "ftp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestLoadRejectsBadQuality(t *testing.T) {
	t.Setenv("RCB_UPLOAD_TARGETQUALITY", "0")

	_, err := Load()
	require.Error(t, err)
}
