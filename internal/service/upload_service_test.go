package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modinver/recoverycashback-sub000/internal/config"
	"github.com/modinver/recoverycashback-sub000/internal/media/transcode"
	"github.com/modinver/recoverycashback-sub000/internal/models"
	"github.com/modinver/recoverycashback-sub000/internal/storage"
)

type fakeRecorder struct {
	assets     []models.Asset
	failCreate bool
}

func (f *fakeRecorder) Create(ctx context.Context, asset models.Asset) error {
	if f.failCreate {
		return errors.New("db down")
	}
	f.assets = append(f.assets, asset)
	return nil
}

type fakeStore struct {
	writes    map[string][]byte
	removed   []string
	failWrite bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{writes: map[string][]byte{}}
}

func (f *fakeStore) Write(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	if f.failWrite {
		return "", fmt.Errorf("%w: connection refused", storage.ErrWrite)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.writes[fileName] = data
	return fileName, nil
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.writes, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string { return "https://cdn.test/" + key }
func (f *fakeStore) Backend() string             { return "fake" }

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Upload: config.UploadConfig{
			SizeCapBytes:  5 << 20,
			TargetQuality: 80,
		},
	}
}

func buildUpload(t *testing.T, name, contentType string, data []byte) UploadInput {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	fileHeader := form.File["file"][0]
	file, err := fileHeader.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	return UploadInput{File: file, Header: fileHeader}
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8((x * 7) % 256), G: uint8((y * 3) % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadStoresTranscodedAsset(t *testing.T) {
	recorder := &fakeRecorder{}
	store := newFakeStore()
	svc := NewUploadService(recorder, store, testConfig(), zerolog.Nop())

	result, err := svc.Upload(context.Background(), buildUpload(t, "card front.png", "image/png", pngBytes(t, 64, 48)))
	require.NoError(t, err)

	require.Len(t, recorder.assets, 1)
	asset := recorder.assets[0]
	assert.Equal(t, "image/jpeg", asset.ContentType)
	assert.Equal(t, "png", asset.SourceFormat)
	assert.Equal(t, 64, asset.Width)
	assert.Equal(t, 48, asset.Height)
	assert.Equal(t, "fake", asset.Backend)
	assert.True(t, strings.HasPrefix(asset.FileName, "card-front-"))
	assert.True(t, strings.HasSuffix(asset.FileName, ".jpg"))

	assert.Equal(t, "https://cdn.test/"+asset.Key, result.URL)

	stored := store.writes[asset.Key]
	decoded, format, err := image.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}

func TestUploadRejectsNonImageMIME(t *testing.T) {
	recorder := &fakeRecorder{}
	store := newFakeStore()
	svc := NewUploadService(recorder, store, testConfig(), zerolog.Nop())

	_, err := svc.Upload(context.Background(), buildUpload(t, "notes.txt", "text/plain", []byte("hello")))
	require.ErrorIs(t, err, ErrNotImage)
	assert.Empty(t, recorder.assets)
	assert.Empty(t, store.writes)
}

func TestUploadSpoofedExtensionFailsTranscode(t *testing.T) {
	recorder := &fakeRecorder{}
	store := newFakeStore()
	svc := NewUploadService(recorder, store, testConfig(), zerolog.Nop())

	// Declared image/jpeg passes the MIME pre-check; the bytes do not decode.
	_, err := svc.Upload(context.Background(), buildUpload(t, "fake.jpg", "image/jpeg", []byte("just some text")))
	require.ErrorIs(t, err, transcode.ErrTranscode)
	assert.Empty(t, recorder.assets)
	assert.Empty(t, store.writes)
}

func TestUploadEnforcesSizeCap(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.SizeCapBytes = 256
	recorder := &fakeRecorder{}
	store := newFakeStore()
	svc := NewUploadService(recorder, store, cfg, zerolog.Nop())

	_, err := svc.Upload(context.Background(), buildUpload(t, "big.png", "image/png", pngBytes(t, 200, 200)))
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, store.writes)
}

func TestUploadSameNameYieldsDistinctAssets(t *testing.T) {
	recorder := &fakeRecorder{}
	store := newFakeStore()
	svc := NewUploadService(recorder, store, testConfig(), zerolog.Nop())

	src := pngBytes(t, 32, 32)
	first, err := svc.Upload(context.Background(), buildUpload(t, "photo.jpg", "image/png", src))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), buildUpload(t, "photo.jpg", "image/png", src))
	require.NoError(t, err)

	// Identical bytes, identical name: still two assets, two URLs.
	assert.NotEqual(t, first.Asset.FileName, second.Asset.FileName)
	assert.NotEqual(t, first.URL, second.URL)
	assert.Len(t, store.writes, 2)
}

func TestUploadStorageFailure(t *testing.T) {
	recorder := &fakeRecorder{}
	store := newFakeStore()
	store.failWrite = true
	svc := NewUploadService(recorder, store, testConfig(), zerolog.Nop())

	_, err := svc.Upload(context.Background(), buildUpload(t, "a.png", "image/png", pngBytes(t, 16, 16)))
	require.ErrorIs(t, err, storage.ErrWrite)
	assert.Empty(t, recorder.assets)
}

func TestUploadCleansBlobWhenRecordFails(t *testing.T) {
	recorder := &fakeRecorder{failCreate: true}
	store := newFakeStore()
	svc := NewUploadService(recorder, store, testConfig(), zerolog.Nop())

	_, err := svc.Upload(context.Background(), buildUpload(t, "a.png", "image/png", pngBytes(t, 16, 16)))
	require.Error(t, err)
	assert.Len(t, store.removed, 1)
	assert.Empty(t, store.writes)
}

func TestUploadNilFile(t *testing.T) {
	svc := NewUploadService(&fakeRecorder{}, newFakeStore(), testConfig(), zerolog.Nop())
	_, err := svc.Upload(context.Background(), UploadInput{})
	require.ErrorIs(t, err, ErrNoFile)
}
