package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modinver/recoverycashback-sub000/internal/config"
	"github.com/modinver/recoverycashback-sub000/internal/models"
	"github.com/modinver/recoverycashback-sub000/internal/service"
)

type memRecorder struct {
	assets []models.Asset
}

func (m *memRecorder) Create(ctx context.Context, asset models.Asset) error {
	m.assets = append(m.assets, asset)
	return nil
}

type memStore struct {
	writes map[string][]byte
}

func (m *memStore) Write(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.writes[fileName] = data
	return fileName, nil
}

func (m *memStore) Remove(ctx context.Context, key string) error {
	delete(m.writes, key)
	return nil
}

func (m *memStore) PublicURL(key string) string { return "/images/" + key }
func (m *memStore) Backend() string             { return "local" }

func newUploadRouter(t *testing.T, cfg *config.AppConfig) (*gin.Engine, *memRecorder, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := &memRecorder{}
	store := &memStore{writes: map[string][]byte{}}
	h := HandlerSet{
		log:           zerolog.Nop(),
		cfg:           cfg,
		store:         store,
		uploadService: service.NewUploadService(recorder, store, cfg, zerolog.Nop()),
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	engine.POST("/api/upload", h.Upload)
	return engine, recorder, store
}

func uploadConfig() *config.AppConfig {
	return &config.AppConfig{
		Upload: config.UploadConfig{
			SizeCapBytes:  5 << 20,
			TargetQuality: 80,
		},
	}
}

func multipartBody(t *testing.T, fieldName, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, fileName))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadEndpointSuccess(t *testing.T) {
	engine, recorder, store := newUploadRouter(t, uploadConfig())

	body, contentType := multipartBody(t, "file", "Visa Gold.png", "image/png", testPNG(t, 120, 80))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		URL      string `json:"url"`
		FileName string `json:"fileName"`
		Backend  string `json:"backend"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.FileName, "visa-gold-"))
	assert.True(t, strings.HasSuffix(resp.FileName, ".jpg"))
	assert.Equal(t, "/images/"+resp.FileName, resp.URL)
	assert.Equal(t, "local", resp.Backend)

	require.Len(t, recorder.assets, 1)
	_, ok := store.writes[resp.FileName]
	assert.True(t, ok, "blob missing for %s", resp.FileName)
}

func TestUploadEndpointNoFile(t *testing.T) {
	engine, recorder, _ := newUploadRouter(t, uploadConfig())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, recorder.assets)
}

func TestUploadEndpointWrongMIME(t *testing.T) {
	engine, recorder, store := newUploadRouter(t, uploadConfig())

	body, contentType := multipartBody(t, "file", "doc.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, recorder.assets)
	assert.Empty(t, store.writes)
}

func TestUploadEndpointTooLarge(t *testing.T) {
	cfg := uploadConfig()
	cfg.Upload.SizeCapBytes = 1024
	engine, recorder, store := newUploadRouter(t, cfg)

	body, contentType := multipartBody(t, "file", "huge.png", "image/png", bytes.Repeat([]byte{0xab}, 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, recorder.assets)
	assert.Empty(t, store.writes)
}

func TestUploadEndpointSpoofedImage(t *testing.T) {
	engine, recorder, store := newUploadRouter(t, uploadConfig())

	body, contentType := multipartBody(t, "file", "renamed.jpg", "image/jpeg", []byte("plain text pretending"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, recorder.assets)
	assert.Empty(t, store.writes)
}

func TestUploadEndpointMethodNotAllowed(t *testing.T) {
	engine, _, _ := newUploadRouter(t, uploadConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/upload", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
