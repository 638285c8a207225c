package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/modinver/recoverycashback-sub000/internal/config"
	"github.com/modinver/recoverycashback-sub000/internal/ids"
	"github.com/modinver/recoverycashback-sub000/internal/media/sniffer"
	"github.com/modinver/recoverycashback-sub000/internal/media/transcode"
	"github.com/modinver/recoverycashback-sub000/internal/models"
	"github.com/modinver/recoverycashback-sub000/internal/naming"
	"github.com/modinver/recoverycashback-sub000/internal/storage"
)

var (
	ErrNoFile   = errors.New("no file attached")
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file exceeds size cap")
)

// AssetRecorder persists StoredAsset rows. Satisfied by
// repository.AssetRepository.
type AssetRecorder interface {
	Create(ctx context.Context, asset models.Asset) error
}

type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

type UploadResult struct {
	Asset models.Asset
	URL   string
}

// UploadService runs the upload pipeline: validate, transcode to JPEG,
// write to the blob store, record the asset. The request body is buffered
// in memory; the size cap makes that bounded, and it leaves no temp files
// to clean up on any failure path.
type UploadService struct {
	assets AssetRecorder
	store  storage.BlobStore
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewUploadService(assets AssetRecorder, store storage.BlobStore, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		assets: assets,
		store:  store,
		cfg:    cfg,
		log:    log,
	}
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.File == nil || input.Header == nil {
		return UploadResult{}, ErrNoFile
	}
	if input.Header.Size > s.cfg.Upload.SizeCapBytes {
		return UploadResult{}, ErrTooLarge
	}

	// Cheap pre-check on the declared type before any CPU is spent.
	// The transcode below is the authoritative validity gate.
	declared := sniffer.MimeTypeFromHTTP(http.Header(input.Header.Header))
	if !strings.HasPrefix(declared, "image/") {
		return UploadResult{}, fmt.Errorf("%w: declared type %q", ErrNotImage, declared)
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.cfg.Upload.SizeCapBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > s.cfg.Upload.SizeCapBytes {
		return UploadResult{}, ErrTooLarge
	}
	if len(data) == 0 {
		return UploadResult{}, ErrNoFile
	}

	// Magic-byte sniff. Bytes the sniffer cannot place would fail decode
	// anyway, so the failure is classed with transcode errors (500, not a
	// client input error) per the spoofed-extension semantics.
	sniffed, err := sniffer.DetectHead(head(data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", transcode.ErrTranscode, err)
	}

	result, err := transcode.ToJPEG(data, s.cfg.Upload.TargetQuality)
	if err != nil {
		return UploadResult{}, err
	}

	fileName := naming.UniqueFileName(input.Header.Filename, transcode.Ext)

	key, err := s.store.Write(ctx, fileName, bytes.NewReader(result.Data), int64(len(result.Data)), transcode.ContentType)
	if err != nil {
		return UploadResult{}, err
	}

	asset := models.Asset{
		ID:           ids.New(),
		FileName:     fileName,
		Key:          key,
		Backend:      s.store.Backend(),
		ContentType:  transcode.ContentType,
		SourceFormat: string(sniffed.Type),
		SizeBytes:    int64(len(result.Data)),
		Width:        result.Width,
		Height:       result.Height,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		// Best effort: the blob is unreachable without its row.
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("key", key).Msg("orphan blob cleanup failed")
		}
		return UploadResult{}, fmt.Errorf("save asset: %w", err)
	}

	s.log.Info().
		Str("asset_id", asset.ID).
		Str("file_name", fileName).
		Str("backend", asset.Backend).
		Int64("size_bytes", asset.SizeBytes).
		Str("source_format", asset.SourceFormat).
		Msg("asset stored")

	return UploadResult{
		Asset: asset,
		URL:   s.store.PublicURL(key),
	}, nil
}

func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}
