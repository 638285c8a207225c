package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modinver/recoverycashback-sub000/internal/media/transcode"
	"github.com/modinver/recoverycashback-sub000/internal/metrics"
	"github.com/modinver/recoverycashback-sub000/internal/service"
	"github.com/modinver/recoverycashback-sub000/internal/storage"
)

type uploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Backend  string `json:"backend"`
}

// Upload accepts one multipart "file" field, runs the optimization
// pipeline and returns the public URL of the stored artifact. Error bodies
// stay generic: internals are logged, never returned.
func (h HandlerSet) Upload(c *gin.Context) {
	start := time.Now()

	sizeCap := h.cfg.Upload.SizeCapBytes
	if c.Request.ContentLength > sizeCap {
		metrics.ObserveUpload("too_large", time.Since(start), 0)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	// Backstop for chunked bodies with no declared length.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sizeCap)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.ObserveUpload("too_large", time.Since(start), 0)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		metrics.ObserveUpload("no_file", time.Since(start), 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), service.UploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		h.handleUploadError(c, err, start)
		return
	}

	metrics.ObserveUpload("ok", time.Since(start), result.Asset.SizeBytes)
	c.JSON(http.StatusOK, uploadResponse{
		URL:      result.URL,
		FileName: result.Asset.FileName,
		Backend:  result.Asset.Backend,
	})
}

func (h HandlerSet) handleUploadError(c *gin.Context, err error, start time.Time) {
	switch {
	case errors.Is(err, service.ErrNoFile):
		metrics.ObserveUpload("no_file", time.Since(start), 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
	case errors.Is(err, service.ErrNotImage):
		metrics.ObserveUpload("bad_type", time.Since(start), 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image uploads are accepted"})
	case errors.Is(err, service.ErrTooLarge):
		metrics.ObserveUpload("too_large", time.Since(start), 0)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	case errors.Is(err, transcode.ErrTranscode):
		h.log.Error().Err(err).Msg("transcode failed")
		metrics.ObserveUpload("transcode_error", time.Since(start), 0)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image processing failed"})
	case errors.Is(err, storage.ErrWrite):
		h.log.Error().Err(err).Msg("storage write failed")
		metrics.ObserveUpload("storage_error", time.Since(start), 0)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
	default:
		h.log.Error().Err(err).Msg("upload failed")
		metrics.ObserveUpload("error", time.Since(start), 0)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
	}
}
