package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modinver/recoverycashback-sub000/internal/jobs"
	"github.com/modinver/recoverycashback-sub000/internal/repository"
)

type assetResponse struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	URL          string    `json:"url"`
	Backend      string    `json:"backend"`
	ContentType  string    `json:"contentType"`
	SourceFormat string    `json:"sourceFormat"`
	SizeBytes    int64     `json:"sizeBytes"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (h HandlerSet) AdminListAssets(c *gin.Context) {
	limit, offset := pagination(c)

	assets, err := h.assets.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list assets failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	items := make([]assetResponse, 0, len(assets))
	for _, asset := range assets {
		items = append(items, assetResponse{
			ID:           asset.ID,
			FileName:     asset.FileName,
			URL:          h.store.PublicURL(asset.Key),
			Backend:      asset.Backend,
			ContentType:  asset.ContentType,
			SourceFormat: asset.SourceFormat,
			SizeBytes:    asset.SizeBytes,
			Width:        asset.Width,
			Height:       asset.Height,
			CreatedAt:    asset.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AdminDeleteAsset soft-deletes the record and hands the blob removal to
// the worker via the maintenance stream.
func (h HandlerSet) AdminDeleteAsset(c *gin.Context) {
	asset, err := h.assets.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		h.log.Error().Err(err).Str("asset_id", c.Param("id")).Msg("delete asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	if err := jobs.EnqueueRemoval(c.Request.Context(), h.cache, h.cfg.Jobs.Stream, asset); err != nil {
		// The nightly purge sweep will pick the blob up anyway.
		h.log.Warn().Err(err).Str("asset_id", asset.ID).Msg("enqueue removal failed")
	}

	c.JSON(http.StatusOK, gin.H{"deleted": asset.ID})
}
