package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modinver/recoverycashback-sub000/internal/ids"
	"github.com/modinver/recoverycashback-sub000/internal/models"
	"github.com/modinver/recoverycashback-sub000/internal/repository"
)

type pageRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

func (h HandlerSet) GetPage(c *gin.Context) {
	page, err := h.pages.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		h.log.Error().Err(err).Msg("get page failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h HandlerSet) ListPages(c *gin.Context) {
	pages, err := h.pages.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list pages failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": pages})
}

func (h HandlerSet) UpsertPage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := models.Page{
		ID:    ids.New(),
		Slug:  c.Param("slug"),
		Title: req.Title,
		Body:  req.Body,
	}
	if err := h.pages.Upsert(c.Request.Context(), page); err != nil {
		h.log.Error().Err(err).Msg("upsert page failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h HandlerSet) DeletePage(c *gin.Context) {
	if err := h.pages.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		h.log.Error().Err(err).Msg("delete page failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("slug")})
}
