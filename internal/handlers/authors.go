package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modinver/recoverycashback-sub000/internal/ids"
	"github.com/modinver/recoverycashback-sub000/internal/models"
	"github.com/modinver/recoverycashback-sub000/internal/naming"
	"github.com/modinver/recoverycashback-sub000/internal/repository"
)

type authorRequest struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

func (r authorRequest) toModel(id string) models.Author {
	slug := r.Slug
	if slug == "" {
		slug = naming.Slugify(r.Name)
	}
	return models.Author{
		ID:        id,
		Name:      r.Name,
		Slug:      slug,
		Bio:       r.Bio,
		AvatarURL: r.AvatarURL,
	}
}

func (h HandlerSet) ListAuthors(c *gin.Context) {
	authors, err := h.authors.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list authors failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": authors})
}

func (h HandlerSet) GetAuthor(c *gin.Context) {
	author, err := h.authors.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		h.log.Error().Err(err).Msg("get author failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h HandlerSet) CreateAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author := req.toModel(ids.New())
	if err := h.authors.Create(c.Request.Context(), author); err != nil {
		h.log.Error().Err(err).Msg("create author failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h HandlerSet) UpdateAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author := req.toModel(c.Param("id"))
	if err := h.authors.Update(c.Request.Context(), author); err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		h.log.Error().Err(err).Msg("update author failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h HandlerSet) DeleteAuthor(c *gin.Context) {
	if err := h.authors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		h.log.Error().Err(err).Msg("delete author failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
