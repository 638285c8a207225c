package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modinver/recoverycashback-sub000/internal/ids"
	"github.com/modinver/recoverycashback-sub000/internal/models"
	"github.com/modinver/recoverycashback-sub000/internal/naming"
	"github.com/modinver/recoverycashback-sub000/internal/repository"
)

type articleRequest struct {
	AuthorID    string     `json:"authorId" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"coverUrl"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (r articleRequest) toModel(id string) models.Article {
	slug := r.Slug
	if slug == "" {
		slug = naming.Slugify(r.Title)
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Article{
		ID:          id,
		AuthorID:    r.AuthorID,
		Title:       r.Title,
		Slug:        slug,
		Excerpt:     r.Excerpt,
		Body:        r.Body,
		CoverURL:    r.CoverURL,
		Tags:        tags,
		PublishedAt: r.PublishedAt,
	}
}

func (h HandlerSet) ListArticles(c *gin.Context) {
	limit, offset := pagination(c)

	articles, err := h.articles.List(c.Request.Context(), c.Query("tag"), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list articles failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": articles})
}

func (h HandlerSet) GetArticle(c *gin.Context) {
	article, err := h.articles.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.log.Error().Err(err).Msg("get article failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h HandlerSet) CreateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article := req.toModel(ids.New())
	if err := h.articles.Create(c.Request.Context(), article); err != nil {
		h.log.Error().Err(err).Msg("create article failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, article)
}

func (h HandlerSet) UpdateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article := req.toModel(c.Param("id"))
	if err := h.articles.Update(c.Request.Context(), article); err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.log.Error().Err(err).Msg("update article failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h HandlerSet) DeleteArticle(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.log.Error().Err(err).Msg("delete article failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
