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

type bankRequest struct {
	Name    string `json:"name" binding:"required"`
	Slug    string `json:"slug"`
	LogoURL string `json:"logoUrl"`
	Website string `json:"website"`
}

func (r bankRequest) toModel(id string) models.Bank {
	slug := r.Slug
	if slug == "" {
		slug = naming.Slugify(r.Name)
	}
	return models.Bank{
		ID:      id,
		Name:    r.Name,
		Slug:    slug,
		LogoURL: r.LogoURL,
		Website: r.Website,
	}
}

func (h HandlerSet) ListBanks(c *gin.Context) {
	banks, err := h.banks.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list banks failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": banks})
}

func (h HandlerSet) GetBank(c *gin.Context) {
	bank, err := h.banks.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrBankNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bank not found"})
			return
		}
		h.log.Error().Err(err).Msg("get bank failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, bank)
}

func (h HandlerSet) CreateBank(c *gin.Context) {
	var req bankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bank := req.toModel(ids.New())
	if err := h.banks.Create(c.Request.Context(), bank); err != nil {
		h.log.Error().Err(err).Msg("create bank failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, bank)
}

func (h HandlerSet) UpdateBank(c *gin.Context) {
	var req bankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bank := req.toModel(c.Param("id"))
	if err := h.banks.Update(c.Request.Context(), bank); err != nil {
		if errors.Is(err, repository.ErrBankNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bank not found"})
			return
		}
		h.log.Error().Err(err).Msg("update bank failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, bank)
}

func (h HandlerSet) DeleteBank(c *gin.Context) {
	if err := h.banks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrBankNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bank not found"})
			return
		}
		h.log.Error().Err(err).Msg("delete bank failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
