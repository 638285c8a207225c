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

type cardRequest struct {
	BankID    string `json:"bankId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"imageUrl"`
	Summary   string `json:"summary"`
	AnnualFee int64  `json:"annualFee"`
	Active    *bool  `json:"active"`
}

func (r cardRequest) toModel(id string) models.Card {
	slug := r.Slug
	if slug == "" {
		slug = naming.Slugify(r.Name)
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return models.Card{
		ID:        id,
		BankID:    r.BankID,
		Name:      r.Name,
		Slug:      slug,
		ImageURL:  r.ImageURL,
		Summary:   r.Summary,
		AnnualFee: r.AnnualFee,
		Active:    active,
	}
}

type rateRequest struct {
	Category    string  `json:"category" binding:"required"`
	RatePercent float64 `json:"ratePercent" binding:"required"`
	MonthlyCap  *int64  `json:"monthlyCap"`
}

func (h HandlerSet) ListCards(c *gin.Context) {
	limit, offset := pagination(c)

	cards, err := h.cards.List(c.Request.Context(), c.Query("bankId"), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list cards failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cards})
}

func (h HandlerSet) GetCard(c *gin.Context) {
	card, err := h.cards.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		h.log.Error().Err(err).Msg("get card failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h HandlerSet) CreateCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card := req.toModel(ids.New())
	if err := h.cards.Create(c.Request.Context(), card); err != nil {
		h.log.Error().Err(err).Msg("create card failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h HandlerSet) UpdateCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card := req.toModel(c.Param("id"))
	if err := h.cards.Update(c.Request.Context(), card); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		h.log.Error().Err(err).Msg("update card failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h HandlerSet) DeleteCard(c *gin.Context) {
	if err := h.cards.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		h.log.Error().Err(err).Msg("delete card failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ReplaceCardRates swaps the full cashback rate table for a card.
func (h HandlerSet) ReplaceCardRates(c *gin.Context) {
	var reqs []rateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cardID := c.Param("id")
	rates := make([]models.CashbackRate, 0, len(reqs))
	for _, req := range reqs {
		rates = append(rates, models.CashbackRate{
			CardID:      cardID,
			Category:    req.Category,
			RatePercent: req.RatePercent,
			MonthlyCap:  req.MonthlyCap,
		})
	}

	if err := h.cards.ReplaceRates(c.Request.Context(), cardID, rates); err != nil {
		h.log.Error().Err(err).Str("card_id", cardID).Msg("replace rates failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rates})
}
