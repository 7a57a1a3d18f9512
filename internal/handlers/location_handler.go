package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

type LocationHandler struct {
	db *gorm.DB
}

func NewLocationHandler(db *gorm.DB) *LocationHandler {
	return &LocationHandler{db: db}
}

type UpdateLocationConfigRequest struct {
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
	Timezone          *string `json:"timezone"`
}

func (h *LocationHandler) load(c *gin.Context) (*models.Location, bool) {
	_, locationID := actor(c)

	var loc models.Location
	if err := h.db.WithContext(c.Request.Context()).First(&loc, locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFoundResponse(c, "location_not_found", "Local não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_location", "Erro ao buscar dados do local.")
		return nil, false
	}
	return &loc, true
}

func (h *LocationHandler) GetMeLocation(c *gin.Context) {
	loc, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *LocationHandler) UpdateMeLocation(c *gin.Context) {
	loc, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateLocationConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		loc.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		loc.Timezone = *req.Timezone
	}

	if err := h.db.WithContext(c.Request.Context()).Save(loc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_location", "Erro ao salvar as configurações do local.")
		return
	}

	c.JSON(http.StatusOK, loc)
}
