package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/httpresp"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// ServiceHandler manages the catalog whose durations drive availability.
type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string          `json:"name" binding:"required"`
	DurationMin int             `json:"duration_min" binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name,omitempty"`
	DurationMin *int             `json:"duration_min,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	_, locationID := actor(c)

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("location_id = ?", locationID)

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+query+"%")
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

// ListPublic lists the active services of the location named by :slug.
func (h *ServiceHandler) ListPublic(c *gin.Context) {
	ctx := c.Request.Context()

	var loc models.Location
	if err := h.db.WithContext(ctx).Where("slug = ?", c.Param("slug")).First(&loc).Error; err != nil {
		httperr.NotFoundResponse(c, "location_not_found", "Local não encontrado.")
		return
	}

	var services []models.Service
	if err := h.db.WithContext(ctx).
		Where("location_id = ? AND active = true", loc.ID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	_, locationID := actor(c)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Preço inválido.")
		return
	}

	svc := models.Service{
		LocationID:  locationID,
		Name:        strings.TrimSpace(req.Name),
		DurationMin: req.DurationMin,
		Price:       req.Price.Round(2),
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	_, locationID := actor(c)
	ctx := c.Request.Context()

	var svc models.Service
	if err := h.db.WithContext(ctx).
		Where("id = ? AND location_id = ?", c.Param("id"), locationID).
		First(&svc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFoundResponse(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
			return
		}
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Preço inválido.")
			return
		}
		svc.Price = req.Price.Round(2)
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(ctx).Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	c.JSON(http.StatusOK, svc)
}
