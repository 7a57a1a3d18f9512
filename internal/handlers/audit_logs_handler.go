package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/httpresp"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

type auditLogFilter struct {
	Action   string `form:"action"`
	Entity   string `form:"entity"`
	EntityID string `form:"entity_id"`
	Source   string `form:"source"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// List pages through the location's audit trail. from and to are calendar
// days in the location's timezone; both are inclusive.
func (h *AuditLogsHandler) List(c *gin.Context) {
	_, locationID := actor(c)
	ctx := c.Request.Context()

	var f auditLogFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		httperr.BadRequest(c, "invalid_request", "Filtros inválidos.")
		return
	}
	paging := httpresp.ParsePaging(c, 50, 200)

	var location models.Location
	if err := h.db.WithContext(ctx).
		Select("id", "timezone").
		First(&location, locationID).Error; err != nil {

		httperr.Internal(c, "failed_to_load_location", "Erro ao carregar local.")
		return
	}
	tz := location.Timezone

	// --------------------------------------------------
	// Query base (sempre protegido pelo local)
	// --------------------------------------------------

	q := h.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("location_id = ?", locationID)

	for column, value := range map[string]string{
		"action":    f.Action,
		"entity":    f.Entity,
		"entity_id": f.EntityID,
		"source":    f.Source,
	} {
		if value != "" {
			q = q.Where(column+" = ?", value)
		}
	}

	if f.From != "" {
		from, err := schedule.ParseDate(f.From)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inicial inválida.")
			return
		}
		q = q.Where("created_at >= ?", timezone.At(tz, from, 0))
	}

	if f.To != "" {
		to, err := schedule.ParseDate(f.To)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data final inválida.")
			return
		}
		q = q.Where("created_at < ?", timezone.At(tz, to, 24*60))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset()).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, paging, total)
}
