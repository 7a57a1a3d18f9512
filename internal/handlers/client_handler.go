package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/dto"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/httpresp"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ======================================================
// LIST CLIENTS
// ======================================================

// List pages through the clients created by bookings at the caller's
// location, newest first. ?query matches name, phone or email.
func (h *ClientHandler) List(c *gin.Context) {
	_, locationID := actor(c)
	paging := httpresp.ParsePaging(c, 50, 200)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Where("location_id = ?", locationID)

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset()).
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.Page(c, clients, paging, total)
}

// ======================================================
// CLIENT HISTORY
// ======================================================

// History lists every appointment of one client at the caller's location,
// most recent first, across professionals.
func (h *ClientHandler) History(c *gin.Context) {
	_, locationID := actor(c)

	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || clientID == 0 {
		httperr.BadRequest(c, "invalid_client_id", "ID de cliente inválido.")
		return
	}

	ctx := c.Request.Context()

	var client models.Client
	err = h.db.WithContext(ctx).
		Where("id = ? AND location_id = ?", clientID, locationID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFoundResponse(c, "client_not_found", "Cliente não encontrado.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_load_client", "Erro ao carregar cliente.")
		return
	}

	var appointments []models.Appointment
	if err := h.db.WithContext(ctx).
		Where("location_id = ? AND client_id = ?", locationID, client.ID).
		Order("date DESC, start_minute DESC").
		Limit(200).
		Find(&appointments).Error; err != nil {

		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		ap.Client = client
		out = append(out, dto.FromAppointment(ap))
	}

	httpresp.List(c, out)
}
