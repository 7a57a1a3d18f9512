package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	booking     *appointment.CreateBooking
	status      *appointment.ChangeStatus
	listByDate  *appointment.ListAppointmentsByDate
	createBlock *appointment.CreateBlock
	cancelBlock *appointment.CancelBlock
}

func NewAppointmentHandler(
	booking *appointment.CreateBooking,
	status *appointment.ChangeStatus,
	listByDate *appointment.ListAppointmentsByDate,
	createBlock *appointment.CreateBlock,
	cancelBlock *appointment.CancelBlock,
) *AppointmentHandler {
	return &AppointmentHandler{
		booking:     booking,
		status:      status,
		listByDate:  listByDate,
		createBlock: createBlock,
		cancelBlock: cancelBlock,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time"`
	Notes       string `json:"notes"`
}

type CreateBlockRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	professionalID, locationID := actor(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.booking.Execute(c.Request.Context(), appointment.CreateBookingInput{
		LocationID:     locationID,
		ProfessionalID: professionalID,
		ActorID:        &professionalID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	professionalID, _ := actor(c)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), professionalID, date)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, list)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) { h.changeStatus(c, domain.StatusConfirmed) }
func (h *AppointmentHandler) Attend(c *gin.Context)  { h.changeStatus(c, domain.StatusAttended) }
func (h *AppointmentHandler) NoShow(c *gin.Context)  { h.changeStatus(c, domain.StatusNoShow) }
func (h *AppointmentHandler) Cancel(c *gin.Context)  { h.changeStatus(c, domain.StatusCancelled) }

func (h *AppointmentHandler) changeStatus(c *gin.Context, to domain.Status) {
	professionalID, locationID := actor(c)

	ap, err := h.status.Execute(c.Request.Context(), appointment.ChangeStatusInput{
		LocationID:     locationID,
		ProfessionalID: professionalID,
		AppointmentID:  c.Param("id"),
		To:             to,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// BLOCKS
// ======================================================

func (h *AppointmentHandler) CreateBlock(c *gin.Context) {
	professionalID, locationID := actor(c)

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	b, err := h.createBlock.Execute(c.Request.Context(), appointment.CreateBlockInput{
		LocationID:     locationID,
		ProfessionalID: professionalID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Reason:         req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_block")
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *AppointmentHandler) CancelBlock(c *gin.Context) {
	professionalID, locationID := actor(c)

	b, err := h.cancelBlock.Execute(c.Request.Context(), locationID, professionalID, c.Param("id"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_cancel_block")
		return
	}

	c.JSON(http.StatusOK, b)
}
