package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	repo         domain.Repository
	availability *appointment.GetAvailability
	booking      *appointment.CreateBooking
}

func NewPublicHandler(
	repo domain.Repository,
	availability *appointment.GetAvailability,
	booking *appointment.CreateBooking,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		booking:      booking,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	ClientEmail    string `json:"client_email"`
	Date           string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime      string `json:"start_time" binding:"required"` // HH:mm
	EndTime        string `json:"end_time"`
	Notes          string `json:"notes"`
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	ctx := c.Request.Context()

	loc, err := h.repo.GetLocationBySlug(ctx, c.Param("slug"))
	if err != nil {
		httperr.FromError(c, err, "availability_failed")
		return
	}

	professionalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}
	date, err := schedule.ParseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	granularity, ok1 := optionalInt(c, "granularity")
	duration, ok2 := optionalInt(c, "duration")
	serviceID, ok3 := optionalInt(c, "service_id")
	if !ok1 || !ok2 || !ok3 || serviceID < 0 {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	slots, err := h.availability.Execute(ctx, domain.AvailabilityInput{
		LocationID:     loc.ID,
		ProfessionalID: uint(professionalID),
		ServiceID:      uint(serviceID),
		Date:           date,
		Granularity:    granularity,
		Duration:       duration,
	})
	if err != nil {
		httperr.FromError(c, err, "availability_failed")
		return
	}
	if slots == nil {
		slots = []domain.TimeSlot{}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            date.String(),
		"professional_id": professionalID,
		"slots":           slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	ctx := c.Request.Context()

	loc, err := h.repo.GetLocationBySlug(ctx, c.Param("slug"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.booking.Execute(ctx, appointment.CreateBookingInput{
		LocationID:     loc.ID,
		ProfessionalID: req.ProfessionalID,
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
