package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	schedule *appointment.ManageSchedule
}

func NewWorkingHoursHandler(schedule *appointment.ManageSchedule) *WorkingHoursHandler {
	return &WorkingHoursHandler{schedule: schedule}
}

type WorkingDayConfig struct {
	Weekday   int                 `json:"weekday" binding:"min=0,max=6"`
	Active    bool                `json:"active"`
	StartTime string              `json:"start_time"`
	EndTime   string              `json:"end_time"`
	Breaks    []models.TimeWindow `json:"breaks"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

type ScheduleOverrideRequest struct {
	Date    string              `json:"date" binding:"required"`
	Closed  bool                `json:"closed"`
	Windows []models.TimeWindow `json:"windows"`
	Breaks  []models.TimeWindow `json:"breaks"`
	Reason  string              `json:"reason"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	professionalID, _ := actor(c)

	hours, err := h.schedule.WorkingHours(c.Request.Context(), professionalID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_working_hours")
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	professionalID, _ := actor(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	days := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, models.WorkingHours{
			Weekday:   d.Weekday,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Breaks:    d.Breaks,
		})
	}

	saved, err := h.schedule.ReplaceWorkingHours(c.Request.Context(), professionalID, days)
	if err != nil {
		httperr.FromError(c, err, "failed_to_save_working_hours")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// ListOverrides returns overrides dated ?from= onward; the default is today
// in the location's timezone.
func (h *WorkingHoursHandler) ListOverrides(c *gin.Context) {
	professionalID, locationID := actor(c)

	list, err := h.schedule.Overrides(c.Request.Context(), locationID, professionalID, c.Query("from"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_overrides")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *WorkingHoursHandler) PutOverride(c *gin.Context) {
	professionalID, _ := actor(c)

	var req ScheduleOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ov, err := h.schedule.SetOverride(c.Request.Context(), professionalID, models.ScheduleOverride{
		Date:    req.Date,
		Closed:  req.Closed,
		Windows: req.Windows,
		Breaks:  req.Breaks,
		Reason:  req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_save_override")
		return
	}

	c.JSON(http.StatusOK, ov)
}
