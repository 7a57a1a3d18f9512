package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/config"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	payDomain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/handlers"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/events"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-agenda/internal/usecase/appointment"
	ucPayment "github.com/BruksfildServices01/salon-agenda/internal/usecase/payment"
)

// AppointmentStore is the appointment repository plus schedule management.
type AppointmentStore interface {
	domain.Repository
	domain.ScheduleRepository
}

// Deps are the singletons built by main. DB backs the catalog, location
// and audit-log screens; RateLimiter and Archiver may be nil.
type Deps struct {
	Config       *config.Config
	Logger       *slog.Logger
	DB           *gorm.DB
	Appointments AppointmentStore
	Sales        payDomain.SaleRepository
	Audit        *audit.Dispatcher
	Publisher    events.Publisher
	Resolver     ucPayment.ChargeResolver
	Archiver     ucPayment.Archiver
	RateLimiter  middleware.Counter
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(d.Appointments)

	bookingUC := ucAppointment.NewCreateBooking(
		d.Appointments,
		d.Audit,
		d.Publisher,
		d.Logger,
	)

	changeStatusUC := ucAppointment.NewChangeStatus(
		d.Appointments,
		d.Audit,
		d.Publisher,
		d.Logger,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(d.Appointments)
	createBlockUC := ucAppointment.NewCreateBlock(d.Appointments, d.Audit, d.Logger)
	cancelBlockUC := ucAppointment.NewCancelBlock(d.Appointments, d.Audit)
	scheduleUC := ucAppointment.NewManageSchedule(d.Appointments)

	// ======================================================
	// 💳 USE CASES: PAYMENTS
	// ======================================================
	reconcileUC := ucPayment.NewReconcile(d.Sales, d.Publisher, d.Logger).WithAudit(d.Audit)

	webhookUC := ucPayment.NewHandleWebhook(
		d.Config.MPWebhookSecret,
		d.Resolver,
		reconcileUC,
		d.Archiver,
		d.Logger,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(d.Appointments, availabilityUC, bookingUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookingUC,
		changeStatusUC,
		listAppointmentsByDateUC,
		createBlockUC,
		cancelBlockUC,
	)

	workingHoursHandler := handlers.NewWorkingHoursHandler(scheduleUC)
	webhookHandler := handlers.NewWebhookHandler(webhookUC)

	locationHandler := handlers.NewLocationHandler(d.DB)
	serviceHandler := handlers.NewServiceHandler(d.DB)
	clientHandler := handlers.NewClientHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		if d.RateLimiter != nil {
			publicAPI.Use(middleware.RateLimit(
				d.RateLimiter,
				d.Config.RateLimitPerMin,
				time.Minute,
				"rl:public",
				d.Logger,
			))
		}
		{
			publicAPI.GET("/:slug/services", serviceHandler.ListPublic)
			publicAPI.GET("/:slug/professionals/:id/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 💳 WEBHOOKS
		// ------------------------------
		api.POST("/webhooks/mercadopago", webhookHandler.MercadoPago)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			secured.GET("/location", locationHandler.GetMeLocation)
			secured.PATCH("/location", locationHandler.UpdateMeLocation)

			secured.GET("/clients", clientHandler.List)
			secured.GET("/clients/:id/appointments", clientHandler.History)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/working-hours", workingHoursHandler.Get)
			secured.PUT("/working-hours", workingHoursHandler.Update)
			secured.GET("/schedule-overrides", workingHoursHandler.ListOverrides)
			secured.PUT("/schedule-overrides", workingHoursHandler.PutOverride)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/attend", appointmentHandler.Attend)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.POST("/blocks", appointmentHandler.CreateBlock)
			secured.DELETE("/blocks/:id", appointmentHandler.CancelBlock)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
