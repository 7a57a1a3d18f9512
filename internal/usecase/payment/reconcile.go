package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	appointment "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/events"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/salon-agenda/internal/usecase/payment")

// ======================================================
// OUTPUT
// ======================================================

type ReconcileOutcome string

const (
	OutcomeApplied        ReconcileOutcome = "applied"
	OutcomeAlreadyApplied ReconcileOutcome = "already_applied"
)

type ReconcileResult struct {
	Outcome ReconcileOutcome
	Sale    *models.Sale
}

// ======================================================
// USE CASE
// ======================================================

type Reconcile struct {
	repo      domain.SaleRepository
	publisher events.Publisher
	audit     *audit.Dispatcher
	logger    *slog.Logger
	now       func() time.Time
}

func NewReconcile(
	repo domain.SaleRepository,
	publisher events.Publisher,
	logger *slog.Logger,
) *Reconcile {
	return &Reconcile{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithAudit records every applied payment in the location's audit log.
func (uc *Reconcile) WithAudit(d *audit.Dispatcher) *Reconcile {
	uc.audit = d
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

// Execute marks the sale referenced by ch as paid, exactly once. A sale
// that is already paid is left untouched.
func (uc *Reconcile) Execute(
	ctx context.Context,
	ch domain.Charge,
) (ReconcileResult, error) {

	if !ch.IsApproved() {
		return ReconcileResult{}, httperr.Validation("charge_not_approved")
	}
	if ch.MerchantReference == "" {
		return ReconcileResult{}, httperr.Validation("missing_merchant_reference")
	}

	ctx, span := tracer.Start(ctx, "payment.reconcile")
	defer span.End()
	span.SetAttributes(
		attribute.String("sale.id", ch.MerchantReference),
		attribute.String("charge.id", ch.ExternalID),
	)

	var result ReconcileResult

	err := uc.repo.WithinSaleTx(ctx, func(tx domain.SaleTx) error {
		result = ReconcileResult{}

		sale, err := tx.GetSaleForUpdate(ctx, ch.MerchantReference)
		if err != nil {
			return err
		}

		if sale.PaymentStatus == string(appointment.PaymentPaid) {
			result = ReconcileResult{Outcome: OutcomeAlreadyApplied, Sale: sale}
			return nil
		}

		paidAt := uc.now().UTC()
		sale.PaymentStatus = string(appointment.PaymentPaid)
		sale.AmountPaidActual = ch.Amount
		sale.Tip = Tip(ch.Amount, sale.Total)
		sale.ExternalChargeID = ch.ExternalID
		sale.PaidAt = &paidAt

		if err := tx.SaveSale(ctx, sale); err != nil {
			return err
		}

		if sale.AppointmentID != nil {
			if err := tx.MarkAppointmentPaid(ctx, *sale.AppointmentID); err != nil {
				return err
			}
		}

		result = ReconcileResult{Outcome: OutcomeApplied, Sale: sale}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return ReconcileResult{}, err
	}

	span.SetAttributes(attribute.String("reconcile.outcome", string(result.Outcome)))

	if result.Outcome == OutcomeApplied {
		uc.announce(ctx, result.Sale)
	}
	return result, nil
}

// Tip is whatever was paid above the sale total, never negative.
func Tip(paid, total decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, paid.Sub(total))
}

func (uc *Reconcile) announce(ctx context.Context, sale *models.Sale) {
	if sale.AmountPaidActual.LessThan(sale.Total) {
		uc.logger.Warn("sale paid below total",
			"sale_id", sale.ID,
			"total", sale.Total.String(),
			"paid", sale.AmountPaidActual.String(),
		)
	}

	uc.audit.Dispatch(audit.Event{
		LocationID: sale.LocationID,
		Source:     audit.SourceWebhook,
		Action:     "sale_paid",
		Entity:     "sale",
		EntityID:   sale.ID,
		Metadata: map[string]string{
			"external_charge_id": sale.ExternalChargeID,
			"amount_paid":        sale.AmountPaidActual.StringFixed(2),
			"tip":                sale.Tip.StringFixed(2),
		},
	})

	ev := events.SalePaid{
		SaleID:           sale.ID,
		ExternalChargeID: sale.ExternalChargeID,
		AmountPaid:       sale.AmountPaidActual.StringFixed(2),
		Tip:              sale.Tip.StringFixed(2),
	}
	if sale.AppointmentID != nil {
		ev.AppointmentID = *sale.AppointmentID
	}
	if err := uc.publisher.PublishJSON(ctx, events.TopicSalePaid, ev); err != nil {
		uc.logger.Error("publish sale.paid failed", "sale_id", sale.ID, "err", err)
	}
}
