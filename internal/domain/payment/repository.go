package payment

import (
	"context"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// SaleRepository gives reconciliation a transactional view of sales.
type SaleRepository interface {
	// WithinSaleTx runs fn in one transaction; serialization failures are
	// retried a bounded number of times.
	WithinSaleTx(
		ctx context.Context,
		fn func(tx SaleTx) error,
	) error
}

type SaleTx interface {
	// GetSaleForUpdate locks the sale row until the transaction ends.
	GetSaleForUpdate(
		ctx context.Context,
		saleID string,
	) (*models.Sale, error)

	SaveSale(
		ctx context.Context,
		sale *models.Sale,
	) error

	MarkAppointmentPaid(
		ctx context.Context,
		appointmentID string,
	) error
}
