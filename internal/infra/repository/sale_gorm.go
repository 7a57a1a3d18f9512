package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appointment "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type SaleGormRepository struct {
	db       *gorm.DB
	maxTries uint
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db, maxTries: defaultTxTries}
}

func (r *SaleGormRepository) WithinSaleTx(
	ctx context.Context,
	fn func(tx domain.SaleTx) error,
) error {
	return runSerializable(ctx, r.db, r.maxTries, func(tx *gorm.DB) error {
		return fn(&saleTx{db: tx})
	})
}

type saleTx struct {
	db *gorm.DB
}

func (t *saleTx) GetSaleForUpdate(
	ctx context.Context,
	saleID string,
) (*models.Sale, error) {

	var sale models.Sale
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", saleID).
		First(&sale).Error; err != nil {
		return nil, notFound(err, "sale_not_found")
	}
	return &sale, nil
}

func (t *saleTx) SaveSale(
	ctx context.Context,
	sale *models.Sale,
) error {
	return t.db.WithContext(ctx).Save(sale).Error
}

func (t *saleTx) MarkAppointmentPaid(
	ctx context.Context,
	appointmentID string,
) error {
	res := t.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("payment_status", string(appointment.PaymentPaid))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("appointment_not_found")
	}
	return nil
}

// Compile-time check
var _ domain.SaleRepository = (*SaleGormRepository)(nil)
