// Package mercadopago adapts the Mercado Pago SDK to the payment gateway
// used by reconciliation.
package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/merchantorder"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
)

type Gateway struct {
	payments payment.Client
	orders   merchantorder.Client
}

var _ domain.Gateway = (*Gateway)(nil)

func New(accessToken string) (*Gateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &Gateway{
		payments: payment.NewClient(cfg),
		orders:   merchantorder.NewClient(cfg),
	}, nil
}

func (g *Gateway) GetCharge(ctx context.Context, id string) (*domain.Charge, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, domain.ErrGatewayNotFound
	}

	res, err := g.payments.Get(ctx, n)
	if err != nil {
		return nil, translate(err)
	}

	return &domain.Charge{
		ExternalID:        strconv.Itoa(res.ID),
		Status:            domain.ChargeStatus(res.Status),
		Amount:            amount(res.TransactionAmount),
		MerchantReference: res.ExternalReference,
	}, nil
}

func (g *Gateway) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, domain.ErrGatewayNotFound
	}

	res, err := g.orders.Get(ctx, n)
	if err != nil {
		return nil, translate(err)
	}

	order := &domain.Order{
		ID:                strconv.Itoa(res.ID),
		MerchantReference: res.ExternalReference,
		Charges:           make([]domain.Charge, 0, len(res.Payments)),
	}
	for _, p := range res.Payments {
		order.Charges = append(order.Charges, domain.Charge{
			ExternalID: strconv.Itoa(p.ID),
			Status:     domain.ChargeStatus(p.Status),
			Amount:     amount(p.TransactionAmount),
		})
	}
	return order, nil
}

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// translate maps 404 to ErrGatewayNotFound; everything else stays
// retryable.
func translate(err error) error {
	var re *mperror.ResponseError
	if errors.As(err, &re) && re.StatusCode == http.StatusNotFound {
		return domain.ErrGatewayNotFound
	}
	return err
}
