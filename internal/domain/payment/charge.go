// Package payment holds the gateway-facing side of reconciliation: webhook
// authentication, payload extraction and charge resolution.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type ChargeStatus string

const (
	ChargeApproved ChargeStatus = "approved"
)

// Charge is a single payment attempt as reported by the gateway.
type Charge struct {
	ExternalID        string
	Status            ChargeStatus
	Amount            decimal.Decimal
	MerchantReference string
}

func (c Charge) IsApproved() bool {
	return c.Status == ChargeApproved
}

// Order groups one or more charges under one external id.
type Order struct {
	ID                string
	MerchantReference string
	Charges           []Charge
}

// FirstApproved returns the first approved charge in gateway order. Charges
// without their own merchant reference inherit the order's.
func (o Order) FirstApproved() (Charge, bool) {
	for _, ch := range o.Charges {
		if !ch.IsApproved() {
			continue
		}
		if ch.MerchantReference == "" {
			ch.MerchantReference = o.MerchantReference
		}
		return ch, true
	}
	return Charge{}, false
}

// ErrGatewayNotFound is returned by a Gateway when the id is unknown to it.
var ErrGatewayNotFound = errors.New("payment: not found at gateway")

// Gateway fetches authoritative records from the payment provider.
type Gateway interface {
	GetCharge(ctx context.Context, id string) (*Charge, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
}
