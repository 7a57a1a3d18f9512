package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

// ErrUnresolvable means neither a charge nor an order with an approved
// charge exists for the id.
var ErrUnresolvable = errors.New("payment: no resolvable charge")

type Resolver struct {
	gateway  Gateway
	logger   *slog.Logger
	maxTries uint
	backoff  func() backoff.BackOff
}

func NewResolver(gateway Gateway, logger *slog.Logger) *Resolver {
	return &Resolver{
		gateway:  gateway,
		logger:   logger,
		maxTries: 3,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// WithRetry overrides the retry policy for gateway calls.
func (r *Resolver) WithRetry(maxTries uint, b func() backoff.BackOff) *Resolver {
	r.maxTries = maxTries
	r.backoff = b
	return r
}

// Resolve looks the id up as a charge first and then as an order, because
// the gateway may report either. It returns ErrUnresolvable when neither
// yields an approved charge, and an upstream error when the gateway kept
// failing.
func (r *Resolver) Resolve(ctx context.Context, id string) (*Charge, error) {
	ch, err := call(ctx, r, func() (*Charge, error) { return r.gateway.GetCharge(ctx, id) })
	if err == nil {
		return ch, nil
	}
	if !errors.Is(err, ErrGatewayNotFound) {
		return nil, httperr.Upstream("gateway_unavailable", err)
	}

	order, err := call(ctx, r, func() (*Order, error) { return r.gateway.GetOrder(ctx, id) })
	if err != nil {
		if errors.Is(err, ErrGatewayNotFound) {
			return nil, ErrUnresolvable
		}
		return nil, httperr.Upstream("gateway_unavailable", err)
	}

	approved, ok := order.FirstApproved()
	if !ok {
		r.logger.Info("order has no approved charge",
			"order_id", order.ID,
			"charges", len(order.Charges),
		)
		return nil, ErrUnresolvable
	}
	return &approved, nil
}

// call retries fn on transient failures; not-found is final.
func call[T any](ctx context.Context, r *Resolver, fn func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := fn()
		if err != nil && errors.Is(err, ErrGatewayNotFound) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(r.backoff()), backoff.WithMaxTries(r.maxTries))
}
