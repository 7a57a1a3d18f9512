package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

const defaultTxTries = 5

func txBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return b
}

// runSerializable runs fn in a serializable transaction, re-running it
// when the store aborts with a serialization failure or deadlock. Any other
// error from fn is returned as is, without retry.
func runSerializable(
	ctx context.Context,
	db *gorm.DB,
	maxTries uint,
	fn func(tx *gorm.DB) error,
) error {
	return retryTx(ctx, maxTries, txBackOff(), func() error {
		return db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

// retryTx calls attempt until it succeeds, fails with a non-retryable
// error, or maxTries is reached. Exhaustion surfaces as store_busy.
func retryTx(
	ctx context.Context,
	maxTries uint,
	b backoff.BackOff,
	attempt func() error,
) error {

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := attempt()
		switch {
		case err == nil:
			return struct{}{}, nil
		case httperr.IsRetryableTx(err):
			return struct{}{}, err
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	}, backoff.WithBackOff(b), backoff.WithMaxTries(maxTries))

	if err != nil && httperr.IsRetryableTx(err) {
		return httperr.Upstream("store_busy", err)
	}
	return err
}

// notFound translates gorm's missing-row error into a business error.
func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(code)
	}
	return err
}
