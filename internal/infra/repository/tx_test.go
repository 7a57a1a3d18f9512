package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

func TestNotFound(t *testing.T) {
	err := notFound(fmt.Errorf("query: %w", gorm.ErrRecordNotFound), "sale_not_found")
	if !httperr.IsBusiness(err, "sale_not_found") || !httperr.IsNotFound(err) {
		t.Fatalf("expected sale_not_found, got %v", err)
	}

	other := errors.New("connection reset")
	if got := notFound(other, "sale_not_found"); got != other {
		t.Fatalf("other errors must pass through, got %v", got)
	}
}

func retryWithCount(maxTries uint, results ...error) (int, error) {
	calls := 0
	err := retryTx(context.Background(), maxTries, &backoff.ZeroBackOff{}, func() error {
		calls++
		if calls <= len(results) {
			return results[calls-1]
		}
		return nil
	})
	return calls, err
}

func TestRetryTx_RetriesSerializationFailures(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}
	deadlock := &pgconn.PgError{Code: "40P01"}

	calls, err := retryWithCount(defaultTxTries, serialization, deadlock)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryTx_ExhaustionIsStoreBusy(t *testing.T) {
	busy := make([]error, 10)
	for i := range busy {
		busy[i] = fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})
	}

	calls, err := retryWithCount(defaultTxTries, busy...)
	if calls != defaultTxTries {
		t.Fatalf("expected %d attempts, got %d", defaultTxTries, calls)
	}
	if !httperr.IsBusiness(err, "store_busy") || !httperr.IsKind(err, httperr.KindUpstream) {
		t.Fatalf("expected upstream store_busy, got %v", err)
	}
}

func TestRetryTx_ConflictsAreNotRetried(t *testing.T) {
	calls, err := retryWithCount(defaultTxTries, httperr.Conflict("time_conflict"))
	if calls != 1 || !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("conflict: calls=%d err=%v", calls, err)
	}

	unique := &pgconn.PgError{Code: "23505"}
	calls, err = retryWithCount(defaultTxTries, unique)
	if calls != 1 || !httperr.IsExclusionConflict(err) {
		t.Fatalf("unique violation: calls=%d err=%v", calls, err)
	}
}
