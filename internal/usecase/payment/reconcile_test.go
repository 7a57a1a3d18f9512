package payment

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/events"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pendingSale(id string, total string) models.Sale {
	apID := "ap-" + id
	return models.Sale{ID: id, Total: dec(total), PaymentStatus: "pending", AppointmentID: &apID}
}

func approved(id, ref, amount string) domain.Charge {
	return domain.Charge{ExternalID: id, Status: domain.ChargeApproved, Amount: dec(amount), MerchantReference: ref}
}

func TestReconcile_AppliesOnceWithTip(t *testing.T) {
	repo := newMemorySales(pendingSale("sale-1", "500"))
	pub := &recordingPublisher{}
	uc := NewReconcile(repo, pub, discardLogger())

	res, err := uc.Execute(context.Background(), approved("ch-1", "sale-1", "550"))
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Fatalf("expected applied, got %s", res.Outcome)
	}

	s := repo.sale("sale-1")
	if s.PaymentStatus != "paid" || !s.Tip.Equal(dec("50")) || !s.AmountPaidActual.Equal(dec("550")) {
		t.Fatalf("unexpected sale after first delivery: %+v", s)
	}
	if s.ExternalChargeID != "ch-1" || s.PaidAt == nil {
		t.Fatalf("charge id and paid_at must be set: %+v", s)
	}
	if repo.paidAppts["ap-sale-1"] != 1 {
		t.Fatal("linked appointment must be marked paid in the same transaction")
	}

	res, err = uc.Execute(context.Background(), approved("ch-1", "sale-1", "550"))
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if res.Outcome != OutcomeAlreadyApplied {
		t.Fatalf("expected already_applied, got %s", res.Outcome)
	}
	if repo.saves != 1 || repo.paidAppts["ap-sale-1"] != 1 {
		t.Fatalf("second delivery must not write, saves=%d", repo.saves)
	}
	if after := repo.sale("sale-1"); !after.Tip.Equal(s.Tip) || !after.PaidAt.Equal(*s.PaidAt) {
		t.Fatal("final state must be unchanged by the duplicate")
	}
	if len(pub.topics) != 1 || pub.topics[0] != events.TopicSalePaid {
		t.Fatalf("expected one sale.paid event, got %v", pub.topics)
	}
}

func TestReconcile_ConcurrentDeliveriesApplyOnce(t *testing.T) {
	repo := newMemorySales(pendingSale("sale-2", "100"))
	uc := NewReconcile(repo, events.Noop{}, discardLogger())

	const n = 8
	outcomes := make(chan ReconcileOutcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.Execute(context.Background(), approved("ch-2", "sale-2", "100"))
			if err != nil {
				t.Errorf("Execute: %v", err)
				return
			}
			outcomes <- res.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	applied := 0
	for o := range outcomes {
		if o == OutcomeApplied {
			applied++
		}
	}
	if applied != 1 || repo.saves != 1 {
		t.Fatalf("expected exactly one application, got applied=%d saves=%d", applied, repo.saves)
	}
}

func TestReconcile_UnderpaymentHasNoNegativeTip(t *testing.T) {
	repo := newMemorySales(pendingSale("sale-3", "500"))
	uc := NewReconcile(repo, events.Noop{}, discardLogger())

	if _, err := uc.Execute(context.Background(), approved("ch-3", "sale-3", "480")); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if s := repo.sale("sale-3"); !s.Tip.IsZero() {
		t.Fatalf("tip must be zero, got %s", s.Tip)
	}
}

func TestReconcile_Rejections(t *testing.T) {
	repo := newMemorySales(pendingSale("sale-4", "10"))
	uc := NewReconcile(repo, events.Noop{}, discardLogger())
	ctx := context.Background()

	pending := approved("ch", "sale-4", "10")
	pending.Status = "pending"
	if _, err := uc.Execute(ctx, pending); !httperr.IsBusiness(err, "charge_not_approved") {
		t.Fatalf("expected charge_not_approved, got %v", err)
	}
	if _, err := uc.Execute(ctx, approved("ch", "", "10")); !httperr.IsBusiness(err, "missing_merchant_reference") {
		t.Fatalf("expected missing_merchant_reference, got %v", err)
	}
	if _, err := uc.Execute(ctx, approved("ch", "nope", "10")); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.txCount != 1 {
		t.Fatalf("invalid charges must not open a transaction, got %d", repo.txCount)
	}
}

func TestTip(t *testing.T) {
	if got := Tip(dec("550.10"), dec("500")); !got.Equal(dec("50.10")) {
		t.Fatalf("expected 50.10, got %s", got)
	}
	if got := Tip(dec("10"), dec("10")); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

type auditSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *auditSink) Log(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestReconcile_AuditsAppliedPaymentOnly(t *testing.T) {
	sale := pendingSale("sale-9", "80")
	sale.LocationID = 4
	repo := newMemorySales(sale)

	sink := &auditSink{}
	d := audit.NewDispatcher(sink, discardLogger())
	uc := NewReconcile(repo, events.Noop{}, discardLogger()).WithAudit(d)

	for i := 0; i < 2; i++ {
		if _, err := uc.Execute(context.Background(), approved("ch-9", "sale-9", "80")); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected one audit event, got %+v", sink.events)
	}
	ev := sink.events[0]
	if ev.Action != "sale_paid" || ev.Source != audit.SourceWebhook || ev.LocationID != 4 || ev.ActorID != nil {
		t.Fatalf("unexpected audit event %+v", ev)
	}
}
