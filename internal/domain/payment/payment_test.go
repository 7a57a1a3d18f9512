package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

const secret = "s3cr3t"

func TestVerifySignature(t *testing.T) {
	v1 := Sign(secret, "987", "req-1", "1700000000")
	header := "ts=1700000000,v1=" + v1

	if got := VerifySignature(secret, "987", "req-1", header); got != AuthenticityVerified {
		t.Fatalf("expected verified, got %s", got)
	}
	if got := VerifySignature(secret, "988", "req-1", header); got != AuthenticitySuspect {
		t.Fatalf("other id must be suspect, got %s", got)
	}
	if got := VerifySignature(secret, "987", "req-2", header); got != AuthenticitySuspect {
		t.Fatalf("other request id must be suspect, got %s", got)
	}
	if got := VerifySignature("other", "987", "req-1", header); got != AuthenticitySuspect {
		t.Fatalf("other secret must be suspect, got %s", got)
	}
}

func TestVerifySignature_MissingOrMalformedIsUnknown(t *testing.T) {
	for _, header := range []string{
		"",
		"ts=1700000000",
		"v1=abcd",
		"ts=1700000000,v1=not-hex",
		"garbage",
	} {
		if got := VerifySignature(secret, "987", "req-1", header); got != AuthenticityUnknown {
			t.Fatalf("header %q: expected unknown, got %s", header, got)
		}
	}
	v1 := Sign(secret, "987", "req-1", "1")
	if got := VerifySignature("", "987", "req-1", "ts=1,v1="+v1); got != AuthenticityUnknown {
		t.Fatalf("no secret configured must be unknown, got %s", got)
	}
}

func TestManifest(t *testing.T) {
	if got := Manifest("42", "rid", "99"); got != "id:42;request-id:rid;ts:99;" {
		t.Fatalf("unexpected manifest %q", got)
	}
}

func TestParseSignatureHeader_ToleratesSpacesAndOrder(t *testing.T) {
	sig, ok := ParseSignatureHeader(" v1=ABCDEF , ts=12 ")
	if !ok || sig.Timestamp != "12" || sig.V1 != "ABCDEF" {
		t.Fatalf("unexpected %+v %v", sig, ok)
	}
}

func TestParseNotification_Priority(t *testing.T) {
	body := []byte(`{"type":"merchant_order","id":1,"data":{"id":"2"}}`)

	q := url.Values{"type": {"payment"}, "data.id": {"10"}, "id": {"11"}}
	n := ParseNotification(q, body)
	if n.Topic != TopicPayment || n.ID != "10" {
		t.Fatalf("query must win, got %+v", n)
	}

	n = ParseNotification(url.Values{"id": {"11"}}, body)
	if n.ID != "11" || n.Topic != TopicMerchantOrder {
		t.Fatalf("expected query id and body topic, got %+v", n)
	}

	n = ParseNotification(url.Values{}, body)
	if n.ID != "2" {
		t.Fatalf("body data.id before body id, got %+v", n)
	}

	n = ParseNotification(url.Values{}, []byte(`{"action":"payment.created","id":77}`))
	if n.ID != "77" || n.Topic != TopicPayment {
		t.Fatalf("numeric body id and action topic, got %+v", n)
	}

	n = ParseNotification(url.Values{}, []byte("not json"))
	if n.ID != "" || n.Topic != "" {
		t.Fatalf("garbage body must yield nothing, got %+v", n)
	}
}

type fakeGateway struct {
	charges     map[string]Charge
	orders      map[string]Order
	failures    int
	chargeCalls int
	orderCalls  int
}

func (g *fakeGateway) GetCharge(_ context.Context, id string) (*Charge, error) {
	g.chargeCalls++
	if g.failures > 0 {
		g.failures--
		return nil, errors.New("gateway timeout")
	}
	ch, ok := g.charges[id]
	if !ok {
		return nil, ErrGatewayNotFound
	}
	return &ch, nil
}

func (g *fakeGateway) GetOrder(_ context.Context, id string) (*Order, error) {
	g.orderCalls++
	o, ok := g.orders[id]
	if !ok {
		return nil, ErrGatewayNotFound
	}
	return &o, nil
}

func newTestResolver(g Gateway) *Resolver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResolver(g, logger).WithRetry(3, func() backoff.BackOff { return &backoff.ZeroBackOff{} })
}

func TestResolve_DirectCharge(t *testing.T) {
	g := &fakeGateway{charges: map[string]Charge{
		"55": {ExternalID: "55", Status: ChargeApproved, Amount: decimal.NewFromInt(100), MerchantReference: "sale-1"},
	}}
	ch, err := newTestResolver(g).Resolve(context.Background(), "55")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ch.MerchantReference != "sale-1" || g.orderCalls != 0 {
		t.Fatalf("unexpected %+v, order calls %d", ch, g.orderCalls)
	}
}

func TestResolve_FallsBackToOrder(t *testing.T) {
	g := &fakeGateway{orders: map[string]Order{
		"900": {
			ID:                "900",
			MerchantReference: "sale-9",
			Charges: []Charge{
				{ExternalID: "1", Status: "rejected", Amount: decimal.NewFromInt(10)},
				{ExternalID: "2", Status: ChargeApproved, Amount: decimal.NewFromInt(550)},
				{ExternalID: "3", Status: ChargeApproved, Amount: decimal.NewFromInt(1)},
			},
		},
	}}
	ch, err := newTestResolver(g).Resolve(context.Background(), "900")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ch.ExternalID != "2" || !ch.Amount.Equal(decimal.NewFromInt(550)) || ch.MerchantReference != "sale-9" {
		t.Fatalf("expected first approved charge with inherited reference, got %+v", ch)
	}
}

func TestResolve_Unresolvable(t *testing.T) {
	g := &fakeGateway{orders: map[string]Order{
		"901": {ID: "901", Charges: []Charge{{ExternalID: "1", Status: "pending"}}},
	}}
	r := newTestResolver(g)
	if _, err := r.Resolve(context.Background(), "901"); !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("order without approved charge: expected ErrUnresolvable, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "nope"); !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("unknown id: expected ErrUnresolvable, got %v", err)
	}
	if g.chargeCalls != 2 {
		t.Fatalf("not found must not be retried, got %d charge calls", g.chargeCalls)
	}
}

func TestResolve_RetriesTransientFailures(t *testing.T) {
	g := &fakeGateway{
		failures: 2,
		charges:  map[string]Charge{"55": {ExternalID: "55", Status: ChargeApproved}},
	}
	if _, err := newTestResolver(g).Resolve(context.Background(), "55"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if g.chargeCalls != 3 {
		t.Fatalf("expected 3 calls, got %d", g.chargeCalls)
	}

	g = &fakeGateway{failures: 10}
	_, err := newTestResolver(g).Resolve(context.Background(), "55")
	if !httperr.IsKind(err, httperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
