package payment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type WebhookInput struct {
	Query     url.Values
	Body      []byte
	Signature string
	RequestID string
}

type WebhookStatus string

const (
	WebhookTest           WebhookStatus = "test"
	WebhookApplied        WebhookStatus = "applied"
	WebhookAlreadyApplied WebhookStatus = "already_applied"
	WebhookIgnored        WebhookStatus = "ignored"
	WebhookUnresolvable   WebhookStatus = "unresolvable"
	WebhookFailed         WebhookStatus = "failed"
)

type WebhookResult struct {
	Status       WebhookStatus       `json:"status"`
	HTTPStatus   int                 `json:"-"`
	Authenticity domain.Authenticity `json:"-"`
	ChargeID     string              `json:"charge_id,omitempty"`
	SaleID       string              `json:"sale_id,omitempty"`
}

// ======================================================
// DEPENDENCIES
// ======================================================

type ChargeResolver interface {
	Resolve(ctx context.Context, id string) (*domain.Charge, error)
}

// Archiver keeps a copy of raw deliveries.
type Archiver interface {
	Archive(ctx context.Context, requestID string, payload []byte) error
}

// ======================================================
// USE CASE
// ======================================================

type HandleWebhook struct {
	secret    string
	resolver  ChargeResolver
	reconcile *Reconcile
	archiver  Archiver
	logger    *slog.Logger
}

func NewHandleWebhook(
	secret string,
	resolver ChargeResolver,
	reconcile *Reconcile,
	archiver Archiver,
	logger *slog.Logger,
) *HandleWebhook {
	return &HandleWebhook{
		secret:    secret,
		resolver:  resolver,
		reconcile: reconcile,
		archiver:  archiver,
		logger:    logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute never returns an error: every delivery ends in a terminal status
// and the gateway only sees 200, or 403 when the id resolves to nothing and
// the signature could not be verified.
func (uc *HandleWebhook) Execute(ctx context.Context, in WebhookInput) WebhookResult {
	n := domain.ParseNotification(in.Query, in.Body)
	n.Signature = in.Signature
	n.RequestID = in.RequestID

	log := uc.logger.With(
		"topic", string(n.Topic),
		"notification_id", n.ID,
		"request_id", n.RequestID,
	)

	// --------------------------------------------------
	// 1️⃣ Self-test do gateway
	// --------------------------------------------------
	if n.IsTest() {
		return WebhookResult{Status: WebhookTest, HTTPStatus: http.StatusOK}
	}

	if n.ID == "" || !n.Topic.Supported() {
		log.Info("webhook ignored")
		return WebhookResult{Status: WebhookIgnored, HTTPStatus: http.StatusOK}
	}

	uc.archive(ctx, log, n.RequestID, in.Body)

	// --------------------------------------------------
	// 2️⃣ Assinatura
	// --------------------------------------------------
	auth := domain.VerifySignature(uc.secret, n.ID, n.RequestID, n.Signature)
	log = log.With("authenticity", auth.String())

	result := WebhookResult{Authenticity: auth, HTTPStatus: http.StatusOK}

	// --------------------------------------------------
	// 3️⃣ Consulta autoritativa no gateway
	// --------------------------------------------------
	ch, err := uc.resolver.Resolve(ctx, n.ID)
	switch {
	case errors.Is(err, domain.ErrUnresolvable):
		result.Status = WebhookUnresolvable
		if auth != domain.AuthenticityVerified {
			log.Warn("unresolvable notification with unverified signature")
			result.HTTPStatus = http.StatusForbidden
			return result
		}
		log.Info("notification resolves to no approved charge")
		return result
	case err != nil:
		log.Error("gateway lookup failed", "err", err)
		result.Status = WebhookFailed
		return result
	}

	result.ChargeID = ch.ExternalID
	result.SaleID = ch.MerchantReference

	if auth == domain.AuthenticitySuspect {
		log.Warn("signature mismatch, trusting gateway record", "charge_id", ch.ExternalID)
	}

	if !ch.IsApproved() {
		log.Info("charge not approved", "charge_id", ch.ExternalID, "charge_status", string(ch.Status))
		result.Status = WebhookIgnored
		return result
	}

	// --------------------------------------------------
	// 4️⃣ Conciliação
	// --------------------------------------------------
	rec, err := uc.reconcile.Execute(ctx, *ch)
	switch {
	case err == nil:
	case httperr.IsValidation(err), httperr.IsNotFound(err):
		log.Warn("charge does not match a sale", "charge_id", ch.ExternalID, "err", err)
		result.Status = WebhookIgnored
		return result
	default:
		log.Error("reconciliation failed", "charge_id", ch.ExternalID, "err", err)
		result.Status = WebhookFailed
		return result
	}

	if rec.Outcome == OutcomeAlreadyApplied {
		result.Status = WebhookAlreadyApplied
	} else {
		result.Status = WebhookApplied
	}
	log.Info("webhook processed", "status", string(result.Status), "sale_id", result.SaleID)
	return result
}

func (uc *HandleWebhook) archive(ctx context.Context, log *slog.Logger, requestID string, body []byte) {
	if uc.archiver == nil || len(body) == 0 {
		return
	}
	if err := uc.archiver.Archive(ctx, requestID, body); err != nil {
		log.Warn("webhook archive failed", "err", err)
	}
}
