package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/usecase/payment"
)

// maxWebhookBody caps what is read from a notification body.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	handle *payment.HandleWebhook
}

func NewWebhookHandler(handle *payment.HandleWebhook) *WebhookHandler {
	return &WebhookHandler{handle: handle}
}

// MercadoPago answers every delivery with the status chosen by the use case.
// Bodies over maxWebhookBody are refused with 413; any other read failure
// leaves the body empty, since the query may still carry the id.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "payload_too_large", "Notificação excede o tamanho máximo.")
			return
		}
		body = nil
	}

	res := h.handle.Execute(c.Request.Context(), payment.WebhookInput{
		Query:     c.Request.URL.Query(),
		Body:      body,
		Signature: c.GetHeader("x-signature"),
		RequestID: c.GetHeader("x-request-id"),
	})

	c.JSON(res.HTTPStatus, res)
}
