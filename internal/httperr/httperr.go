package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

var messages = map[string]string{
	"time_conflict":              "Conflito de horário.",
	"outside_working_hours":      "Fora do horário de atendimento.",
	"too_soon":                   "Horário inválido.",
	"invalid_date":               "Data inválida.",
	"invalid_time_range":         "Horário inválido.",
	"invalid_request":            "Dados inválidos.",
	"invalid_state":              "Mudança de status não permitida.",
	"location_not_found":         "Local não encontrado.",
	"professional_not_found":     "Profissional não encontrado.",
	"service_not_found":          "Serviço não encontrado.",
	"appointment_not_found":      "Agendamento não encontrado.",
	"block_not_found":            "Bloqueio não encontrado.",
	"sale_not_found":             "Venda não encontrada.",
	"invalid_granularity":        "Intervalo entre horários inválido.",
	"invalid_duration":           "Duração inválida.",
	"duplicate_weekday":          "Dia da semana repetido.",
	"invalid_working_hours":      "Horário de atendimento inválido.",
	"invalid_override":           "Exceção de agenda inválida.",
	"charge_not_approved":        "Pagamento não aprovado.",
	"missing_merchant_reference": "Pagamento sem referência de venda.",
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError writes err using the status matching its kind. Errors that are
// not business errors become a 500 with fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode string) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, fallbackCode, "Erro interno.")
		return
	}

	msg, ok := messages[be.Code]
	if !ok {
		msg = be.Code
	}

	switch be.Kind {
	case KindValidation, KindState:
		Write(c, http.StatusBadRequest, be.Code, msg)
	case KindConflict:
		Write(c, http.StatusConflict, be.Code, msg)
	case KindNotFound:
		Write(c, http.StatusNotFound, be.Code, msg)
	case KindUpstream:
		Write(c, http.StatusServiceUnavailable, be.Code, "Serviço temporariamente indisponível.")
	default:
		Internal(c, fallbackCode, "Erro interno.")
	}
}
