package relay

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"edge-relay/relay/domain"
)

var errInvalidBody = errors.New("invalid request body")

// RejectCounter recebe o status de cada rejeição (métricas).
type RejectCounter interface {
	IncRejected(status int)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("encode json response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorResponse traduz erros de domínio para status + mensagem pública fixa.
// Detalhes internos (store, credenciais) nunca chegam ao cliente.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrOriginNotAllowed):
		return http.StatusForbidden, "Origin not allowed"
	case errors.Is(err, domain.ErrMissingTenant):
		return http.StatusBadRequest, "Missing client identifier"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, domain.ErrUnknownTenant):
		return http.StatusUnauthorized, "Unknown client"
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, domain.ErrOverloaded):
		return http.StatusServiceUnavailable, "Too many concurrent requests"
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		return http.StatusBadGateway, "Upstream unreachable"
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "Invalid request body"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeDomainError(w http.ResponseWriter, err error, rejects RejectCounter) int {
	status, msg := errorResponse(err)
	if rejects != nil {
		rejects.IncRejected(status)
	}
	writeError(w, status, msg)
	return status
}
