package relay

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"edge-relay/relay/application"
	"edge-relay/relay/domain"
)

const defaultMaxBodyBytes = 1 << 20

// Handler atende o POST do widget.
type Handler struct {
	Service             application.RelayService
	Tenants             TenantResolver
	MaxBodyBytes        int64
	AddRateLimitHeaders bool
	Rejections          RejectCounter
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	reqID := requestIDFromContext(r.Context())

	tenant, err := h.Tenants.Resolve(r)
	if err != nil {
		h.fail(w, reqID, tenant, err, started)
		return
	}

	body, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, reqID, tenant, err, started)
		return
	}

	res, err := h.Service.Relay(r.Context(), application.RelayRequest{
		Tenant:      tenant,
		Body:        body,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   reqID,
	})

	if h.AddRateLimitHeaders && res.Rate.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", formatInt(res.Rate.Limit))
		w.Header().Set("X-RateLimit-Remaining", formatInt(res.Rate.Remaining))
	}
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			w.Header().Set("Retry-After", retryAfterSeconds(res.Rate.RetryAfter))
		}
		h.fail(w, reqID, tenant, err, started)
		return
	}

	writeJSON(w, res.Reply.Status, res.Reply)
	log.Printf("relay request_id=%s tenant=%s status=%d dur=%s", reqID, tenant, res.Reply.Status, time.Since(started))
}

// readBody lê o corpo inteiro, sem interpretar; ele vai byte a byte ao workflow.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrPayloadTooLarge
		}
		return nil, errors.Join(errInvalidBody, err)
	}
	return body, nil
}

func (h *Handler) fail(w http.ResponseWriter, reqID string, tenant domain.TenantID, err error, started time.Time) {
	status := writeDomainError(w, err, h.Rejections)
	log.Printf("relay request_id=%s tenant=%s status=%d err=%q dur=%s", reqID, tenant, status, err, time.Since(started))
}
