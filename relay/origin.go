package relay

import (
	"net/http"
	"strconv"
	"time"

	"edge-relay/relay/application"
	"edge-relay/relay/domain"
)

const (
	corsAllowMethods  = "POST, OPTIONS"
	corsAllowHeaders  = "content-type, authorization, x-client-id"
	defaultCORSMaxAge = 24 * time.Hour
)

type CORSOptions struct {
	Policy application.OriginPolicy
	// AllowHeaders sobrescreve access-control-allow-headers (ex: header de tenant customizado).
	AllowHeaders string
	MaxAge       time.Duration
	Rejections   RejectCounter
}

// OriginMiddleware roda antes de tudo: origem negada recebe 403 sem nenhum
// header CORS; origem aceita tem o valor exato ecoado (nunca "*").
// OPTIONS (preflight) termina aqui com 204.
func OriginMiddleware(opts CORSOptions) func(next http.Handler) http.Handler {
	if opts.MaxAge <= 0 {
		opts.MaxAge = defaultCORSMaxAge
	}
	if opts.AllowHeaders == "" {
		opts.AllowHeaders = corsAllowHeaders
	}
	maxAge := strconv.Itoa(int(opts.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if !opts.Policy.Allow(origin) {
				writeDomainError(w, domain.ErrOriginNotAllowed, opts.Rejections)
				return
			}

			if origin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", opts.AllowHeaders)
				h.Set("Access-Control-Max-Age", maxAge)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
