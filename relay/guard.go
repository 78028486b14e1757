package relay

import (
	"net"
	"net/http"
	"strings"
	"time"

	"edge-relay/relay/application"
	"edge-relay/relay/domain"
)

// KeyFunc identifica o cliente para o edge guard.
type KeyFunc func(r *http.Request) string

type GuardOptions struct {
	Store               domain.LimiterStore
	KeyFn               KeyFunc
	TrustXForwardedFor  bool
	RetryAfter          time.Duration
	IPv6Prefix          int
	AddRateLimitHeaders bool
	Rejections          RejectCounter
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

// ClientKeyFunc usa o IP do cliente; com trustXFF, o primeiro IP do X-Forwarded-For.
func ClientKeyFunc(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				ip, _, _ := strings.Cut(xff, ",")
				if ip = strings.TrimSpace(ip); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// EdgeGuard limita requisições por cliente antes do tenant ser resolvido,
// protegendo o KV de rajadas com tenants aleatórios.
func EdgeGuard(opts GuardOptions) func(next http.Handler) http.Handler {
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = ClientKeyFunc(opts.TrustXForwardedFor)
	}

	svc := application.GuardService{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
		IPv6Prefix: opts.IPv6Prefix,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.AddRateLimitHeaders {
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-Edge-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-Edge-RateLimit-Burst", formatInt(int64(ri.Burst())))
				}
			}

			dec := svc.Decide(domain.Key(opts.KeyFn(r)))
			if !dec.Allowed {
				w.Header().Set("Retry-After", retryAfterSeconds(dec.RetryAfter))
				writeDomainError(w, domain.ErrRateLimited, opts.Rejections)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
