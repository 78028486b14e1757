package relay

import (
	"errors"
	"net/http"
	"time"

	"edge-relay/relay/application"
	"edge-relay/relay/domain"
	"edge-relay/relay/infra"
)

type ConcurrencyOptions struct {
	Max            int
	AcquireTimeout time.Duration
	Rejections     RejectCounter
}

// ConcurrencyMiddleware limita relays em voo. Max <= 0 desativa.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				if !errors.Is(err, domain.ErrOverloaded) {
					// cliente desconectou esperando vaga; não há para quem responder
					return
				}
				writeDomainError(w, err, opts.Rejections)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
