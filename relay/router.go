package relay

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const DefaultPath = "/api/chat"

type Options struct {
	Path        string
	CORS        CORSOptions
	Guard       *GuardOptions // nil desativa o edge guard
	Concurrency ConcurrencyOptions
	Handler     *Handler
	// Metrics é servido em GET /metrics quando não-nil.
	Metrics    http.Handler
	Rejections RejectCounter
}

func NewRouter(opts Options) http.Handler {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.CORS.Rejections == nil {
		opts.CORS.Rejections = opts.Rejections
	}
	if opts.Concurrency.Rejections == nil {
		opts.Concurrency.Rejections = opts.Rejections
	}
	if opts.Handler.Rejections == nil {
		opts.Handler.Rejections = opts.Rejections
	}

	r := chi.NewRouter()
	r.Use(RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(rr chi.Router) {
		rr.Use(OriginMiddleware(opts.CORS))
		if opts.Guard != nil {
			guard := *opts.Guard
			if guard.Rejections == nil {
				guard.Rejections = opts.Rejections
			}
			rr.Use(EdgeGuard(guard))
		}
		rr.Use(ConcurrencyMiddleware(opts.Concurrency))

		// OPTIONS é respondido pelo OriginMiddleware; a rota só precisa existir.
		rr.Options(opts.Path, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		rr.Post(opts.Path, opts.Handler.ServeHTTP)
	})

	return r
}
