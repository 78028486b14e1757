package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"edge-relay/relay"
	"edge-relay/relay/application"
	"edge-relay/relay/domain"
	"edge-relay/relay/infra"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rdb, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis error: %v", err)
	}
	defer func() { _ = rdb.Close() }()

	h, edge := buildHandler(cfg, rdb)
	if edge != nil {
		edge.StartJanitor(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	// sem WriteTimeout fixo: o workflow pode demorar e só UPSTREAM_TIMEOUT limita a chamada
	if cfg.UpstreamTimeout > 0 {
		srv.WriteTimeout = cfg.UpstreamTimeout + 10*time.Second
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("relay listening on %s%s -> %s", cfg.ListenAddr, cfg.RelayPath, redactURL(cfg.UpstreamURL))
	log.Printf("origins: allowed=%d parentDomains=%q maxAge=%s", len(cfg.AllowedOrigins), cfg.AllowedParentDomains, cfg.CORSMaxAge)
	log.Printf("tenant: queryParam=%q header=%q credentialPrefix=%q", cfg.TenantQueryParam, cfg.TenantHeader, cfg.CredentialKeyPrefix)
	log.Printf("rate: max=%d window=%s atomic=%v failOpen=%v prefix=%q headers=%v", cfg.RateMax, cfg.RateWindow, cfg.RateAtomic, cfg.RateFailOpen, cfg.RateKeyPrefix, cfg.AddRateLimitHeaders)
	log.Printf("edge: enabled=%v rps=%.3f burst=%d trustXFF=%v ipv6Prefix=%d maxClients=%d", cfg.EdgeRateEnabled, cfg.EdgeRateRPS, cfg.EdgeRateBurst, cfg.TrustXFF, cfg.EdgeIPv6Prefix, cfg.EdgeMaxClients)
	log.Printf("concurrency: max=%d acquireTimeout=%s", cfg.ConcurrencyMax, cfg.ConcurrencyTimeout)
	log.Printf("rate-stats: enabled=%v prefix=%q bucket=%q ttl=%s trackTenants=%v", cfg.RateStatsEnabled, cfg.RateStatsPrefix, cfg.RateStatsBucket, cfg.RateStatsTTL, cfg.RateStatsTrackTenants)
	log.Printf("metrics: enabled=%v upstreamTimeout=%s maxBodyBytes=%d", cfg.MetricsEnabled, cfg.UpstreamTimeout, cfg.MaxBodyBytes)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// buildHandler monta o grafo completo. O BucketStore do edge guard é
// devolvido (nil quando desativado) para o janitor ser ligado ao ctx do processo.
func buildHandler(cfg config, rdb redis.Cmdable) (http.Handler, *infra.BucketStore) {
	var (
		metrics    domain.Metrics = domain.NoopMetrics{}
		rejections relay.RejectCounter
		metricsH   http.Handler
	)
	if cfg.MetricsEnabled {
		prom := infra.NewPromMetrics("edge_relay")
		metrics = prom
		rejections = prom
		metricsH = prom.Handler()
	}

	var stats domain.StatsStore
	if cfg.RateStatsEnabled {
		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.RateStatsPrefix),
			infra.WithStatsTTL(cfg.RateStatsTTL),
			infra.WithStatsBucket(cfg.RateStatsBucket),
			infra.WithStatsTrackTenants(cfg.RateStatsTrackTenants),
		)
	}

	var fwdOpts []infra.ForwarderOption
	if cfg.UpstreamTimeout > 0 {
		fwdOpts = append(fwdOpts, infra.WithTimeout(cfg.UpstreamTimeout))
	}

	svc := application.RelayService{
		Rate: application.RateService{
			Store:    infra.NewRedisCounterStore(rdb),
			Max:      cfg.RateMax,
			Window:   cfg.RateWindow,
			Prefix:   cfg.RateKeyPrefix,
			Atomic:   cfg.RateAtomic,
			FailOpen: cfg.RateFailOpen,
		},
		Credentials: application.CredentialService{
			Store: infra.NewRedisCredentialStore(rdb, infra.WithCredentialPrefix(cfg.CredentialKeyPrefix)),
		},
		Forwarder:  infra.NewHTTPForwarder(cfg.UpstreamURL, fwdOpts...),
		Normalizer: application.Normalizer{Default: cfg.DefaultReply},
		Stats:      stats,
		Metrics:    metrics,
	}

	var (
		guard *relay.GuardOptions
		edge  *infra.BucketStore
	)
	if cfg.EdgeRateEnabled {
		edge = infra.NewBucketStore(cfg.EdgeRateRPS, cfg.EdgeRateBurst, infra.WithMaxClients(cfg.EdgeMaxClients))
		guard = &relay.GuardOptions{
			Store:               edge,
			TrustXForwardedFor:  cfg.TrustXFF,
			IPv6Prefix:          cfg.EdgeIPv6Prefix,
			AddRateLimitHeaders: cfg.AddRateLimitHeaders,
		}
	}

	h := relay.NewRouter(relay.Options{
		Path: cfg.RelayPath,
		CORS: relay.CORSOptions{
			Policy:       application.NewOriginPolicy(cfg.AllowedOrigins, cfg.AllowedParentDomains),
			AllowHeaders: allowHeaders(cfg.TenantHeader),
			MaxAge:       cfg.CORSMaxAge,
		},
		Guard: guard,
		Concurrency: relay.ConcurrencyOptions{
			Max:            cfg.ConcurrencyMax,
			AcquireTimeout: cfg.ConcurrencyTimeout,
		},
		Handler: &relay.Handler{
			Service:             svc,
			Tenants:             relay.TenantResolver{QueryParam: cfg.TenantQueryParam, Header: cfg.TenantHeader},
			MaxBodyBytes:        cfg.MaxBodyBytes,
			AddRateLimitHeaders: cfg.AddRateLimitHeaders,
		},
		Metrics:    metricsH,
		Rejections: rejections,
	})
	return h, edge
}

// allowHeaders inclui o header de tenant customizado no preflight.
func allowHeaders(tenantHeader string) string {
	base := "content-type, authorization, " + relay.DefaultTenantHeader
	th := strings.ToLower(strings.TrimSpace(tenantHeader))
	if th == "" || th == relay.DefaultTenantHeader {
		return base
	}
	return base + ", " + th
}

// redactURL remove query, fragmento e userinfo: webhooks costumam carregar token na URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
