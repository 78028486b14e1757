package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type config struct {
	ListenAddr      string        `env:"LISTEN_ADDR"      envDefault:":8080"`
	RelayPath       string        `env:"RELAY_PATH"       envDefault:"/api/chat"`
	UpstreamURL     string        `env:"UPSTREAM_URL"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"0s"`
	RedisURL        string        `env:"REDIS_URL"        envDefault:"redis://localhost:6379/0"`

	AllowedOrigins       []string      `env:"ALLOWED_ORIGINS"        envSeparator:","`
	AllowedParentDomains []string      `env:"ALLOWED_PARENT_DOMAINS" envSeparator:","`
	CORSMaxAge           time.Duration `env:"CORS_MAX_AGE"           envDefault:"24h"`

	TenantQueryParam string `env:"TENANT_QUERY_PARAM" envDefault:"client"`
	TenantHeader     string `env:"TENANT_HEADER"      envDefault:"x-client-id"`

	RateMax       int64         `env:"RATE_MAX"        envDefault:"60"`
	RateWindow    time.Duration `env:"RATE_WINDOW"     envDefault:"60s"`
	RateAtomic    bool          `env:"RATE_ATOMIC"     envDefault:"true"`
	RateFailOpen  bool          `env:"RATE_FAIL_OPEN"  envDefault:"false"`
	RateKeyPrefix string        `env:"RATE_KEY_PREFIX" envDefault:"rate:"`

	CredentialKeyPrefix string `env:"CREDENTIAL_KEY_PREFIX"`
	AddRateLimitHeaders bool   `env:"ADD_RATELIMIT_HEADERS" envDefault:"false"`
	DefaultReply        string `env:"DEFAULT_REPLY"         envDefault:"Okay, got it."`
	MaxBodyBytes        int64  `env:"MAX_BODY_BYTES"        envDefault:"1048576"`

	EdgeRateEnabled bool    `env:"EDGE_RATE_ENABLED" envDefault:"false"`
	EdgeRateRPS     float64 `env:"EDGE_RATE_RPS"     envDefault:"5"`
	EdgeRateBurst   int     `env:"EDGE_RATE_BURST"   envDefault:"20"`
	TrustXFF        bool    `env:"TRUST_XFF"         envDefault:"false"`
	EdgeIPv6Prefix  int     `env:"EDGE_IPV6_PREFIX"  envDefault:"64"`
	EdgeMaxClients  int     `env:"EDGE_MAX_CLIENTS"  envDefault:"100000"`

	ConcurrencyMax     int           `env:"CONCURRENCY_MAX"     envDefault:"100"`
	ConcurrencyTimeout time.Duration `env:"CONCURRENCY_TIMEOUT" envDefault:"0s"`

	RateStatsEnabled      bool          `env:"RATE_STATS_ENABLED"        envDefault:"false"`
	RateStatsPrefix       string        `env:"RATE_STATS_PREFIX"         envDefault:"relay:stats"`
	RateStatsTTL          time.Duration `env:"RATE_STATS_TTL"            envDefault:"24h"`
	RateStatsBucket       string        `env:"RATE_STATS_BUCKET"         envDefault:"minute"`
	RateStatsTrackTenants bool          `env:"RATE_STATS_TRACK_TENANTS"  envDefault:"false"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// readConfig lê o ambiente do processo.
func readConfig() (config, error) {
	return parseConfig(env.ToMap(os.Environ()))
}

// parseConfig recebe o ambiente explicitamente para facilitar testes.
func parseConfig(vars map[string]string) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.UpstreamURL = strings.TrimSpace(cfg.UpstreamURL)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.AllowedOrigins = trimList(cfg.AllowedOrigins)
	cfg.AllowedParentDomains = trimList(cfg.AllowedParentDomains)

	// Com RPS < 1 o burst padrão (20) deixaria passar uma rajada que parece
	// "limiter desligado". Sem EDGE_RATE_BURST explícito, usa 1.
	if v := strings.TrimSpace(vars["EDGE_RATE_BURST"]); v == "" && cfg.EdgeRateRPS > 0 && cfg.EdgeRateRPS < 1 {
		cfg.EdgeRateBurst = 1
	}

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.UpstreamURL == "" {
		return errors.New("UPSTREAM_URL is required")
	}
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("UPSTREAM_URL must be an absolute http(s) url")
	}
	if c.RedisURL == "" {
		return errors.New("REDIS_URL is required")
	}
	if !strings.HasPrefix(c.RelayPath, "/") {
		return errors.New("RELAY_PATH must start with /")
	}
	if c.UpstreamTimeout < 0 {
		return errors.New("UPSTREAM_TIMEOUT must be >= 0")
	}
	if c.RateMax <= 0 {
		return errors.New("RATE_MAX must be > 0")
	}
	if c.RateWindow < time.Second {
		return errors.New("RATE_WINDOW must be >= 1s")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be > 0")
	}
	if c.EdgeRateEnabled {
		if c.EdgeRateRPS <= 0 {
			return errors.New("EDGE_RATE_RPS must be > 0")
		}
		if c.EdgeRateBurst <= 0 {
			return errors.New("EDGE_RATE_BURST must be > 0")
		}
		if c.EdgeIPv6Prefix < 1 || c.EdgeIPv6Prefix > 128 {
			return errors.New("EDGE_IPV6_PREFIX must be between 1 and 128")
		}
		if c.EdgeMaxClients <= 0 {
			return errors.New("EDGE_MAX_CLIENTS must be > 0")
		}
	}
	if c.ConcurrencyMax < 0 {
		return errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if c.RateStatsEnabled {
		switch strings.ToLower(c.RateStatsBucket) {
		case "", "minute", "none":
		default:
			return errors.New(`RATE_STATS_BUCKET must be "minute" or "none"`)
		}
	}
	return nil
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
