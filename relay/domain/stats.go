package domain

import (
	"context"
	"time"
)

// Outcome é o desfecho de uma requisição no relay.
type Outcome string

const (
	OutcomeRelayed       Outcome = "relayed"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeUnknownTenant Outcome = "unknown_tenant"
	OutcomeUpstreamError Outcome = "upstream_error"
)

// StatsEvent representa um desfecho por tenant.
//
// Observação: cuidado com cardinalidade (ex.: salvar Tenant sem controle pode
// explodir o número de chaves no Redis).
type StatsEvent struct {
	Tenant  TenantID
	Outcome Outcome
	At      time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do relay.
// O relay trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
