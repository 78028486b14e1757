package domain

// Camada de domínio do rate limit.
//
// Dois limitadores convivem no relay:
//   - por tenant: janela fixa em um store compartilhado (Redis), é o orçamento do tenant;
//   - por cliente (edge guard, opcional): token bucket em memória por IP.

import (
	"context"
	"time"
)

type Key string

// CounterStore é o contador compartilhado com TTL (ex: Redis).
//
// Get devolve 0 para chave inexistente. Put grava o valor com expiração ttl.
// Get seguido de Put NÃO é atômico: requisições concorrentes do mesmo tenant
// podem ultrapassar o máximo nominal.
type CounterStore interface {
	Get(ctx context.Context, key string) (int64, error)
	Put(ctx context.Context, key string, value int64, ttl time.Duration) error
}

// CounterResult é o resultado de um incremento condicional.
type CounterResult struct {
	Allowed bool
	// Count é o valor após o incremento (ou o valor atual quando bloqueado).
	Count int64
	// TTL restante da janela. Zero quando o store não sabe.
	TTL time.Duration
}

// AtomicCounterStore incrementa somente se o valor atual estiver abaixo de max,
// em uma única operação no store. Bloqueio não incrementa.
type AtomicCounterStore interface {
	CounterStore
	IncrementBelow(ctx context.Context, key string, max int64, ttl time.Duration) (CounterResult, error)
}

// RateDecision é a decisão do rate limit por tenant.
type RateDecision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	RetryAfter time.Duration
}

// Limiter representa algo que pode decidir se uma ação é permitida agora.
// A infra usa golang.org/x/time/rate.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (ex: IP do cliente).
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
