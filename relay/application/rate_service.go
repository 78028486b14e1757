package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"edge-relay/relay/domain"
)

const (
	DefaultRateMax    = 60
	DefaultRateWindow = 60 * time.Second
	DefaultRatePrefix = "rate:"
)

// RateService aplica o orçamento de requisições por tenant em janela fixa.
//
// Com Atomic=true e um store que implementa domain.AtomicCounterStore, a
// comparação e o incremento acontecem numa única operação. Caso contrário é
// leitura seguida de escrita: sob concorrência do mesmo tenant o total aceito
// pode passar de Max pelo número de requisições em voo. O limite é defensivo,
// não uma cota.
type RateService struct {
	Store    domain.CounterStore
	Max      int64
	Window   time.Duration
	Prefix   string
	Atomic   bool
	FailOpen bool
}

func (s RateService) Key(tenant domain.TenantID) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultRatePrefix
	}
	return prefix + string(tenant)
}

// Check devolve a decisão; em bloqueio o erro envolve domain.ErrRateLimited.
// Bloqueio nunca incrementa o contador.
func (s RateService) Check(ctx context.Context, tenant domain.TenantID) (domain.RateDecision, error) {
	if s.Max <= 0 {
		s.Max = DefaultRateMax
	}
	if s.Window <= 0 {
		s.Window = DefaultRateWindow
	}
	if s.Store == nil {
		return domain.RateDecision{Allowed: true, Limit: s.Max, Remaining: s.Max}, nil
	}

	key := s.Key(tenant)

	dec, err := s.check(ctx, key)
	if err != nil {
		if s.FailOpen {
			log.Printf("rate store error (fail-open): %v", err)
			return domain.RateDecision{Allowed: true, Limit: s.Max}, nil
		}
		return domain.RateDecision{Allowed: false, Limit: s.Max, RetryAfter: s.Window},
			fmt.Errorf("%w: counter store: %v", domain.ErrRateLimited, err)
	}
	if !dec.Allowed {
		return dec, domain.ErrRateLimited
	}
	return dec, nil
}

func (s RateService) check(ctx context.Context, key string) (domain.RateDecision, error) {
	if atomic, ok := s.Store.(domain.AtomicCounterStore); ok && s.Atomic {
		res, err := atomic.IncrementBelow(ctx, key, s.Max, s.Window)
		if err != nil {
			return domain.RateDecision{}, err
		}
		retry := res.TTL
		if retry <= 0 {
			retry = s.Window
		}
		return domain.RateDecision{
			Allowed:    res.Allowed,
			Limit:      s.Max,
			Remaining:  remaining(s.Max, res.Count),
			RetryAfter: retry,
		}, nil
	}

	current, err := s.Store.Get(ctx, key)
	if err != nil {
		return domain.RateDecision{}, err
	}
	if current >= s.Max {
		return domain.RateDecision{Allowed: false, Limit: s.Max, Remaining: 0, RetryAfter: s.Window}, nil
	}
	if err := s.Store.Put(ctx, key, current+1, s.Window); err != nil {
		return domain.RateDecision{}, err
	}
	return domain.RateDecision{Allowed: true, Limit: s.Max, Remaining: remaining(s.Max, current+1)}, nil
}

func remaining(max, count int64) int64 {
	if count >= max {
		return 0
	}
	return max - count
}
