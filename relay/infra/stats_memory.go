package infra

import (
	"context"
	"sync"

	"edge-relay/relay/domain"
)

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento; não faz expiração.
type MemoryStatsStore struct {
	mu       sync.Mutex
	total    map[domain.Outcome]int64
	byTenant map[domain.TenantID]map[domain.Outcome]int64

	trackTenants bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackTenants(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackTenants = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total:    make(map[domain.Outcome]int64),
		byTenant: make(map[domain.TenantID]map[domain.Outcome]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Outcome]++
	if s.trackTenants && ev.Tenant != "" {
		m, ok := s.byTenant[ev.Tenant]
		if !ok {
			m = make(map[domain.Outcome]int64)
			s.byTenant[ev.Tenant] = m
		}
		m[ev.Outcome]++
	}
	return nil
}

func (s *MemoryStatsStore) Total(o domain.Outcome) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total[o]
}

func (s *MemoryStatsStore) ByTenant(t domain.TenantID) map[domain.Outcome]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Outcome]int64, len(s.byTenant[t]))
	for k, v := range s.byTenant[t] {
		out[k] = v
	}
	return out
}
