package infra

import (
	"context"
	"sync"
	"time"

	"edge-relay/relay/domain"

	"golang.org/x/time/rate"
)

// DefaultMaxClients limita quantos clientes o edge guard rastreia de uma vez.
const DefaultMaxClients = 100_000

// BucketStore guarda um token bucket (x/time/rate) por cliente para o edge guard,
// com limpeza periódica de clientes inativos.
//
// Estado local do processo: com várias instâncias cada uma tem seus buckets.
// Com o mapa cheio, clientes novos dividem um único bucket de overflow; uma
// enxurrada de IPs aleatórios não cresce a memória nem ganha burst novo.
type BucketStore struct {
	mu           sync.Mutex
	buckets      map[domain.Key]*bucket
	overflow     *rate.Limiter
	rps          rate.Limit
	burst        int
	maxClients   int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type BucketOption func(*BucketStore)

func WithIdleTTL(d time.Duration) BucketOption {
	return func(s *BucketStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) BucketOption {
	return func(s *BucketStore) { s.cleanupEvery = d }
}

// WithMaxClients define o teto de clientes rastreados (<= 0 mantém o padrão).
func WithMaxClients(n int) BucketOption {
	return func(s *BucketStore) {
		if n > 0 {
			s.maxClients = n
		}
	}
}

func NewBucketStore(rps float64, burst int, opts ...BucketOption) *BucketStore {
	s := &BucketStore{
		buckets:      make(map[domain.Key]*bucket),
		rps:          rate.Limit(rps),
		burst:        burst,
		maxClients:   DefaultMaxClients,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.overflow = rate.NewLimiter(s.rps, s.burst)
	return s
}

func (s *BucketStore) RPS() float64 { return float64(s.rps) }
func (s *BucketStore) Burst() int   { return s.burst }

// Get implementa domain.LimiterStore.
func (s *BucketStore) Get(key domain.Key) domain.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[key]; ok {
		b.lastSeen = now
		return b.lim
	}
	if len(s.buckets) >= s.maxClients {
		s.cleanupLocked(now)
		if len(s.buckets) >= s.maxClients {
			return s.overflow
		}
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.buckets[key] = &bucket{lim: lim, lastSeen: now}
	return lim
}

func (s *BucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *BucketStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked(time.Now())
}

func (s *BucketStore) cleanupLocked(now time.Time) {
	cutoff := now.Add(-s.idleTTL)
	for k, b := range s.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(s.buckets, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa clientes inativos periodicamente.
// Pare cancelando o contexto.
func (s *BucketStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
