package infra

import (
	"context"
	"sync"
)

// ChanPool é um semáforo em channel. Release é idempotente.
type ChanPool struct {
	sem chan struct{}
}

func NewChanPool(max int) *ChanPool {
	if max < 1 {
		max = 1
	}
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	// ctx já encerrado perde para uma vaga livre no select; checa antes
	if ctx.Err() != nil {
		return nil, false
	}
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	case <-ctx.Done():
		return nil, false
	}
}

// InFlight devolve quantas vagas estão ocupadas agora.
func (p *ChanPool) InFlight() int { return len(p.sem) }

func (p *ChanPool) Cap() int { return cap(p.sem) }
