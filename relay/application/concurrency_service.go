package application

import (
	"context"
	"time"

	"edge-relay/relay/domain"
)

// ConcurrencyService decide se um relay pode começar agora.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire espera por uma vaga: até AcquireTimeout quando > 0, senão até o ctx
// da requisição encerrar. Sem vaga, devolve domain.ErrOverloaded; se foi o
// chamador que desistiu, devolve o erro do próprio ctx.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), error) {
	if s.Pool == nil {
		return func() {}, nil
	}

	acqCtx := ctx
	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(acqCtx)
	if ok {
		return release, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, domain.ErrOverloaded
}
