package domain

import "context"

// SlotPool limita quantos relays podem estar em voo ao mesmo tempo.
// Acquire espera até haver vaga ou o ctx encerrar; ok=false significa que
// nada foi adquirido.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
