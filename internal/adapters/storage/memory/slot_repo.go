package memory

import (
	"context"
	"sync"

	"actas-mantenimiento/internal/domain/actas"
)

// slotRepo guarda el blob en memoria. Se pierde al reiniciar el proceso.
type slotRepo struct {
	mu   sync.RWMutex
	blob []byte
	set  bool
}

func NewSlotRepo() actas.Repository {
	return &slotRepo{}
}

func (r *slotRepo) Read(ctx context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.set {
		return nil, actas.ErrSlotEmpty
	}
	return append([]byte(nil), r.blob...), nil
}

func (r *slotRepo) Write(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.blob = append([]byte(nil), blob...)
	r.set = true
	return nil
}
