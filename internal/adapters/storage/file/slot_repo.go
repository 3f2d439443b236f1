// Package file guarda el slot como un archivo JSON en disco.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"actas-mantenimiento/internal/domain/actas"
)

type SlotRepo struct {
	mu   sync.Mutex
	path string
}

// NewSlotRepo usa <dir>/<key>.json, creando dir si no existe.
func NewSlotRepo(dir, key string) (*SlotRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	return &SlotRepo{path: filepath.Join(dir, key+".json")}, nil
}

func (r *SlotRepo) Path() string { return r.path }

func (r *SlotRepo) Read(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, actas.ErrSlotEmpty
	}
	return b, err
}

// Write reemplaza el archivo de forma atómica (temporal + rename en el mismo dir).
func (r *SlotRepo) Write(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
