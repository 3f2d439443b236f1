package postgres

import (
	"context"
	"database/sql"
	"errors"

	"actas-mantenimiento/internal/domain/actas"
)

// SlotRepo guarda el blob en una fila de storage_slots.
type SlotRepo struct {
	db  *sql.DB
	key string
}

func NewSlotRepo(db *sql.DB, key string) *SlotRepo {
	return &SlotRepo{db: db, key: key}
}

func (r *SlotRepo) Read(ctx context.Context) ([]byte, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM storage_slots WHERE key = $1
	`, r.key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, actas.ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (r *SlotRepo) Write(ctx context.Context, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO storage_slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, r.key, string(blob))
	return err
}
