package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"actas-mantenimiento/internal/domain/actas"
)

type SlotRepo struct {
	db  *sql.DB
	key string
}

func NewSlotRepo(db *sql.DB, key string) *SlotRepo {
	return &SlotRepo{db: db, key: key}
}

func (r *SlotRepo) Read(ctx context.Context) ([]byte, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM storage_slots WHERE key = ?`, r.key).Scan(&v)
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
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value,
			updated_at = excluded.updated_at
	`, r.key, string(blob))
	return err
}
