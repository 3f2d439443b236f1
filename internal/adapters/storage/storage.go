// Package storage elige el adapter del slot de actas según la configuración.
package storage

import (
	"context"
	"fmt"

	"actas-mantenimiento/internal/adapters/storage/file"
	mem "actas-mantenimiento/internal/adapters/storage/memory"
	pg "actas-mantenimiento/internal/adapters/storage/postgres"
	s3slot "actas-mantenimiento/internal/adapters/storage/s3"
	"actas-mantenimiento/internal/adapters/storage/sqlite"
	"actas-mantenimiento/internal/config"
	"actas-mantenimiento/internal/domain/actas"
)

// Open devuelve el Repository y una función de cierre (nunca nil).
func Open(ctx context.Context, cfg config.Storage) (actas.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.StorageMemory:
		return mem.NewSlotRepo(), noop, nil

	case config.StorageFile, "":
		r, err := file.NewSlotRepo(cfg.DataDir, actas.StorageKey)
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil

	case config.StoragePostgres:
		db, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("postgres: %w", err)
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("postgres: %w", err)
		}
		return pg.NewSlotRepo(db, actas.StorageKey), db.Close, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("sqlite: %w", err)
		}
		return sqlite.NewSlotRepo(db, actas.StorageKey), db.Close, nil

	case config.StorageS3:
		client, err := s3slot.NewClient(ctx, s3slot.Options{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			Prefix:         cfg.S3Prefix,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("s3: %w", err)
		}
		return s3slot.NewSlotRepo(client, cfg.S3Bucket, cfg.S3Prefix, actas.StorageKey), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown storage %q", cfg.Driver)
}
