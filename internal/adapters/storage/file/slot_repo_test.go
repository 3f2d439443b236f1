package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actas-mantenimiento/internal/domain/actas"
)

func TestSlotRepo_CreatesDirAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")

	r, err := NewSlotRepo(dir, actas.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "actas.json"), r.Path())

	_, err = r.Read(ctx)
	require.ErrorIs(t, err, actas.ErrSlotEmpty)

	require.NoError(t, r.Write(ctx, []byte(`[1]`)))
	require.NoError(t, r.Write(ctx, []byte(`[1,2]`)))

	got, err := r.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestSlotRepo_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r, err := NewSlotRepo(dir, "actas")
	require.NoError(t, err)

	for range 5 {
		require.NoError(t, r.Write(ctx, []byte(`[]`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "actas.json", entries[0].Name())
}

func TestSlotRepo_CanceledContext(t *testing.T) {
	r, err := NewSlotRepo(t.TempDir(), "actas")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Write(ctx, []byte(`[]`)), context.Canceled)
}
