package actas

import (
	"context"
	"errors"
)

// StorageKey es el nombre del slot durable que guarda la colección completa.
const StorageKey = "actas"

// ErrSlotEmpty lo devuelve Read cuando el slot nunca se escribió.
var ErrSlotEmpty = errors.New("storage slot empty")

// Repository es un slot durable de un solo valor: la colección serializada entera.
// Cada Write reemplaza el contenido completo (no hay diffs).
type Repository interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, blob []byte) error
}
