package actas

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated EventType = "acta.created"
	EventDeleted EventType = "acta.deleted"
)

// Event se publica después de cada mutación ya persistida.
type Event struct {
	Type    EventType `json:"type"`
	ActaID  int64     `json:"acta_id"`
	ActaNum string    `json:"acta_num,omitempty"`
	Entidad string    `json:"entidad,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier es best-effort: un error se loguea pero no revierte la mutación.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }
