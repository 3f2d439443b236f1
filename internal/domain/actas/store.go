package actas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("acta no encontrada")
	ErrDuplicateID = errors.New("acta id duplicado")
)

// Store es la colección ordenada de actas en memoria, espejada en un Repository.
// Los métodos que mutan son el único camino de escritura y se serializan con mu.
type Store struct {
	mu    sync.Mutex
	repo  Repository
	items []Acta

	now    func() time.Time
	lastID int64
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo: repo,
		now:  time.Now,
	}
}

// Load reemplaza el contenido en memoria por lo persistido.
// Sin blob => colección vacía. Un blob corrupto devuelve el error de decode tal cual.
func (s *Store) Load(ctx context.Context) error {
	blob, err := s.repo.Read(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		blob = nil
	} else if err != nil {
		return err
	}

	var items []Acta
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &items); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// los blobs viejos guardan solo las fotos presentes
	for i := range items {
		for len(items[i].Fotos) < MaxFotos {
			items[i].Fotos = append(items[i].Fotos, "")
		}
	}

	s.items = items
	for _, a := range items {
		if a.ID > s.lastID {
			s.lastID = a.ID
		}
	}
	return nil
}

// Append agrega al final y persiste la colección entera antes de volver.
// Si la escritura falla, la colección en memoria queda como estaba.
func (s *Store) Append(ctx context.Context, a Acta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == a.ID {
			return fmt.Errorf("%w: %d", ErrDuplicateID, a.ID)
		}
	}

	next := make([]Acta, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, a)

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.items = next
	if a.ID > s.lastID {
		s.lastID = a.ID
	}
	return nil
}

// Remove borra todas las actas con ese id exacto y persiste.
// Devuelve cuántas se borraron; 0 no escribe nada.
func (s *Store) Remove(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Acta, 0, len(s.items))
	for _, a := range s.items {
		if a.ID != id {
			next = append(next, a)
		}
	}

	removed := len(s.items) - len(next)
	if removed == 0 {
		return 0, nil
	}

	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}
	s.items = next
	return removed, nil
}

// All devuelve una copia en orden de inserción.
func (s *Store) All() []Acta {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Acta, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id int64) (Acta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.items {
		if a.ID == id {
			return a, nil
		}
	}
	return Acta{}, ErrNotFound
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// NextID entrega un timestamp en ms estrictamente mayor que cualquier id visto.
func (s *Store) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) persist(ctx context.Context, items []Acta) error {
	if items == nil {
		items = []Acta{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode actas: %w", err)
	}
	return s.repo.Write(ctx, blob)
}
