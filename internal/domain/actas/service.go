package actas

import (
	"context"
	"errors"
	"time"

	"actas-mantenimiento/internal/platform/logger"
	"actas-mantenimiento/internal/platform/metrics"
)

var (
	ErrNothingToExport = errors.New("no hay actas guardadas para exportar")
	ErrNoPhotos        = errors.New("no hay fotos para exportar")
)

// Exporter genera los PDF. Lo implementa internal/pdfexport.
type Exporter interface {
	ExportOne(ctx context.Context, a Acta) (Document, error)
	ExportAll(ctx context.Context, items []Acta) (Document, error)
	ExportAllPhotos(ctx context.Context, items []Acta) (Document, error)
}

type Deps struct {
	Exporter Exporter
	Notifier Notifier // opcional
	Logger   logger.Logger
	Metrics  *metrics.Metrics // opcional
}

type Service struct {
	store    *Store
	exporter Exporter
	notifier Notifier
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(store *Store, deps Deps) *Service {
	s := &Service{
		store:    store,
		exporter: deps.Exporter,
		notifier: deps.Notifier,
		log:      deps.Logger,
		metrics:  deps.Metrics,
		now:      time.Now,
	}
	if s.notifier == nil {
		s.notifier = NopNotifier{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

func (s *Service) Load(ctx context.Context) error {
	if err := s.store.Load(ctx); err != nil {
		return err
	}
	s.log.Info("actas cargadas", map[string]any{"count": s.store.Len()})
	for _, e := range s.List() {
		s.log.Debug("acta", map[string]any{"acta_id": e.ID, "acta_num": e.ActaNum, "entidad": e.Entidad, "fecha_hora": e.FechaHora})
	}
	return nil
}

// Create valida, lee las fotos (todas o ninguna), arma el acta y la persiste.
// Recién con el acta guardada se limpia la firma capturada.
func (s *Service) Create(ctx context.Context, in CreateInput) (Acta, error) {
	a, err := build(ctx, s.store.NextID(), in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			s.metrics.BuildFailed("validation")
		case errors.Is(err, ErrAttachment):
			s.metrics.BuildFailed("attachment")
			s.log.Warn("lectura de fotos fallida", map[string]any{"err": err.Error()})
		default:
			s.metrics.BuildFailed("internal")
		}
		return Acta{}, err
	}

	if err := s.store.Append(ctx, a); err != nil {
		s.metrics.BuildFailed("storage")
		s.log.Error("no se pudo persistir el acta", map[string]any{"acta_id": a.ID, "err": err.Error()})
		return Acta{}, err
	}

	in.Firma.Clear()
	s.metrics.ActaCreated()
	s.log.Info("acta guardada", map[string]any{
		"acta_id":  a.ID,
		"acta_num": a.ActaNum,
		"fotos":    a.FotoCount(),
	})
	s.notify(ctx, Event{Type: EventCreated, ActaID: a.ID, ActaNum: a.ActaNum, Entidad: a.Entidad})
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.Remove(ctx, id)
	if err != nil {
		s.log.Error("no se pudo persistir el borrado", map[string]any{"acta_id": id, "err": err.Error()})
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	s.metrics.ActasDeleted(n)
	s.log.Info("acta eliminada", map[string]any{"acta_id": id, "removed": n})
	s.notify(ctx, Event{Type: EventDeleted, ActaID: id})
	return nil
}

func (s *Service) Get(id int64) (Acta, error) {
	return s.store.Get(id)
}

func (s *Service) All() []Acta {
	return s.store.All()
}

// List es la vista del listado, recalculada en cada llamada.
func (s *Service) List() []ListEntry {
	return Render(s.store.All())
}

func (s *Service) ExportOne(ctx context.Context, id int64) (Document, error) {
	a, err := s.store.Get(id)
	if err != nil {
		return Document{}, err
	}
	doc, err := s.exporter.ExportOne(ctx, a)
	if err != nil {
		return Document{}, err
	}
	s.metrics.Exported("one", doc.Pages)
	return doc, nil
}

func (s *Service) ExportAll(ctx context.Context) (Document, error) {
	items := s.store.All()
	if len(items) == 0 {
		return Document{}, ErrNothingToExport
	}
	doc, err := s.exporter.ExportAll(ctx, items)
	if err != nil {
		return Document{}, err
	}
	s.metrics.Exported("all", doc.Pages)
	return doc, nil
}

func (s *Service) ExportAllPhotos(ctx context.Context) (Document, error) {
	items := s.store.All()
	if len(items) == 0 {
		return Document{}, ErrNoPhotos
	}
	doc, err := s.exporter.ExportAllPhotos(ctx, items)
	if err != nil {
		return Document{}, err
	}
	s.metrics.Exported("photos", doc.Pages)
	return doc, nil
}

func (s *Service) notify(ctx context.Context, e Event) {
	e.At = s.now().UTC()
	if err := s.notifier.Notify(ctx, e); err != nil {
		s.log.Warn("notificación fallida", map[string]any{"type": string(e.Type), "acta_id": e.ActaID, "err": err.Error()})
	}
}
