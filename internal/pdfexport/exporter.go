// Package pdfexport genera los PDF de las actas con fpdf y verifica el
// resultado con pdfcpu antes de entregarlo.
package pdfexport

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"actas-mantenimiento/internal/domain/actas"
	"actas-mantenimiento/internal/platform/logger"
)

const (
	AllActasFile  = "Todas_las_actas.pdf"
	AllPhotosFile = "Todas_las_fotos.pdf"
)

type Options struct {
	Logger logger.Logger
	Now    func() time.Time
}

type Exporter struct {
	log logger.Logger
	now func() time.Time
}

var _ actas.Exporter = (*Exporter)(nil)

func New(opts Options) *Exporter {
	e := &Exporter{log: opts.Logger, now: opts.Now}
	if e.log == nil {
		e.log = logger.Nop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// FileName es el nombre de descarga de un acta individual.
func FileName(a actas.Acta) string {
	return fmt.Sprintf("acta-%s-%s.pdf", slug(a.Entidad), slug(a.ActaNum))
}

func (e *Exporter) ExportOne(ctx context.Context, a actas.Acta) (actas.Document, error) {
	assets, err := prepare(ctx, []actas.Acta{a}, true)
	if err != nil {
		return actas.Document{}, err
	}

	d := newDocument("Acta de Mantenimiento "+a.ActaNum, e.now())
	d.newPage()
	d.acta(a, assets[0])

	return e.finish(d, FileName(a), "one")
}

// ExportAll arma un solo documento; cada acta después de la primera empieza
// en página nueva.
func (e *Exporter) ExportAll(ctx context.Context, items []actas.Acta) (actas.Document, error) {
	if len(items) == 0 {
		return actas.Document{}, actas.ErrNothingToExport
	}

	assets, err := prepare(ctx, items, true)
	if err != nil {
		return actas.Document{}, err
	}

	d := newDocument("Todas las actas", e.now())
	for i, a := range items {
		if err := ctx.Err(); err != nil {
			return actas.Document{}, err
		}
		d.newPage()
		d.acta(a, assets[i])
	}

	return e.finish(d, AllActasFile, "all")
}

func (e *Exporter) ExportAllPhotos(ctx context.Context, items []actas.Acta) (actas.Document, error) {
	total := 0
	for _, a := range items {
		total += a.FotoCount()
	}
	if total == 0 {
		return actas.Document{}, actas.ErrNoPhotos
	}

	assets, err := prepare(ctx, items, false)
	if err != nil {
		return actas.Document{}, err
	}

	d := newDocument("Todas las fotos", e.now())
	d.newPage()
	for i, a := range items {
		if err := ctx.Err(); err != nil {
			return actas.Document{}, err
		}
		for slot, f := range assets[i].fotos {
			if f == nil {
				continue
			}
			d.photo(f, fmt.Sprintf("Acta N° %s - Foto %d", a.ActaNum, slot+1))
		}
	}

	return e.finish(d, AllPhotosFile, "photos")
}

func (e *Exporter) finish(d *document, name, kind string) (actas.Document, error) {
	data, err := d.output()
	if err != nil {
		return actas.Document{}, fmt.Errorf("pdf %s: %w", name, err)
	}

	pages, err := PageCount(data)
	if err != nil {
		return actas.Document{}, fmt.Errorf("pdf %s: %w", name, err)
	}
	if want := d.pdf.PageCount(); pages != want {
		e.log.Warn("conteo de páginas distinto", map[string]any{"file": name, "pdfcpu": pages, "fpdf": want})
	}

	e.log.Debug("pdf generado", map[string]any{
		"file":  name,
		"kind":  kind,
		"pages": pages,
		"bytes": len(data),
	})
	return actas.Document{Name: name, Data: data, Pages: pages}, nil
}

var configOnce sync.Once

// PageCount lee el PDF con pdfcpu (validación relajada) y devuelve sus páginas.
func PageCount(data []byte) (int, error) {
	configOnce.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx.PageCount, nil
}
