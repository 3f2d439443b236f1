package actas

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"actas-mantenimiento/internal/signature"
)

var (
	ErrValidation = errors.New("por favor, rellena todos los campos obligatorios y firma el acta")
	ErrAttachment = errors.New("hubo un error al leer las fotos del acta")
)

// ValidationError lista los campos obligatorios que faltan ("firma" incluida).
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	msg := ErrValidation.Error()
	if len(e.Missing) > 0 {
		msg += ": faltan " + strings.Join(e.Missing, ", ")
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AttachmentError indica qué slot de foto (1..3) no se pudo leer.
type AttachmentError struct {
	Slot int
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("%s: foto %d: %v", ErrAttachment.Error(), e.Slot, e.Err)
}

func (e *AttachmentError) Unwrap() []error { return []error{ErrAttachment, e.Err} }

// PhotoSource es una foto seleccionada en un slot del formulario.
type PhotoSource interface {
	// Read devuelve la foto como data URL de imagen.
	Read(ctx context.Context) (string, error)
}

// CreateInput es el formulario completo: campos, firma y hasta MaxFotos slots
// (un slot nil = sin selección).
type CreateInput struct {
	Fields Fields
	Firma  signature.Capture
	Fotos  []PhotoSource
}

func validate(in CreateInput) error {
	missing := in.Fields.missing()
	if in.Firma == nil || in.Firma.IsEmpty() {
		missing = append(missing, "firma")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	if len(in.Fotos) > MaxFotos {
		return &ValidationError{Reason: fmt.Sprintf("máximo %d fotos", MaxFotos)}
	}
	return nil
}

// readPhotos lee todos los slots seleccionados en paralelo y espera a que
// terminen todos. Basta un fallo para abandonar la lectura completa.
// El resultado siempre tiene MaxFotos posiciones, con "" en los slots vacíos.
func readPhotos(ctx context.Context, srcs []PhotoSource) ([]string, error) {
	fotos := make([]string, MaxFotos)

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		if src == nil {
			continue
		}
		g.Go(func() error {
			s, err := src.Read(gctx)
			if err != nil {
				return &AttachmentError{Slot: i + 1, Err: err}
			}
			fotos[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fotos, nil
}

// build arma el acta; no toca el Store.
func build(ctx context.Context, id int64, in CreateInput) (Acta, error) {
	if err := validate(in); err != nil {
		return Acta{}, err
	}

	fotos, err := readPhotos(ctx, in.Fotos)
	if err != nil {
		return Acta{}, err
	}

	firma, err := in.Firma.DataURL()
	if err != nil {
		return Acta{}, fmt.Errorf("render firma: %w", err)
	}

	f := in.Fields.trimmed()
	return Acta{
		ID:            id,
		Entidad:       f.Entidad,
		ActaNum:       f.ActaNum,
		Fecha:         f.Fecha,
		Hora:          f.Hora,
		Area:          f.Area,
		RealizadoPor:  f.RealizadoPor,
		Descripcion:   f.Descripcion,
		Participantes: f.Participantes,
		Observacion:   f.Observacion,
		NombreFirma:   f.NombreFirma,
		Firma:         firma,
		FirmaCoords:   in.Firma.Strokes(),
		Fotos:         fotos,
	}, nil
}
