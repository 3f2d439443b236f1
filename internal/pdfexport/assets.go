package pdfexport

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"actas-mantenimiento/internal/domain/actas"
	"actas-mantenimiento/internal/platform/dataurl"
	"actas-mantenimiento/internal/platform/imaging"
)

// asset es una imagen ya decodificada y lista para registrar en el PDF.
type asset struct {
	key  string
	typ  string // JPG | PNG
	data []byte
	info imaging.Info
}

type actaAssets struct {
	firma *asset
	fotos []*asset // mismo largo que Acta.Fotos; nil = slot vacío
}

func (a actaAssets) fotoCount() int {
	n := 0
	for _, f := range a.fotos {
		if f != nil {
			n++
		}
	}
	return n
}

// prepare decodifica en paralelo todas las imágenes de items y espera a que
// terminen antes de devolver. La maquetación necesita las dimensiones reales.
func prepare(ctx context.Context, items []actas.Acta, withFirma bool) ([]actaAssets, error) {
	out := make([]actaAssets, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, a := range items {
		out[i].fotos = make([]*asset, len(a.Fotos))

		if withFirma && a.Firma != "" {
			g.Go(func() error {
				as, err := decode(gctx, fmt.Sprintf("a%d-firma", i), a.Firma)
				if err != nil {
					return fmt.Errorf("firma del acta %s: %w", a.ActaNum, err)
				}
				out[i].firma = as
				return nil
			})
		}

		for slot, foto := range a.Fotos {
			if foto == "" {
				continue
			}
			g.Go(func() error {
				as, err := decode(gctx, fmt.Sprintf("a%d-foto-%d", i, slot+1), foto)
				if err != nil {
					return fmt.Errorf("foto %d del acta %s: %w", slot+1, a.ActaNum, err)
				}
				out[i].fotos[slot] = as
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// decode deja los JPEG tal cual; el resto se re-codifica como PNG de 8 bits,
// que es lo que fpdf sabe embeber.
func decode(ctx context.Context, key, s string) (*asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, data, err := dataurl.Decode(s)
	if err != nil {
		return nil, err
	}
	img, info, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	if info.Format == "jpeg" {
		return &asset{key: key, typ: "JPG", data: data, info: info}, nil
	}

	flat, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &asset{key: key, typ: "PNG", data: flat, info: info}, nil
}
