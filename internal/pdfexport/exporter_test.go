package pdfexport

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actas-mantenimiento/internal/domain/actas"
	"actas-mantenimiento/internal/platform/dataurl"
	"actas-mantenimiento/internal/platform/imaging"
	"actas-mantenimiento/internal/signature"
)

func newExporter() *Exporter {
	return New(Options{Now: func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }})
}

func firmaDataURL(t *testing.T) string {
	t.Helper()
	p := signature.NewPad(0, 0)
	p.AddStroke(signature.Point{X: 20, Y: 150}, signature.Point{X: 200, Y: 40}, signature.Point{X: 380, Y: 160})
	s, err := p.DataURL()
	require.NoError(t, err)
	return s
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	return img
}

func pngPhoto(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return dataurl.Encode("image/png", buf.Bytes())
}

func jpegPhoto(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 80}))
	return dataurl.Encode("image/jpeg", buf.Bytes())
}

// acmeActa es el acta mínima de referencia: sin opcionales ni fotos.
func acmeActa(t *testing.T) actas.Acta {
	return actas.Acta{
		ID:           1704099600000,
		ActaNum:      "001",
		Entidad:      "ACME",
		Fecha:        "2024-01-01",
		Hora:         "09:00",
		Area:         "IT",
		RealizadoPor: "J.Doe",
		Descripcion:  "Routine check",
		NombreFirma:  "J.Doe",
		Firma:        firmaDataURL(t),
		Fotos:        []string{"", "", ""},
	}
}

// pageTexts devuelve el texto plano de cada página.
func pageTexts(t *testing.T, data []byte) []string {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			out = append(out, "")
			continue
		}
		s, err := p.GetPlainText(nil)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestExportOne_ReferenceActaIsSinglePage(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)

	doc, err := e.ExportOne(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, "acta-ACME-001.pdf", doc.Name)
	assert.Equal(t, 1, doc.Pages)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))

	pages := pageTexts(t, doc.Data)
	require.Len(t, pages, 1)
	for _, want := range []string{
		"Acta de Mantenimiento N",
		"Entidad: ACME",
		"Fecha: 2024-01-01",
		"Hora: 09:00",
		"Realizado por: J.Doe",
		"Routine check",
		"Nombre de quien firma: J.Doe",
		"Firma:",
	} {
		assert.Contains(t, pages[0], want)
	}
	assert.NotContains(t, pages[0], "Participantes")
	assert.NotContains(t, pages[0], "Fotos de Evidencia")
}

func TestExportAll_SingleActaMatchesExportOne(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)

	one, err := e.ExportOne(context.Background(), a)
	require.NoError(t, err)
	all, err := e.ExportAll(context.Background(), []actas.Acta{a})
	require.NoError(t, err)

	assert.Equal(t, AllActasFile, all.Name)
	assert.Equal(t, one.Pages, all.Pages)
	assert.Equal(t, pageTexts(t, one.Data), pageTexts(t, all.Data))
}

func TestExportAll_PageBreakPerActaWithoutBleed(t *testing.T) {
	e := newExporter()
	var items []actas.Acta
	for i := 1; i <= 3; i++ {
		a := acmeActa(t)
		a.ID += int64(i)
		a.ActaNum = fmt.Sprintf("10%d", i)
		a.Entidad = fmt.Sprintf("ENT-%d", i)
		items = append(items, a)
	}

	doc, err := e.ExportAll(context.Background(), items)
	require.NoError(t, err)
	require.Equal(t, 3, doc.Pages)

	pages := pageTexts(t, doc.Data)
	require.Len(t, pages, 3)
	for i, text := range pages {
		for j := 1; j <= 3; j++ {
			entidad := fmt.Sprintf("Entidad: ENT-%d", j)
			if j == i+1 {
				assert.Contains(t, text, entidad, "página %d", i+1)
			} else {
				assert.NotContains(t, text, entidad, "página %d", i+1)
			}
		}
	}
}

func TestExportAll_Empty(t *testing.T) {
	_, err := newExporter().ExportAll(context.Background(), nil)
	assert.ErrorIs(t, err, actas.ErrNothingToExport)
}

func TestExportOne_LongTextSpansPages(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)
	a.Descripcion = strings.Repeat("mantenimiento preventivo del servidor ", 250) + "FIN-DEL-TEXTO"

	doc, err := e.ExportOne(context.Background(), a)
	require.NoError(t, err)
	require.GreaterOrEqual(t, doc.Pages, 3)

	pages := pageTexts(t, doc.Data)
	assert.Len(t, pages, doc.Pages)

	joined := strings.Join(pages, "")
	assert.Contains(t, joined, "FIN-DEL-TEXTO")
	assert.Contains(t, pages[len(pages)-1], "Firma:")
}

func TestExportOne_PhotoOverflowsToNextPage(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)
	a.Fotos = []string{pngPhoto(t, 40, 30), "", ""}

	doc, err := e.ExportOne(context.Background(), a)
	require.NoError(t, err)
	require.Equal(t, 2, doc.Pages)

	pages := pageTexts(t, doc.Data)
	assert.Contains(t, pages[0], "Fotos de Evidencia:")
	assert.NotContains(t, pages[0], "Foto 1:")
	assert.Contains(t, pages[1], "Foto 1:")
}

func TestExportOne_PhotoSlotNumbersKept(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)
	a.Fotos = []string{"", "", jpegPhoto(t, 60, 20)}

	doc, err := e.ExportOne(context.Background(), a)
	require.NoError(t, err)

	joined := strings.Join(pageTexts(t, doc.Data), "")
	assert.Contains(t, joined, "Foto 3:")
	assert.NotContains(t, joined, "Foto 1:")
}

func TestExportOne_VeryTallPhotoIsScaled(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)
	a.Fotos = []string{pngPhoto(t, 10, 200), "", ""}

	doc, err := e.ExportOne(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
}

func TestExportOne_CorruptPhoto(t *testing.T) {
	a := acmeActa(t)
	a.Fotos = []string{"data:image/png;base64,bm8gZXMgdW5hIGltYWdlbg==", "", ""}

	_, err := newExporter().ExportOne(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foto 1 del acta 001")
}

func TestExportOne_ThreePhotos(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)
	a.Fotos = []string{pngPhoto(t, 40, 30), jpegPhoto(t, 40, 30), pngPhoto(t, 30, 40)}

	doc, err := e.ExportOne(context.Background(), a)
	require.NoError(t, err)
	require.Equal(t, 4, doc.Pages)

	pages := pageTexts(t, doc.Data)
	require.Len(t, pages, 4)
	assert.Contains(t, pages[0], "Fotos de Evidencia:")
	for i := 1; i <= 3; i++ {
		assert.Contains(t, pages[i], fmt.Sprintf("Foto %d:", i))
	}
}

// brokenPNG devuelve firma + IHDR sin IDAT, con las dimensiones pedidas.
func brokenPNG(t *testing.T, w, h uint32) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(1, 1)))
	b := buf.Bytes()[:33]
	binary.BigEndian.PutUint32(b[16:], w)
	binary.BigEndian.PutUint32(b[20:], h)
	binary.BigEndian.PutUint32(b[29:], crc32.ChecksumIEEE(b[12:29]))
	return dataurl.Encode("image/png", b)
}

func TestExport_BrokenStoredPhoto(t *testing.T) {
	tests := []struct {
		name string
		foto string
		want error
	}{
		{"truncado", brokenPNG(t, 4, 4), imaging.ErrNotImage},
		{"enorme", brokenPNG(t, 100_000, 100_000), imaging.ErrTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			good := acmeActa(t)
			bad := acmeActa(t)
			bad.ID++
			bad.ActaNum = "002"
			bad.Fotos = []string{"", tc.foto, ""}

			_, err := newExporter().ExportAll(context.Background(), []actas.Acta{good, bad})
			require.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "foto 2 del acta 002")

			_, err = newExporter().ExportAllPhotos(context.Background(), []actas.Acta{good, bad})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExportAllPhotos(t *testing.T) {
	e := newExporter()
	a := acmeActa(t)
	a.Fotos = []string{pngPhoto(t, 40, 30), "", ""}
	b := acmeActa(t)
	b.ID++
	b.ActaNum = "002"
	b.Fotos = []string{"", jpegPhoto(t, 40, 30), ""}
	c := acmeActa(t)
	c.ID += 2
	c.ActaNum = "003"

	doc, err := e.ExportAllPhotos(context.Background(), []actas.Acta{a, b, c})
	require.NoError(t, err)

	assert.Equal(t, AllPhotosFile, doc.Name)
	require.Equal(t, 2, doc.Pages)

	pages := pageTexts(t, doc.Data)
	assert.Contains(t, pages[0], "001 - Foto 1")
	assert.Contains(t, pages[1], "002 - Foto 2")
	assert.NotContains(t, strings.Join(pages, ""), "003")
	assert.NotContains(t, strings.Join(pages, ""), "Entidad")
}

func TestExportAllPhotos_NoPhotos(t *testing.T) {
	_, err := newExporter().ExportAllPhotos(context.Background(), []actas.Acta{acmeActa(t)})
	assert.ErrorIs(t, err, actas.ErrNoPhotos)
}

func TestExport_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := acmeActa(t)
	a.Fotos = []string{pngPhoto(t, 4, 3), "", ""}
	_, err := newExporter().ExportOne(ctx, a)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		entidad, num, want string
	}{
		{"ACME", "001", "acta-ACME-001.pdf"},
		{"Hospital San José", "12/2024", "acta-Hospital_San_Jose-122024.pdf"},
		{"  ", "", "acta-sin-nombre-sin-nombre.pdf"},
		{"Ñandú S.A.", "7", "acta-Nandu_S.A-7.pdf"},
		{strings.Repeat("x", 300), strings.Repeat("9", 300), "acta-" + strings.Repeat("x", maxSlugBytes) + "-" + strings.Repeat("9", maxSlugBytes) + ".pdf"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			got := FileName(actas.Acta{Entidad: tc.entidad, ActaNum: tc.num})
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, len(got), 255)
		})
	}
}

func TestPageCount_Invalid(t *testing.T) {
	_, err := PageCount([]byte("no es un pdf"))
	assert.Error(t, err)
}
