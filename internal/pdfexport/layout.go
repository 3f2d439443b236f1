package pdfexport

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"actas-mantenimiento/internal/domain/actas"
)

// Medidas en mm sobre A4 vertical.
const (
	margin     = 10.0
	lineHeight = 7.0
	wrapWidth  = 180.0

	titleSize = 18.0
	bodySize  = 12.0
	font      = "Helvetica"

	signatureBlock = 50.0
	signatureW     = 80.0
	signatureH     = 40.0

	photoGap = 20.0 // label + separación que debe entrar junto con la foto
)

type field struct {
	label string
	value string
}

func fields(a actas.Acta) []field {
	return []field{
		{"Entidad", a.Entidad},
		{"Número de Acta", a.ActaNum},
		{"Fecha", a.Fecha},
		{"Hora", a.Hora},
		{"Área", a.Area},
		{"Realizado por", a.RealizadoPor},
		{"Descripción", a.Descripcion},
		{"Participantes", a.Participantes},
		{"Observación", a.Observacion},
		{"Nombre de quien firma", a.NombreFirma},
	}
}

// document lleva el cursor vertical y por dónde va la página actual.
// y es siempre la línea base del próximo texto.
type document struct {
	pdf   *fpdf.Fpdf
	pageW float64
	pageH float64
	y     float64
}

func newDocument(title string, now time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("actas-mantenimiento", true)
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetFont(font, "", bodySize)

	w, h := pdf.GetPageSize()
	return &document{pdf: pdf, pageW: w, pageH: h}
}

func (d *document) newPage() {
	d.pdf.AddPage()
	d.y = margin
}

func (d *document) width(s string) float64 { return d.pdf.GetStringWidth(s) }

// text escribe una línea ya codificada en la posición dada.
func (d *document) text(x, y float64, s string) {
	d.pdf.Text(x, y, s)
}

// lines escribe texto envuelto, saltando de página antes de cruzar el margen inferior.
func (d *document) lines(s string) {
	for _, l := range wrap(d.width, winAnsi(s), wrapWidth) {
		if d.y > d.pageH-margin {
			d.newPage()
		}
		d.text(margin, d.y, l)
		d.y += lineHeight
	}
}

func (d *document) title(actaNum string) {
	d.pdf.SetFontSize(titleSize)
	for i, l := range wrap(d.width, winAnsi("Acta de Mantenimiento N°: "+actaNum), wrapWidth) {
		if i > 0 {
			d.y += lineHeight
		}
		d.text((d.pageW-d.width(l))/2, d.y, l)
	}
	d.y += 10
	d.pdf.SetFontSize(bodySize)
}

// acta maqueta un acta completa a partir del cursor actual.
func (d *document) acta(a actas.Acta, as actaAssets) {
	d.title(a.ActaNum)

	for _, f := range fields(a) {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		d.lines(f.label + ": " + f.value)
	}

	d.signature(as.firma)

	if as.fotoCount() == 0 {
		return
	}
	if d.y+10 > d.pageH-margin {
		d.newPage()
	}
	d.text(margin, d.y+10, winAnsi("Fotos de Evidencia:"))
	d.y += 15
	for slot, f := range as.fotos {
		if f == nil {
			continue
		}
		d.photo(f, fmt.Sprintf("Foto %d:", slot+1))
	}
}

func (d *document) signature(img *asset) {
	if d.y+signatureBlock > d.pageH-margin {
		d.newPage()
	}
	d.text(margin, d.y+5, "Firma:")
	if img != nil {
		d.image(img, margin, d.y+10, signatureW, signatureH)
	}
	d.y += signatureBlock
}

// photo coloca una foto al ancho útil con su proporción real. Si es tan alta
// que no entraría ni en una página vacía, se achica manteniendo la proporción.
func (d *document) photo(img *asset, label string) {
	ratio := img.info.Ratio()
	w := d.pageW - 2*margin
	h := w * ratio

	if maxH := d.pageH - margin - photoGap; h > maxH {
		h = maxH
		w = h / ratio
	}

	if d.y+h+photoGap > d.pageH {
		d.newPage()
	}
	d.text(margin, d.y, winAnsi(label))
	d.y += 5
	d.image(img, margin, d.y, w, h)
	d.y += h + 10
}

func (d *document) image(img *asset, x, y, w, h float64) {
	opt := fpdf.ImageOptions{ImageType: img.typ}
	if d.pdf.GetImageInfo(img.key) == nil {
		d.pdf.RegisterImageOptionsReader(img.key, opt, bytes.NewReader(img.data))
	}
	d.pdf.ImageOptions(img.key, x, y, w, h, false, opt, 0, "")
}

func (d *document) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
