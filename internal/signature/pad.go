package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"actas-mantenimiento/internal/platform/dataurl"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 200
	defaultPen    = 2.5
)

// Pad acumula trazos y los dibuja en negro sobre fondo blanco.
type Pad struct {
	Width  int
	Height int
	Pen    float64

	strokes []Stroke
}

func NewPad(width, height int) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Pad{Width: width, Height: height, Pen: defaultPen}
}

// FromStrokes arma un Pad con los trazos recibidos, descartando trazos vacíos.
func FromStrokes(width, height int, strokes []Stroke) *Pad {
	p := NewPad(width, height)
	for _, s := range strokes {
		p.AddStroke(s...)
	}
	return p
}

func (p *Pad) AddStroke(points ...Point) {
	if len(points) == 0 {
		return
	}
	s := make(Stroke, len(points))
	copy(s, points)
	p.strokes = append(p.strokes, s)
}

func (p *Pad) IsEmpty() bool { return len(p.strokes) == 0 }

func (p *Pad) Clear() { p.strokes = nil }

func (p *Pad) Strokes() []Stroke {
	if len(p.strokes) == 0 {
		return nil
	}
	out := make([]Stroke, len(p.strokes))
	for i, s := range p.strokes {
		out[i] = append(Stroke(nil), s...)
	}
	return out
}

func (p *Pad) DataURL() (string, error) {
	if p.IsEmpty() {
		return "", ErrEmpty
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Render()); err != nil {
		return "", fmt.Errorf("signature: encode png: %w", err)
	}
	return dataurl.Encode("image/png", buf.Bytes()), nil
}

// Render rasteriza los trazos. Cada segmento es un cuadrilátero del ancho del
// lápiz, extendido medio lápiz en cada extremo para que las uniones no queden abiertas.
func (p *Pad) Render() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	hw := p.Pen / 2
	if hw <= 0 {
		hw = defaultPen / 2
	}

	z := vector.NewRasterizer(p.Width, p.Height)
	z.DrawOp = draw.Over
	for _, s := range p.strokes {
		if len(s) == 1 {
			segment(z, s[0], s[0], hw)
			continue
		}
		for i := 1; i < len(s); i++ {
			segment(z, s[i-1], s[i], hw)
		}
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{})
	return dst
}

func segment(z *vector.Rasterizer, a, b Point, hw float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	ux, uy := dx/l*hw, dy/l*hw // dirección
	nx, ny := -uy, ux          // normal

	ax, ay := a.X-ux, a.Y-uy
	bx, by := b.X+ux, b.Y+uy

	z.MoveTo(float32(ax+nx), float32(ay+ny))
	z.LineTo(float32(bx+nx), float32(by+ny))
	z.LineTo(float32(bx-nx), float32(by-ny))
	z.LineTo(float32(ax-nx), float32(ay-ny))
	z.ClosePath()
}
