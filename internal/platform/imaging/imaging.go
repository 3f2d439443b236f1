// Package imaging identifica y normaliza las imágenes adjuntas a un acta.
//
// Se aceptan JPEG, PNG, GIF, WebP y BMP. Los formatos que no se pueden
// embeber tal cual en un PDF (WebP, BMP) se transcodifican a PNG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxPixels es el máximo de píxeles (ancho*alto) que se acepta decodificar.
const MaxPixels = 40_000_000

var (
	ErrNotImage = errors.New("imaging: not a supported image")
	ErrTooLarge = errors.New("imaging: image too large")
)

type Info struct {
	Format string // jpeg, png, gif, webp, bmp
	Width  int
	Height int
}

// Ratio devuelve alto/ancho; 3/4 si las dimensiones no son conocidas.
func (i Info) Ratio() float64 {
	if i.Width <= 0 || i.Height <= 0 {
		return 3.0 / 4.0
	}
	return float64(i.Height) / float64(i.Width)
}

// Sniff lee sólo la cabecera. Rechaza dimensiones por encima de MaxPixels.
func Sniff(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: %dx%d", ErrNotImage, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Info{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode decodifica la imagen completa después de validar la cabecera.
func Decode(data []byte) (image.Image, Info, error) {
	info, err := Sniff(data)
	if err != nil {
		return nil, Info{}, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, info, nil
}

// Normalize deja JPEG/PNG/GIF intactos y pasa el resto a PNG.
// Devuelve el media type resultante.
func Normalize(data []byte) (string, []byte, Info, error) {
	img, info, err := Decode(data)
	if err != nil {
		return "", nil, Info{}, err
	}

	switch info.Format {
	case "jpeg", "png", "gif":
		return "image/" + info.Format, data, info, nil
	}

	out, err := EncodePNG(img)
	if err != nil {
		return "", nil, Info{}, err
	}
	info.Format = "png"
	return "image/png", out, info, nil
}

// EncodePNG re-codifica img como PNG RGBA de 8 bits
// (sin entrelazado ni 16 bits por canal).
func EncodePNG(img image.Image) ([]byte, error) {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("imaging: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
