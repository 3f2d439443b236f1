package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"actas-mantenimiento/internal/platform/dataurl"
	"actas-mantenimiento/internal/platform/imaging"
)

// Image es una firma que el cliente ya rasterizó (p. ej. canvas.toDataURL()).
type Image struct {
	img image.Image
}

// FromDataURL decodifica la imagen. Un data URL vacío produce una firma vacía.
func FromDataURL(s string) (*Image, error) {
	if s == "" {
		return &Image{}, nil
	}
	_, data, err := dataurl.Decode(s)
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	return &Image{img: img}, nil
}

// IsEmpty es true si no hay ningún píxel con tinta (opaco y no casi blanco).
func (i *Image) IsEmpty() bool {
	if i.img == nil {
		return true
	}
	b := i.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := i.img.At(x, y).RGBA()
			if a < 0x4000 {
				continue
			}
			if r < 0xE000 || g < 0xE000 || bl < 0xE000 {
				return false
			}
		}
	}
	return true
}

func (i *Image) Clear() { i.img = nil }

func (i *Image) Strokes() []Stroke { return nil }

// DataURL siempre entrega PNG, aunque el cliente haya enviado otro formato.
func (i *Image) DataURL() (string, error) {
	if i.img == nil {
		return "", ErrEmpty
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, i.img); err != nil {
		return "", fmt.Errorf("signature: encode png: %w", err)
	}
	return dataurl.Encode("image/png", buf.Bytes()), nil
}
