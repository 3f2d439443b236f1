// Package signature representa la firma manuscrita capturada en el formulario.
//
// Hay dos formas de recibirla: como trazos (Pad), que se rasterizan aquí, o
// como una imagen ya renderizada por el cliente (Image).
package signature

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmpty = errors.New("signature: empty")

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Stroke es un trazo continuo (pointer down → up).
type Stroke []Point

// NoSignature es lo que guardaban los blobs viejos cuando no había trazos.
const NoSignature = "No hay firma"

// Strokes es la forma persistida de los trazos. Al leer acepta también un
// string con el JSON de los trazos y el texto NoSignature.
type Strokes []Stroke

func (s *Strokes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}

	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == NoSignature {
			*s = nil
			return nil
		}
		b = []byte(raw)
	}

	var out []Stroke
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("signature: strokes: %w", err)
	}
	*s = out
	return nil
}

// Capture es el contrato del colaborador de firma.
type Capture interface {
	IsEmpty() bool
	Clear()
	// DataURL renderiza la firma como PNG en data URL.
	DataURL() (string, error)
	// Strokes devuelve los trazos si se conocen (nil para firmas ya rasterizadas).
	Strokes() []Stroke
}
