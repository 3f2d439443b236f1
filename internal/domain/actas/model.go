package actas

import (
	"strings"

	"actas-mantenimiento/internal/signature"
)

// MaxFotos es la cantidad fija de slots de foto de un acta.
const MaxFotos = 3

// Acta es un acta de visita de mantenimiento. Una vez creada no se modifica:
// solo puede borrarse.
//
// Las claves JSON son las del blob persistido, así un export del slot
// sigue siendo legible por versiones anteriores.
type Acta struct {
	ID int64 `json:"id"` // timestamp de creación en ms, monótono

	Entidad       string `json:"entidad"`
	ActaNum       string `json:"actaNum"` // no es único
	Fecha         string `json:"fecha"`
	Hora          string `json:"hora"`
	Area          string `json:"area"`
	RealizadoPor  string `json:"realizadoPor"`
	Descripcion   string `json:"descripcion"`
	Participantes string `json:"participantes"`
	Observacion   string `json:"observacion"`
	NombreFirma   string `json:"nombreFirma"`

	Firma       string            `json:"firma"` // PNG en data URL
	FirmaCoords signature.Strokes `json:"firmaCoords,omitempty"`

	// Fotos tiene siempre MaxFotos slots; "" = slot sin foto.
	Fotos []string `json:"fotos"`
}

// FotoCount cuenta los slots con foto.
func (a Acta) FotoCount() int {
	n := 0
	for _, f := range a.Fotos {
		if f != "" {
			n++
		}
	}
	return n
}

// Fields son los valores de texto del formulario de alta.
type Fields struct {
	Entidad       string `json:"entidad" yaml:"entidad"`
	ActaNum       string `json:"actaNum" yaml:"actaNum"`
	Fecha         string `json:"fecha" yaml:"fecha"`
	Hora          string `json:"hora" yaml:"hora"`
	Area          string `json:"area" yaml:"area"`
	RealizadoPor  string `json:"realizadoPor" yaml:"realizadoPor"`
	Descripcion   string `json:"descripcion" yaml:"descripcion"`
	Participantes string `json:"participantes" yaml:"participantes"`
	Observacion   string `json:"observacion" yaml:"observacion"`
	NombreFirma   string `json:"nombreFirma" yaml:"nombreFirma"`
}

func (f Fields) trimmed() Fields {
	return Fields{
		Entidad:       strings.TrimSpace(f.Entidad),
		ActaNum:       strings.TrimSpace(f.ActaNum),
		Fecha:         strings.TrimSpace(f.Fecha),
		Hora:          strings.TrimSpace(f.Hora),
		Area:          strings.TrimSpace(f.Area),
		RealizadoPor:  strings.TrimSpace(f.RealizadoPor),
		Descripcion:   strings.TrimSpace(f.Descripcion),
		Participantes: strings.TrimSpace(f.Participantes),
		Observacion:   strings.TrimSpace(f.Observacion),
		NombreFirma:   strings.TrimSpace(f.NombreFirma),
	}
}

// missing devuelve los nombres (claves del formulario) de los obligatorios vacíos.
func (f Fields) missing() []string {
	required := []struct {
		name  string
		value string
	}{
		{"entidad", f.Entidad},
		{"actaNum", f.ActaNum},
		{"fecha", f.Fecha},
		{"hora", f.Hora},
		{"area", f.Area},
		{"realizadoPor", f.RealizadoPor},
		{"descripcion", f.Descripcion},
		{"nombreFirma", f.NombreFirma},
	}

	var out []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			out = append(out, r.name)
		}
	}
	return out
}

// Document es un PDF ya generado, listo para descargar.
type Document struct {
	Name  string
	Data  []byte
	Pages int
}
