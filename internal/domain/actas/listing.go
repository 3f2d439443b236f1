package actas

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Action es un disparador ligado al id de un acta.
type Action struct {
	Method string `json:"method" yaml:"method"`
	Href   string `json:"href" yaml:"href"`
}

// ListEntry es la proyección de un acta en el listado.
type ListEntry struct {
	ID           int64  `json:"id" yaml:"id"`
	ActaNum      string `json:"acta_num" yaml:"acta_num"`
	Entidad      string `json:"entidad" yaml:"entidad"`
	Area         string `json:"area" yaml:"area"`
	FechaHora    string `json:"fecha_hora" yaml:"fecha_hora"`
	RealizadoPor string `json:"realizado_por" yaml:"realizado_por"`
	Fotos        int    `json:"fotos" yaml:"fotos"`

	Export Action `json:"export" yaml:"export"`
	Delete Action `json:"delete" yaml:"delete"`
}

// Render reconstruye el listado completo desde cero en cada llamada.
func Render(items []Acta) []ListEntry {
	out := make([]ListEntry, 0, len(items))
	for _, a := range items {
		id := strconv.FormatInt(a.ID, 10)
		out = append(out, ListEntry{
			ID:           a.ID,
			ActaNum:      a.ActaNum,
			Entidad:      a.Entidad,
			Area:         a.Area,
			FechaHora:    fmt.Sprintf("%s - %s", a.Fecha, a.Hora),
			RealizadoPor: a.RealizadoPor,
			Fotos:        a.FotoCount(),
			Export:       Action{Method: "GET", Href: "/actas/" + id + "/pdf"},
			Delete:       Action{Method: "DELETE", Href: "/actas/" + id},
		})
	}
	return out
}

// WriteText escribe el listado para terminal.
func WriteText(w io.Writer, entries []ListEntry) error {
	if len(entries) == 0 {
		_, err := io.WriteString(w, "No hay actas guardadas.\n")
		return err
	}

	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Acta N°: %s (id %d)\n", e.ActaNum, e.ID)
		fmt.Fprintf(&sb, "  Fecha y Hora: %s\n", e.FechaHora)
		fmt.Fprintf(&sb, "  Entidad/Área: %s / %s\n", e.Entidad, e.Area)
		fmt.Fprintf(&sb, "  Realizado por: %s\n", e.RealizadoPor)
		fmt.Fprintf(&sb, "  Fotos: %d\n", e.Fotos)
		fmt.Fprintf(&sb, "  Exportar: %s %s\n", e.Export.Method, e.Export.Href)
		fmt.Fprintf(&sb, "  Borrar: %s %s\n", e.Delete.Method, e.Delete.Href)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
