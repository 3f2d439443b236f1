package pdfexport

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// winAnsi pasa UTF-8 a Windows-1252, la codificación de las fuentes core.
// Lo que no existe en la tabla sale como '?'.
func winAnsi(s string) string {
	s = norm.NFC.String(s)
	b := make([]byte, 0, len(s))
	for _, r := range s {
		switch r {
		case '\t':
			b = append(b, ' ')
			continue
		case '\r':
			continue
		}
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b = append(b, c)
	}
	return string(b)
}

// wrap corta s (ya en Windows-1252) en líneas de ancho <= limit según width.
// Respeta los saltos de línea del texto y parte palabras que no entran solas.
func wrap(width func(string) float64, s string, limit float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.FieldsFunc(para, func(r rune) bool { return r == ' ' })
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		line := ""
		for _, w := range words {
			for width(w) > limit {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				n := fit(width, w, limit)
				out = append(out, w[:n])
				w = w[n:]
			}

			cand := w
			if line != "" {
				cand = line + " " + w
			}
			if width(cand) <= limit {
				line = cand
				continue
			}
			out = append(out, line)
			line = w
		}
		out = append(out, line)
	}
	return out
}

// fit devuelve cuántos bytes de w entran en limit (al menos 1).
func fit(width func(string) float64, w string, limit float64) int {
	n := 1
	for n < len(w) && width(w[:n+1]) <= limit {
		n++
	}
	return n
}

// maxSlugBytes acota cada parte del nombre de archivo.
const maxSlugBytes = 80

// slug deja un fragmento seguro para nombre de archivo: sin tildes,
// espacios como '_', solo letras, dígitos, '.', '-' y '_'. Corta en
// maxSlugBytes.
func slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		plain = s
	}

	var sb strings.Builder
	for _, r := range plain {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune('_')
		}
	}

	out := strings.Trim(sb.String(), "._-")
	if len(out) > maxSlugBytes {
		// solo ASCII: cortar por bytes no rompe runas
		out = strings.TrimRight(out[:maxSlugBytes], "._-")
	}
	if out == "" {
		return "sin-nombre"
	}
	return out
}
