// Package dataurl codifica y decodifica data URLs base64 (RFC 2397), el formato
// en que viajan y se persisten la firma y las fotos de un acta.
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalid = errors.New("dataurl: invalid data url")

func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode devuelve el media type y los bytes. Solo acepta la variante base64.
func Decode(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalid
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalid
	}

	mime, isB64 := strings.CutSuffix(meta, ";base64")
	if !isB64 {
		return "", nil, ErrInvalid
	}
	if mime == "" {
		mime = "text/plain"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// algunos clientes omiten el padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, ErrInvalid
		}
	}
	return mime, data, nil
}
