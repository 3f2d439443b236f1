package actas

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"actas-mantenimiento/internal/platform/dataurl"
	"actas-mantenimiento/internal/platform/imaging"
)

// MaxPhotoBytes limita cada foto individual.
const MaxPhotoBytes = 10 << 20

// DataURLPhoto es una foto que ya viene como data URL (alta por JSON / CLI).
type DataURLPhoto string

func (p DataURLPhoto) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, data, err := dataurl.Decode(string(p))
	if err != nil {
		return "", err
	}
	return encodePhoto(data)
}

// FilePhoto es un archivo subido por multipart.
type FilePhoto struct {
	Header *multipart.FileHeader
}

func (p FilePhoto) Read(ctx context.Context) (string, error) {
	if p.Header == nil {
		return "", fmt.Errorf("archivo vacío")
	}
	if p.Header.Size > MaxPhotoBytes {
		return "", fmt.Errorf("%s supera %d bytes", p.Header.Filename, MaxPhotoBytes)
	}

	f, err := p.Header.Open()
	if err != nil {
		return "", fmt.Errorf("abrir %s: %w", p.Header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxPhotoBytes+1))
	if err != nil {
		return "", fmt.Errorf("leer %s: %w", p.Header.Filename, err)
	}
	if len(data) > MaxPhotoBytes {
		return "", fmt.Errorf("%s supera %d bytes", p.Header.Filename, MaxPhotoBytes)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return encodePhoto(data)
}

// ReaderPhoto adapta cualquier io.Reader (archivos locales, tests).
type ReaderPhoto struct {
	R io.Reader
}

func (p ReaderPhoto) Read(ctx context.Context) (string, error) {
	data, err := io.ReadAll(io.LimitReader(p.R, MaxPhotoBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxPhotoBytes {
		return "", fmt.Errorf("foto supera %d bytes", MaxPhotoBytes)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return encodePhoto(data)
}

func encodePhoto(data []byte) (string, error) {
	mime, out, _, err := imaging.Normalize(data)
	if err != nil {
		return "", err
	}
	return dataurl.Encode(mime, out), nil
}
