package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"actas-mantenimiento/internal/domain/actas"
	"actas-mantenimiento/internal/platform/dataurl"
	"actas-mantenimiento/internal/platform/httpclient"
	"actas-mantenimiento/internal/platform/imaging"
)

// apiClient habla con la API HTTP de actas.
type apiClient struct {
	http *httpclient.Client
}

func newAPIClient(server string, timeout time.Duration) (*apiClient, error) {
	c, err := httpclient.NewWithBaseURL(server, timeout)
	if err != nil {
		return nil, err
	}
	return &apiClient{http: c}, nil
}

func (c *apiClient) List(ctx context.Context) ([]actas.ListEntry, error) {
	var out []actas.ListEntry
	if err := c.http.DoJSON(ctx, http.MethodGet, "/actas", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) Delete(ctx context.Context, id int64) error {
	return c.http.DoJSON(ctx, http.MethodDelete, "/actas/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// addRequest son las rutas locales de la firma y las fotos del alta.
type addRequest struct {
	Fields     actas.Fields
	FirmaPath  string // PNG/JPEG ya dibujada
	TrazosPath string // JSON [[{x,y}...]...]
	FotoPaths  [actas.MaxFotos]string
}

// Create sube el alta como multipart, igual que el formulario.
func (c *apiClient) Create(ctx context.Context, req addRequest) (actas.Acta, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fieldValues(req.Fields) {
		if err := mw.WriteField(k, v); err != nil {
			return actas.Acta{}, err
		}
	}

	if req.TrazosPath != "" {
		raw, err := os.ReadFile(req.TrazosPath)
		if err != nil {
			return actas.Acta{}, fmt.Errorf("trazos de firma: %w", err)
		}
		if !json.Valid(raw) {
			return actas.Acta{}, fmt.Errorf("trazos de firma: %s no es JSON válido", req.TrazosPath)
		}
		if err := mw.WriteField("firma_trazos", string(raw)); err != nil {
			return actas.Acta{}, err
		}
	}
	if req.FirmaPath != "" {
		firma, err := firmaDataURL(req.FirmaPath)
		if err != nil {
			return actas.Acta{}, fmt.Errorf("firma: %w", err)
		}
		if err := mw.WriteField("firma", firma); err != nil {
			return actas.Acta{}, err
		}
	}
	for i, p := range req.FotoPaths {
		if p == "" {
			continue
		}
		if err := attach(mw, fmt.Sprintf("foto%d", i+1), p); err != nil {
			return actas.Acta{}, fmt.Errorf("foto %d: %w", i+1, err)
		}
	}
	if err := mw.Close(); err != nil {
		return actas.Acta{}, err
	}

	res, err := c.http.Do(ctx, http.MethodPost, "/actas", mw.FormDataContentType(), &buf)
	if err != nil {
		return actas.Acta{}, err
	}

	var a actas.Acta
	if err := json.Unmarshal(res.Body, &a); err != nil {
		return actas.Acta{}, fmt.Errorf("respuesta inválida: %w", err)
	}
	return a, nil
}

// Download baja un PDF y lo nombra con el filename del Content-Disposition.
func (c *apiClient) Download(ctx context.Context, path string) (actas.Document, error) {
	res, err := c.http.Do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return actas.Document{}, err
	}

	doc := actas.Document{Data: res.Body}
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil {
		doc.Name = filepath.Base(params["filename"])
	}
	if doc.Name == "" || doc.Name == "." || doc.Name == "/" {
		doc.Name = "acta.pdf"
	}
	doc.Pages, _ = strconv.Atoi(res.Header.Get("X-Pdf-Pages"))
	return doc, nil
}

// fieldValues usa las mismas claves que el formulario (las del JSON de Fields).
func fieldValues(f actas.Fields) map[string]string {
	b, _ := json.Marshal(f)
	var m map[string]string
	_ = json.Unmarshal(b, &m)
	return m
}

// firmaDataURL lee la imagen de la firma y la manda como data URL, como el pad del formulario.
func firmaDataURL(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mt, data, _, err := imaging.Normalize(raw)
	if err != nil {
		return "", err
	}
	return dataurl.Encode(mt, data), nil
}

func attach(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
