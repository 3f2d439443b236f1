package actas

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"actas-mantenimiento/internal/signature"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /actas. heavy se aplica solo al alta y a los exportes
// PDF (p. ej. un rate limit).
func RegisterRoutes(r chi.Router, svc *Service, maxUpload int64, heavy ...func(http.Handler) http.Handler) {
	r.Route("/actas", func(ar chi.Router) {
		ar.With(heavy...).Post("/", createActaHandler(svc, maxUpload))
		ar.Get("/", listActasHandler(svc))

		// Exportaciones en bloque
		ar.With(heavy...).Get("/pdf", exportAllHandler(svc))
		ar.With(heavy...).Get("/fotos/pdf", exportPhotosHandler(svc))

		ar.Get("/{id}", getActaHandler(svc))
		ar.Delete("/{id}", deleteActaHandler(svc))
		ar.With(heavy...).Get("/{id}/pdf", exportOneHandler(svc))
	})
}

type createActaRequest struct {
	Fields
	Firma       string            `json:"firma"`        // data URL PNG/JPEG
	FirmaTrazos signature.Strokes `json:"firma_trazos"` // alternativa a firma
	Fotos       []string          `json:"fotos"`        // data URLs; "" = slot vacío
}

// createActaHandler godoc
// @Summary Guardar acta
// @Description Crea un acta de mantenimiento. Acepta multipart/form-data (campos del formulario, `firma` como data URL o `firma_trazos` como JSON, archivos `foto1`..`foto3`) o JSON. Las fotos se leen todas antes de guardar: si una falla no se guarda nada.
// @Tags actas
// @Accept json
// @Accept mpfd
// @Produce json
// @Param payload body createActaRequest false "Alta por JSON"
// @Success 201 {object} Acta
// @Failure 400 {string} string "por favor, rellena todos los campos obligatorios y firma el acta"
// @Failure 413 {string} string "request too large"
// @Failure 422 {string} string "hubo un error al leer las fotos del acta"
// @Failure 500 {string} string "internal error"
// @Router /actas [post]
func createActaHandler(svc *Service, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxUpload > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		}

		var (
			in  CreateInput
			err error
		)
		mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mt {
		case "multipart/form-data":
			in, err = parseMultipart(r, maxUpload)
		default:
			in, err = parseJSON(r)
		}
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, a)
	}
}

func parseJSON(r *http.Request) (CreateInput, error) {
	var req createActaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return CreateInput{}, err
		}
		return CreateInput{}, errors.New("invalid json")
	}

	firma, err := captureFrom(req.Firma, req.FirmaTrazos)
	if err != nil {
		return CreateInput{}, err
	}

	fotos := make([]PhotoSource, len(req.Fotos))
	for i, f := range req.Fotos {
		if strings.TrimSpace(f) != "" {
			fotos[i] = DataURLPhoto(f)
		}
	}

	return CreateInput{Fields: req.Fields, Firma: firma, Fotos: fotos}, nil
}

func parseMultipart(r *http.Request, maxUpload int64) (CreateInput, error) {
	mem := maxUpload
	if mem <= 0 {
		mem = 32 << 20
	}
	if err := r.ParseMultipartForm(mem); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return CreateInput{}, err
		}
		return CreateInput{}, errors.New("invalid multipart form")
	}

	f := Fields{
		Entidad:       r.FormValue("entidad"),
		ActaNum:       r.FormValue("actaNum"),
		Fecha:         r.FormValue("fecha"),
		Hora:          r.FormValue("hora"),
		Area:          r.FormValue("area"),
		RealizadoPor:  r.FormValue("realizadoPor"),
		Descripcion:   r.FormValue("descripcion"),
		Participantes: r.FormValue("participantes"),
		Observacion:   r.FormValue("observacion"),
		NombreFirma:   r.FormValue("nombreFirma"),
	}

	var strokes signature.Strokes
	if raw := strings.TrimSpace(r.FormValue("firma_trazos")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &strokes); err != nil {
			return CreateInput{}, errors.New("firma_trazos inválido")
		}
	}
	firma, err := captureFrom(r.FormValue("firma"), strokes)
	if err != nil {
		return CreateInput{}, err
	}

	fotos := make([]PhotoSource, MaxFotos)
	for i := range MaxFotos {
		key := fmt.Sprintf("foto%d", i+1)
		if hs := r.MultipartForm.File[key]; len(hs) > 0 {
			fotos[i] = FilePhoto{Header: hs[0]}
		} else if v := strings.TrimSpace(r.FormValue(key)); v != "" {
			fotos[i] = DataURLPhoto(v)
		}
	}

	return CreateInput{Fields: f, Firma: firma, Fotos: fotos}, nil
}

// captureFrom prioriza los trazos; si no hay, usa la imagen ya renderizada.
func captureFrom(dataURL string, strokes []signature.Stroke) (signature.Capture, error) {
	if len(strokes) > 0 {
		return signature.FromStrokes(0, 0, strokes), nil
	}
	img, err := signature.FromDataURL(strings.TrimSpace(dataURL))
	if err != nil {
		return nil, errors.New("firma inválida")
	}
	return img, nil
}

// listActasHandler godoc
// @Summary Listar actas
// @Description Listado completo, en orden de creación, con las acciones exportar y borrar de cada acta.
// @Tags actas
// @Produce json
// @Success 200 {array} ListEntry
// @Router /actas [get]
func listActasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.List())
	}
}

// getActaHandler godoc
// @Summary Obtener acta
// @Tags actas
// @Produce json
// @Param id path int true "ID del acta"
// @Success 200 {object} Acta
// @Failure 400 {string} string "invalid id"
// @Failure 404 {string} string "acta no encontrada"
// @Router /actas/{id} [get]
func getActaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		a, err := svc.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// deleteActaHandler godoc
// @Summary Borrar acta
// @Description Borra todas las actas con ese id y persiste la colección.
// @Tags actas
// @Param id path int true "ID del acta"
// @Success 204
// @Failure 400 {string} string "invalid id"
// @Failure 404 {string} string "acta no encontrada"
// @Failure 500 {string} string "internal error"
// @Router /actas/{id} [delete]
func deleteActaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// exportOneHandler godoc
// @Summary Exportar acta a PDF
// @Tags actas
// @Produce application/pdf
// @Param id path int true "ID del acta"
// @Success 200 {file} file
// @Header 200 {int} X-Pdf-Pages "Cantidad de páginas"
// @Failure 404 {string} string "acta no encontrada"
// @Failure 500 {string} string "internal error"
// @Router /actas/{id}/pdf [get]
func exportOneHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		doc, err := svc.ExportOne(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writePDF(w, doc)
	}
}

// exportAllHandler godoc
// @Summary Exportar todas las actas
// @Description Un único PDF con todas las actas, cada una empezando en página nueva.
// @Tags actas
// @Produce application/pdf
// @Success 200 {file} file
// @Header 200 {int} X-Pdf-Pages "Cantidad de páginas"
// @Failure 404 {string} string "no hay actas guardadas para exportar"
// @Router /actas/pdf [get]
func exportAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.ExportAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writePDF(w, doc)
	}
}

// exportPhotosHandler godoc
// @Summary Exportar todas las fotos
// @Description Un PDF solo con las fotos de evidencia de todas las actas.
// @Tags actas
// @Produce application/pdf
// @Success 200 {file} file
// @Header 200 {int} X-Pdf-Pages "Cantidad de páginas"
// @Failure 404 {string} string "no hay fotos para exportar"
// @Router /actas/fotos/pdf [get]
func exportPhotosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.ExportAllPhotos(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writePDF(w, doc)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAttachment):
		http.Error(w, ErrAttachment.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNothingToExport),
		errors.Is(err, ErrNoPhotos):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writePDF(w http.ResponseWriter, doc Document) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("X-Pdf-Pages", strconv.Itoa(doc.Pages))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
