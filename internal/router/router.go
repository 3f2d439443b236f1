package router

import (
	"context"
	"net/http"
	"time"

	mem "actas-mantenimiento/internal/adapters/storage/memory"
	"actas-mantenimiento/internal/domain/actas"
	"actas-mantenimiento/internal/middleware"
	"actas-mantenimiento/internal/pdfexport"
	"actas-mantenimiento/internal/platform/logger"
	"actas-mantenimiento/internal/platform/metrics"

	_ "actas-mantenimiento/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si no viene, se arma un servicio con slot en memoria (modo dev / tests).
	Service *actas.Service

	Logger  logger.Logger    // puede ser nil
	Metrics *metrics.Metrics // puede ser nil

	MaxUploadBytes int64

	// RateLimit acota altas y exportes PDF por IP y por minuto; 0 = sin límite.
	RateLimit int
	// AllowedOrigins para CORS; vacío = "*".
	AllowedOrigins []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Pdf-Pages"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(opts.Metrics))
	// dentro de los anteriores para que el 500 quede logueado y medido
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svc := opts.Service
	if svc == nil {
		svc = actas.NewService(actas.NewStore(mem.NewSlotRepo()), actas.Deps{
			Exporter: pdfexport.New(pdfexport.Options{Logger: log}),
			Logger:   log,
			Metrics:  opts.Metrics,
		})
		// slot vacío: no puede fallar
		_ = svc.Load(context.Background())
	}

	var heavy []func(http.Handler) http.Handler
	if opts.RateLimit > 0 {
		heavy = append(heavy, httprate.LimitByIP(opts.RateLimit, time.Minute))
	}

	actas.RegisterRoutes(r, svc, opts.MaxUploadBytes, heavy...)

	return r
}
