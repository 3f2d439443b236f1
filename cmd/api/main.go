// @title Actas de Mantenimiento API
// @version 1.0
// @description Registro de actas de visita de mantenimiento con firma, fotos de evidencia y exportación a PDF.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"actas-mantenimiento/internal/adapters/bus/natsbus"
	"actas-mantenimiento/internal/adapters/storage"
	"actas-mantenimiento/internal/config"
	"actas-mantenimiento/internal/domain/actas"
	"actas-mantenimiento/internal/pdfexport"
	"actas-mantenimiento/internal/platform/logger"
	"actas-mantenimiento/internal/platform/metrics"
	"actas-mantenimiento/internal/router"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		logger.NewFromEnv().Warn(".env ignorado", map[string]any{"err": err.Error()})
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"err": err.Error()})
		os.Exit(2)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Warn("storage close", map[string]any{"err": err.Error()})
		}
	}()

	var notifier actas.Notifier
	if cfg.NATS.URL != "" {
		n, err := natsbus.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return err
		}
		defer n.Close()
		notifier = n
		log.Info("nats conectado", map[string]any{"url": cfg.NATS.URL, "subject": cfg.NATS.Subject})
	}

	m := metrics.New()

	svc := actas.NewService(actas.NewStore(repo), actas.Deps{
		Exporter: pdfexport.New(pdfexport.Options{Logger: log.With(map[string]any{"component": "pdfexport"})}),
		Notifier: notifier,
		Logger:   log.With(map[string]any{"component": "actas"}),
		Metrics:  m,
	})
	// Un slot ilegible no se pisa: se aborta el arranque.
	if err := svc.Load(ctx); err != nil {
		return err
	}

	r := router.NewRouter(router.Options{
		Service:        svc,
		Logger:         log,
		Metrics:        m,
		MaxUploadBytes: cfg.MaxUploadBytes,
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr, "storage": cfg.Storage.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
