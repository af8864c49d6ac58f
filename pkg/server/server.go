package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/sparrow-vision/access-atlas/pkg/handlers/report"
	accessatlasmiddleware "github.com/sparrow-vision/access-atlas/pkg/server/middleware"
	reportsvc "github.com/sparrow-vision/access-atlas/pkg/services/report"
	reportstore "github.com/sparrow-vision/access-atlas/pkg/store/report"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Store     reportstore.Store
	Generator *reportsvc.Generator
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	reportHandler := handlers.NewHandler(config.Dependencies.Store, config.Dependencies.Generator)

	router := chi.NewRouter()

	router.Use(accessatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports", reportHandler.ListReports)
		r.Post("/reports", reportHandler.CreateReport)
		r.Post("/reports/preview", reportHandler.PreviewReport)
		r.Get("/reports/{id}", reportHandler.GetReport)
		r.Put("/reports/{id}", reportHandler.UpdateReport)
		r.Delete("/reports/{id}", reportHandler.DeleteReport)
		r.Post("/reports/{id}/status", reportHandler.SetReportStatus)
		r.Post("/reports/{id}/generate", reportHandler.GenerateReport)
		r.Get("/templates", reportHandler.ListTemplates)
		r.Post("/export/{format}", reportHandler.ExportReport)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

// Router exposes the configured mux, used by tests to drive requests
// without binding a socket.
func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
