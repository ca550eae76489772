package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ivlev/sketch2html/internal/config"
	"github.com/ivlev/sketch2html/internal/pipeline"
	"github.com/ivlev/sketch2html/internal/storage"
	"github.com/ivlev/sketch2html/internal/system"
)

// Converter turns an uploaded mockup into an HTML document.
type Converter interface {
	Convert(ctx context.Context, store storage.Storage, data []byte, name string) (*pipeline.Result, error)
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	conv       Converter
	store      storage.Storage
	maxUpload  int64
	maxPixels  int64
	log        logrus.FieldLogger
}

// New builds and wires all routes. store may be nil to skip persistence.
func New(cfg config.Config, conv Converter, store storage.Storage, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = system.DiscardLogger()
	}

	s := &Server{
		conv:      conv,
		store:     store,
		maxUpload: int64(cfg.Server.MaxUploadMB) << 20,
		maxPixels: cfg.MaxPixels,
		log:       logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Upload-ID", "X-Document-Location"},
	}))

	r.Get("/healthz", s.health)
	r.Route("/api", func(api chi.Router) {
		api.Post("/convert", s.convert)
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
