// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/examforge/question-extractor/internal/config"
	"github.com/examforge/question-extractor/internal/export"
	"github.com/examforge/question-extractor/internal/ingest"
	"github.com/examforge/question-extractor/internal/pipeline"
)

// ProviderStatus is one row of the operator-facing provider listing.
type ProviderStatus struct {
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// StatusFunc reports one provider tier's current state.
type StatusFunc func(ctx context.Context) ProviderStatus

// Server wires the HTTP surface to the pipeline.
type Server struct {
	cfg       config.ServerConfig
	opts      pipeline.Options
	extractor *pipeline.Extractor
	ingestor  *ingest.Service
	exporter  *export.Service
	statuses  []StatusFunc
	logger    *slog.Logger
}

func NewServer(
	cfg config.ServerConfig,
	opts pipeline.Options,
	extractor *pipeline.Extractor,
	ingestor *ingest.Service,
	exporter *export.Service,
	statuses []StatusFunc,
	logger *slog.Logger,
) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		opts:      opts,
		extractor: extractor,
		ingestor:  ingestor,
		exporter:  exporter,
		statuses:  statuses,
		logger:    logger,
	}
}

// Router builds the chi router with the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/extract/file", s.handleExtractFile)
		r.Post("/export", s.handleExport)
		r.Get("/providers", s.handleProviders)
	})

	return r
}
