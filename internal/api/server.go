package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/wedsum/internal/analyzer"
)

type Server struct {
	router   *chi.Mux
	port     int
	analyzer *analyzer.Analyzer
	pages    *pages
	logger   *slog.Logger
	http     *http.Server
}

// NewServer wires the upload page, the JSON API and the operational
// endpoints. metricsHandler may be nil, in which case /metrics is not served.
func NewServer(port int, a *analyzer.Analyzer, metricsHandler http.Handler, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		analyzer: a,
		pages:    loadPages(),
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/wedsum/status", s.status)
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler)
	}

	router.Get("/", s.index)
	router.Post("/analyze", s.analyzePage)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.analyzeJSON)
		r.Post("/parse", s.parseJSON)
	})

	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting uploads and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":            "wedsum",
		"status":           "ready",
		"provider":         s.analyzer.Provider(),
		"max_upload_bytes": s.analyzer.MaxUploadBytes(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
