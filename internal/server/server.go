// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/analyzer"
	"github.com/fixwise/fixwise/internal/config"
)

const shutdownGrace = 10 * time.Second

type Server struct {
	cfg    config.ServerConfig
	router *chi.Mux
	engine *analyzer.Engine
}

func New(cfg config.ServerConfig, engine *analyzer.Engine) *Server {
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		engine: engine,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.WriteTimeout))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/health", s.handleHealth)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	slog.Info("handling analyze request")

	var req apimodels.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Empty() {
		http.Error(w, "at least one of error_message, code_snippet, problem_description or log_info is required", http.StatusBadRequest)
		return
	}

	result := s.engine.Analyze(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("encoding analysis result failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("encoding health response failed", "error", err)
	}
}

// Run serves until the context is cancelled or an interrupt arrives,
// then drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Host + ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("server listening", "addr", srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
