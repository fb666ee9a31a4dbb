// Package api is the HTTP/JSON variant of the plant store: a gorilla/mux
// server over the Badger repository and a client for the CLI.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/manav03panchal/plantcare/internal/config"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/storage"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves the plant API.
type Server struct {
	plants *storage.PlantRepo
	cfg    config.ServerConfig
	now    func() time.Time
}

// NewServer creates a server over plants.
func NewServer(plants *storage.PlantRepo, cfg config.ServerConfig) *Server {
	return &Server{plants: plants, cfg: cfg, now: time.Now}
}

// NewRouter registers the API routes.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/plants", s.createPlant).Methods(http.MethodPost)
	api.HandleFunc("/plants/{owner}", s.listPlants).Methods(http.MethodGet)
	api.HandleFunc("/plants/{id}/water", s.waterPlant).Methods(http.MethodPut)
	api.HandleFunc("/plants/{id}", s.updatePlant).Methods(http.MethodPut)
	api.HandleFunc("/plants/{id}", s.deletePlant).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, output.ErrorResponse{Status: "error", Error: "no such route"})
	})
	return r
}

// Handler returns the router wrapped in request-id, access-log and panic
// recovery middleware.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.NewRouter()
	h = withRequestID(h)
	h = handlers.LoggingHandler(logging.AccessLogWriter(), h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
	return h
}

// withRequestID tags the request context with an id, reusing the caller's.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(RequestIDHeader); id != "" {
			ctx = logging.WithRequestID(ctx, id)
		} else {
			ctx = logging.NewRequestContext(ctx)
		}
		w.Header().Set(RequestIDHeader, logging.RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("api listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	logging.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
