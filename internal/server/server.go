// Package server implements the CheckMate HTTP server hosting the webhook
// endpoint alongside health and metrics routes.
package server

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/checkmate-dev/checkmate/internal/webhook"
)

// maxWebhookBody caps delivery payloads; GitHub documents 25 MB as the
// webhook payload ceiling.
const maxWebhookBody = 25 << 20

// Server is the CheckMate HTTP server.
type Server struct {
	receiver *webhook.Receiver
	router   chi.Router
	addr     string
	srv      *http.Server
}

// New creates a new HTTP server around the webhook receiver.
func New(addr string, receiver *webhook.Receiver) *Server {
	s := &Server{
		receiver: receiver,
		addr:     addr,
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(MaxBodyMiddleware(maxWebhookBody))

	s.router = r
	s.registerRoutes(r)
	return s
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/healthz", s.health)
	r.Handle("/debug/vars", expvar.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/webhook", s.receiver.HTTPHandler())
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Router exposes the configured handler, mainly for tests that mount the
// server behind httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	fmt.Printf("CheckMate server listening on %s\n", s.addr)
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
