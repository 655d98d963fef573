// Package web provides the HTTP server and handlers for the
// family-event registration application.
package web

import (
	"context"
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/svtemple/eventreg/internal/config"
	"github.com/svtemple/eventreg/internal/core"
	"github.com/svtemple/eventreg/internal/mirror"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the registration application.
type Server struct {
	service *core.Service
	mirror  *mirror.Exporter
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, exporter *mirror.Exporter, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		mirror:  exporter,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// The registration form itself
	s.router.Get("/", s.handleForm)
	s.router.Get("/healthz", s.handleHealthz)

	// Public API
	s.router.Post("/save", s.handleSave)
	s.router.Get("/edit-count/{email}", s.handleEditCount)

	// Admin surface (password-gated per request)
	s.router.Get("/admin", s.handleAdmin)
	s.router.Post("/delete", s.handleDelete)
	s.router.Get("/download-csv", s.handleDownloadCSV)
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
