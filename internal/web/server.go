// Package web provides the HTTP server and handlers for the upload UI and
// its JSON API.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/JonMunkholm/datasweep/internal/config"
	"github.com/JonMunkholm/datasweep/internal/core"
	"github.com/JonMunkholm/datasweep/internal/web/middleware"
)

// Server is the HTTP server for the cleaning UI.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	router   *chi.Mux
	handler  http.Handler
	server   *http.Server
	validate *validator.Validate

	registry *prometheus.Registry
	metrics  *middleware.HTTPMetrics
	limiter  *middleware.RateLimiter
	uploads  *middleware.RateLimiter
}

// NewServer creates a Server. HTTP metrics are registered on reg and, when
// enabled in cfg, served from reg at cfg.Metrics.Path.
func NewServer(service *core.Service, cfg *config.Config, reg *prometheus.Registry) (*Server, error) {
	s := &Server{
		service:  service,
		cfg:      cfg,
		router:   chi.NewRouter(),
		validate: newValidator(),
		registry: reg,
	}

	if cfg.Metrics.Enabled {
		m, err := middleware.NewHTTPMetrics(reg, cfg.Metrics.Path)
		if err != nil {
			return nil, fmt.Errorf("register http metrics: %w", err)
		}
		s.metrics = m
	}
	if cfg.Rate.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.Rate.RequestsPerMinute, 0)
		s.uploads = middleware.NewRateLimiter(cfg.Rate.UploadLimit, 0)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.handler = s.router
	if len(cfg.Security.CORSOrigins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: cfg.Security.CORSOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
			MaxAge:         300,
		}).Handler(s.router)
	}

	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Handler)
	}
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(middleware.SecurityHeaders(s.cfg.Security.EnableCSP))
	if s.limiter != nil {
		s.router.Use(s.limiter.Handler(s.rejectRateLimited))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.With(s.uploadLimit).Post("/files", s.handleUploadPage)
	s.router.Route("/files/{id}", func(r chi.Router) {
		r.Use(s.workspaceCtx)
		r.Get("/", s.handleWorkspacePage)
		r.Post("/recipe", s.handleRecipeForm)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.With(s.uploadLimit).Post("/files", s.handleUpload)
		r.Get("/files", s.handleListFiles)

		r.Route("/files/{id}", func(r chi.Router) {
			r.Use(s.workspaceCtx)
			r.Get("/", s.handleGetFile)
			r.Delete("/", s.handleDeleteFile)
			r.Put("/recipe", s.handleUpdateRecipe)
			r.Get("/preview", s.handlePreview)
			r.Get("/chart", s.handleChart)
			r.Get("/export", s.handleExport)
		})
	})
}

// uploadLimit applies the stricter per-IP limit to upload endpoints.
func (s *Server) uploadLimit(next http.Handler) http.Handler {
	if s.uploads == nil {
		return next
	}
	return s.uploads.Handler(s.rejectRateLimited)(next)
}

// StartBackground runs the rate limiter cleanup until ctx is cancelled.
func (s *Server) StartBackground(ctx context.Context) {
	for _, rl := range []*middleware.RateLimiter{s.limiter, s.uploads} {
		if rl != nil {
			go rl.Cleanup(ctx, time.Minute, 10*time.Minute)
		}
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the full handler chain, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
