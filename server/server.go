// Package server assembles the HTTP server of the ranking API: router,
// middleware chain, routes and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rankpage/clinicrank-api/config"
	"github.com/rankpage/clinicrank-api/handlers"
	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/metrics"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.HTTPHandler
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler *handlers.HTTPHandler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures the middleware chain. Order matters: the real
// client IP must be resolved before rate limiting buckets key on it.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(logging.RequestLogger(logging.Logger()))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/regions", s.handler.ServeRegions)
	s.router.Get("/clinics", s.handler.ServeClinics)
	s.router.Get("/ranking/{regionId}", s.handler.ServeRanking)
	s.router.Get("/stores/{regionId}", s.handler.ServeRegionStores)
	s.router.Get("/stores/{regionId}/{clinicCode}", s.handler.ServeClinicStores)
	s.router.Get("/clinic/{code}/text/{itemKey}", s.handler.ServeClinicText)
	s.router.Get("/campaigns/{regionId}", s.handler.ServeCampaigns)
	s.router.Get("/redirect", s.handler.ServeRedirect)
	s.router.Get("/redirect/resolve", s.handler.ServeRedirectResolve)
	s.router.Get("/health", s.handler.ServeHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Router exposes the assembled router for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
