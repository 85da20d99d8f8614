package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nutribot/internal/cache"
	"nutribot/internal/core"
	"nutribot/internal/personalize"
)

// Server wraps the Echo server
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options
type Config struct {
	MetricsEnabled bool   // Whether to expose Prometheus metrics endpoint
	BodySizeLimit  string // Max request body size (echo syntax, default "1M")
}

// New creates a new HTTP server. gen may be nil; chat requests then serve
// the fallback tier instead of generating.
func New(responseCache *cache.ResponseCache, engine *personalize.Engine, profiles core.ProfileStore, gen core.Generator, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true

	handler := NewHandler(responseCache, engine, profiles, gen)

	// Global middleware stack (order matters)
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())

	bodyLimit := "1M"
	if cfg != nil && cfg.BodySizeLimit != "" {
		bodyLimit = cfg.BodySizeLimit
	}
	e.Use(middleware.BodyLimit(bodyLimit))

	// Public routes
	e.GET("/health", handler.Health)
	if cfg != nil && cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// API routes
	e.POST("/v1/chat", handler.Chat)
	e.POST("/v1/personalize", handler.Personalize)
	e.GET("/v1/cache/stats", handler.CacheStats)
	e.POST("/v1/cache/sweep", handler.CacheSweep)
	e.GET("/v1/profiles/:id", handler.GetProfile)
	e.PUT("/v1/profiles/:id", handler.PutProfile)
	e.DELETE("/v1/profiles/:id", handler.DeleteProfile)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements the http.Handler interface, allowing Server to be used with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
