// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/authtokens/internal/auth/http"
	authUseCase "github.com/allisson/authtokens/internal/auth/usecase"
	"github.com/allisson/authtokens/internal/config"
	"github.com/allisson/authtokens/internal/database"
	"github.com/allisson/authtokens/internal/metrics"
	tokenHTTP "github.com/allisson/authtokens/internal/token/http"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	registry *database.Registry
	logger   *slog.Logger
	router   *gin.Engine
}

// NewServer creates a new HTTP server. registry is pinged by the readiness endpoint.
func NewServer(
	registry *database.Registry,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		registry: registry,
		logger:   logger,
		server:   newHTTPServer(host, port, nil),
	}
}

// RouterDeps holds what SetupRouter mounts. TokenHandler is nil when token management is off.
type RouterDeps struct {
	Config          *config.Config
	Param           string
	Resolver        authUseCase.Resolver
	ActorHandler    *authHTTP.ActorHandler
	TokenHandler    *tokenHTTP.TokenHandler
	MetricsProvider *metrics.Provider
}

// SetupRouter builds the gin engine. ctx bounds the rate limiter cleanup goroutines.
func (s *Server) SetupRouter(ctx context.Context, deps RouterDeps) {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSOrigins(), s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authenticated := router.Group("/-")
	if cfg.RateLimitCredentialEnabled {
		authenticated.Use(authHTTP.CredentialRateLimitMiddleware(
			ctx,
			deps.Param,
			cfg.RateLimitCredentialRequestsPerSec,
			cfg.RateLimitCredentialBurst,
			s.logger,
		))
	}
	authenticated.Use(authHTTP.ActorMiddleware(deps.Resolver, deps.Param, s.logger))

	authenticated.GET("/actor", deps.ActorHandler.GetHandler)

	if deps.TokenHandler != nil {
		tokens := authenticated.Group("/api/tokens")
		tokens.Use(authHTTP.RequireActor(s.logger))
		if cfg.RateLimitEnabled {
			tokens.Use(authHTTP.ActorRateLimitMiddleware(
				ctx,
				cfg.RateLimitRequestsPerSec,
				cfg.RateLimitBurst,
				s.logger,
			))
		}
		{
			tokens.GET("/create", deps.TokenHandler.CreateFormHandler)
			tokens.POST("/create", deps.TokenHandler.IssueHandler)
			tokens.GET("", deps.TokenHandler.ListHandler)
			tokens.GET("/:id", deps.TokenHandler.GetHandler)
			tokens.POST("/:id", deps.TokenHandler.UpdateHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports that the process is up.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether every store answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	if err := s.registry.Ping(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
