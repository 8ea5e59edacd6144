// Package server wires configuration, middleware and handlers into an HTTP server
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/deploytestapp/web-app/internal/config"
	"github.com/deploytestapp/web-app/internal/handlers"
	"github.com/deploytestapp/web-app/internal/middleware"
	"github.com/deploytestapp/web-app/internal/telemetry"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server is the HTTP server for the application
type Server struct {
	Router *gin.Engine
	Config *config.Config

	httpServer *http.Server
}

// NewRouter builds the gin engine with all middleware and routes registered.
// metrics may be nil when telemetry is disabled.
func NewRouter(cfg *config.Config, assets fs.FS, metrics *telemetry.HTTPMetrics) *gin.Engine {
	router := gin.New()

	// Trust common reverse proxy setups (nginx, load balancers)
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		log.Printf("WARNING: Failed to set trusted proxies: %v", err)
	}

	// Metrics sits outside the error boundary to observe the final status
	router.Use(
		middleware.RequestID(),
		middleware.Metrics(metrics),
		middleware.Recovery(cfg.CurrentlyProduction),
		middleware.ErrorHandler(cfg.CurrentlyProduction),
		middleware.SecurityHeaders(),
	)

	pages := handlers.NewPageHandler(assets)
	info := handlers.NewInfoHandler(cfg)

	readOnly := []string{http.MethodGet, http.MethodHead}

	router.Match(readOnly, "/", pages.Index)
	router.Match(readOnly, "/about", pages.About)
	router.Match(readOnly, "/about/", pages.About)

	api := router.Group("/api")
	{
		api.Match(readOnly, "/status", handlers.StatusHandler)
		api.Match(readOnly, "/status/", handlers.StatusHandler)
		api.Match(readOnly, "/info", info.GetInfo)
		api.Match(readOnly, "/info/", info.GetInfo)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(pages.Fallback)

	return router
}

// New creates a server listening on cfg.Addr()
func New(cfg *config.Config, assets fs.FS, metrics *telemetry.HTTPMetrics) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := NewRouter(cfg, assets, metrics)

	return &Server{
		Router: router,
		Config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Printf("🚀 Server is running on port %s", s.Config.Port)
	log.Printf("📱 Open http://localhost:%s in your browser", s.Config.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Println("Server stopped")
	return nil
}
