package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/deploytestapp/web-app/docs"
	"github.com/deploytestapp/web-app/internal/config"
	"github.com/deploytestapp/web-app/internal/models"
	"github.com/deploytestapp/web-app/internal/server"
	"github.com/deploytestapp/web-app/internal/static"
	"github.com/deploytestapp/web-app/internal/telemetry"
)

// @title Deploy Test App API
// @version 1.0.0
// @description Status and information endpoints of the deployment test application
// @BasePath /
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "web-app",
		ServiceVersion: models.AppVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Printf("WARNING: Failed to initialize telemetry: %v. Continuing without metrics.", err)
	}

	assets, err := static.Open(cfg.StaticDir)
	if err != nil {
		log.Fatalf("Failed to open static assets: %v", err)
	}
	if files, err := static.List(assets); err == nil {
		log.Printf("Serving %d static files", len(files))
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	srv := server.New(cfg, assets, provider.HTTPMetrics())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
		return
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: %v", err)
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: %v", err)
	}

	log.Println("Server exited")
}
