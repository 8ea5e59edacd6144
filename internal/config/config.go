package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	// DefaultPort is used when PORT is not set
	DefaultPort = "3000"

	// DefaultEnvironment is reported when neither APP_ENV nor NODE_ENV is set
	DefaultEnvironment = "development"

	// ProductionEnvironment switches error responses to generic messages
	ProductionEnvironment = "production"
)

// Config holds process-wide settings read once at startup
type Config struct {
	// Port the HTTP server listens on
	Port string

	// Environment at startup ("development", "production", ...)
	Environment string

	// StaticDir overrides the embedded public assets with an on-disk directory.
	// static.Open checks that it exists.
	StaticDir string

	// OTLPEndpoint enables metric export when non-empty (host:port of an OTLP gRPC collector)
	OTLPEndpoint string
}

// Load reads configuration from the environment.
// A .env file in the working directory is loaded first if present;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", DefaultPort),
		Environment:  lookupEnvironment(),
		StaticDir:    os.Getenv("STATIC_DIR"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	log.Printf("Configuration loaded: port=%s environment=%s", cfg.Port, cfg.Environment)
	return cfg, nil
}

// Addr returns the listen address for http.Server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsProduction reports whether the server started in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == ProductionEnvironment
}

// CurrentEnvironment re-reads the environment variable on every call,
// so /api/info reflects changes made after startup.
func (c *Config) CurrentEnvironment() string {
	return lookupEnvironment()
}

// CurrentlyProduction is the live counterpart of IsProduction
func (c *Config) CurrentlyProduction() bool {
	return c.CurrentEnvironment() == ProductionEnvironment
}

func lookupEnvironment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return getEnv("NODE_ENV", DefaultEnvironment)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
