package main

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pizzapulse/internal/cache"
	"pizzapulse/internal/config"
	apphttp "pizzapulse/internal/http"
	"pizzapulse/internal/log"
	"pizzapulse/internal/metrics"
	"pizzapulse/internal/session"
	"pizzapulse/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
		Handler: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: log.ParseLevel(cfg.LogLevel),
		}),
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	registry, err := newRegistry(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dataset registry",
			log.FieldBackend, cfg.DataBackend,
			log.FieldError, err.Error())
		os.Exit(1)
	}
	defer registry.Close()

	sessions := session.NewManager(registry, cfg.CacheSize, cfg.CacheTTL, logger)
	m := metrics.New()

	srv := apphttp.NewServer(":"+cfg.Port, sessions, m, logger, apphttp.Options{
		MaxUploadBytes:  cfg.MaxUploadBytes,
		UploadRateLimit: cfg.UploadRateLimit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cache.Janitor(ctx, 10*time.Minute, sessions.Cache())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		// Shutdown drains connections but does not release the server's
		// own background resources (the upload rate limiter).
		srv.Close()
		cancel()
	}()

	logger.Info("Starting pizzapulse server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// newRegistry selects the dataset registry backend.
func newRegistry(cfg *config.Config, logger *log.Logger) (storage.Registry, error) {
	switch cfg.DataBackend {
	case "sqlite":
		registry, err := storage.NewSQLiteRegistry(cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		logger.Info("Initialized SQLite registry", "dsn", cfg.SQLiteDSN)
		return registry, nil
	default:
		logger.Info("Initialized memory registry")
		return storage.NewMemoryRegistry(), nil
	}
}
