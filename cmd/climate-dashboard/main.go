package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/climate-dashboard/internal/api/http"
	"github.com/i474232898/climate-dashboard/internal/config"
	"github.com/i474232898/climate-dashboard/internal/dashboard/views"
	"github.com/i474232898/climate-dashboard/internal/logging"
	"github.com/i474232898/climate-dashboard/internal/scheduler"
	"github.com/i474232898/climate-dashboard/internal/store"
	"github.com/i474232898/climate-dashboard/internal/weather"
	"github.com/i474232898/climate-dashboard/internal/weather/providers"
)

const (
	appName = "climate-dashboard"
	// Default version is "dev" if not set with -ldflags "-X main.version=..."
	version = "dev"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg, version, appName))
	slog.Info("starting",
		"version", version,
		"env", cfg.AppEnv,
		"dataFile", cfg.DataFile,
		"cities", len(cfg.Cities),
		"refreshInterval", cfg.RefreshInterval.String(),
	)

	if err := views.LoadTemplates(); err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, providers.OpenWeatherConfig{
		APIKey:  cfg.OpenWeatherAPIKey,
		BaseURL: cfg.OpenWeatherBaseURL,
		Breaker: providers.BreakerConfig{
			FailureThreshold: uint32(cfg.BreakerFailureThreshold),
		},
	})

	csvStore := store.NewCSVStore(cfg.DataFile)
	service := weather.NewService(csvStore, provider, cfg.Locations())

	// One fetch-and-append cycle before serving; failures are logged, never fatal.
	service.UpdateCycle(context.Background())

	// In-memory view of the data file for the dashboard.
	memStore := store.NewMemoryStore()
	reload := func() error {
		observations, skipped, err := store.LoadObservations(csvStore)
		if err != nil {
			return err
		}
		memStore.Replace(observations)
		slog.Info("dashboard data loaded", "observations", len(observations), "skipped", skipped, "cities", len(memStore.Cities()))
		return nil
	}
	if err := reload(); err != nil {
		slog.Error("failed to load data file; serving an empty dashboard", "error", err)
	}

	sched := scheduler.New(cfg.RefreshInterval, service, reload)
	if err := sched.Start(); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":       "ok",
			"service":      appName,
			"cities":       len(memStore.Cities()),
			"observations": memStore.Len(),
		})
	})

	// Landing page and dashboard.
	httpapi.RegisterRoutes(app, memStore)

	go func() {
		slog.Info("http listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
