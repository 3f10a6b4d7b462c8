package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/i474232898/climate-dashboard/internal/config"
)

// New builds the process logger: coloured tint output in dev, JSON in prod. Both carry
// the app, version and env attributes.
func New(cfg *config.AppConfig, version string, appName string) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, version, appName)
}

func newWithWriter(w io.Writer, cfg *config.AppConfig, version string, appName string) *slog.Logger {
	var h slog.Handler
	if cfg.AppEnv == "dev" {
		h = tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	}

	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
