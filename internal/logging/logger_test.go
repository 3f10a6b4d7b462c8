package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/i474232898/climate-dashboard/internal/config"
)

func TestNew_prodWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, &config.AppConfig{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "climate-dashboard")

	logger.Info("data file updated", "total", 3)
	logger.Debug("hidden")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["app"] != "climate-dashboard" || entry["version"] != "1.2.3" || entry["env"] != "prod" {
		t.Errorf("missing static attributes: %v", entry)
	}
	if entry["msg"] != "data file updated" || entry["total"] != float64(3) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_devUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, &config.AppConfig{AppEnv: "dev", LogLevel: slog.LevelDebug}, "1.2.3", "climate-dashboard")

	logger.Debug("collecting", "city", "Moscow")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("dev output should not be JSON: %q", out)
	}
	if !strings.Contains(out, "collecting") || !strings.Contains(out, "Moscow") {
		t.Errorf("dev output missing message or attrs: %q", out)
	}
	for _, part := range []string{"app=", "climate-dashboard", "version=", "1.2.3", "env="} {
		if !strings.Contains(out, part) {
			t.Errorf("dev output missing %q: %q", part, out)
		}
	}
}
