package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/climate-dashboard/internal/weather"
	"github.com/i474232898/climate-dashboard/internal/weather/providers"
)

// DefaultCities are tracked when WEATHER_CITIES is not set.
var DefaultCities = []string{
	"Moscow", "Saint Petersburg", "Novosibirsk", "Yekaterinburg", "Nizhny Novgorod",
	"Kazan", "Chelyabinsk", "Omsk", "Rostov-on-Don", "Ufa",
	"Volgograd", "Krasnoyarsk", "Saratov", "Tyumen", "Togliatti",
	"Izhevsk", "Barnaul", "Khabarovsk", "Vladivostok", "Kaliningrad",
}

const (
	DefaultCountry  = "RU"
	DefaultDataFile = "climate_data.csv"
)

type AppConfig struct {
	AppEnv   string     `validate:"oneof=dev prod"`
	LogLevel slog.Level `validate:"-"`
	Port     string     `validate:"required,numeric"`

	OpenWeatherAPIKey  string `validate:"required"`
	OpenWeatherBaseURL string `validate:"required,url"`

	// Country is appended to every city in provider queries.
	Country string
	// Cities are fetched in this order on every cycle.
	Cities []string `validate:"required,min=1,dive,required"`

	// DataFile is the CSV file the observations are appended to.
	DataFile string `validate:"required"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// RefreshInterval re-runs the update cycle while serving (0 = only at start-up).
	RefreshInterval time.Duration `validate:"gte=0"`

	// BreakerFailureThreshold consecutive rejected-credential responses skip the rest of
	// a cycle (0 = never).
	BreakerFailureThreshold int `validate:"gte=0"`
}

// Locations returns the configured cities qualified with the country.
func (c *AppConfig) Locations() []weather.Location {
	locs := make([]weather.Location, 0, len(c.Cities))
	for _, city := range c.Cities {
		locs = append(locs, weather.Location{City: city, Country: c.Country})
	}
	return locs
}

var validate = validator.New()

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from environment variables only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.AppEnv = strings.TrimSpace(getenvDefault("APP_ENV", "dev"))

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.OpenWeatherAPIKey = strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherURL)
	cfg.Country = getenvDefault("WEATHER_COUNTRY", DefaultCountry)
	cfg.Cities = loadCities()
	cfg.DataFile = getenvDefault("DATA_FILE", DefaultDataFile)

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, err
	}
	if cfg.BreakerFailureThreshold, err = getenvInt("BREAKER_FAILURE_THRESHOLD", 5); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadCities() []string {
	raw := os.Getenv("WEATHER_CITIES")
	if strings.TrimSpace(raw) == "" {
		cities := make([]string, len(DefaultCities))
		copy(cities, DefaultCities)
		return cities
	}

	var cities []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cities = append(cities, c)
		}
	}
	return cities
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	s := getenvDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
