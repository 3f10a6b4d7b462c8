package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/climate-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultOpenWeatherURL is the OpenWeatherMap current weather endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherConfig configures the OpenWeatherMap client.
type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string
	Breaker BreakerConfig
}

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewOpenWeatherProvider(client *http.Client, cfg OpenWeatherConfig) *OpenWeatherProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("openweather", cfg.Breaker),
		now:     time.Now,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Fetch issues a single GET for loc. There is no retry: a failure skips the city.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("openweather: %w", weather.ErrMissingAPIKey)
	}

	values := url.Values{}
	values.Set("q", loc.Query())
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Observation{}, err
	}

	return execute(p.circuit, func() (weather.Observation, error) {
		resp, err := p.client.Do(req)
		if err != nil {
			return weather.Observation{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return weather.Observation{}, &weather.StatusError{StatusCode: resp.StatusCode}
		}

		return p.decode(resp.Body)
	})
}

type openWeatherPayload struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (p *OpenWeatherProvider) decode(body io.Reader) (weather.Observation, error) {
	var payload openWeatherPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if len(payload.Weather) == 0 {
		return weather.Observation{}, fmt.Errorf("%w: empty weather array", weather.ErrMalformedResponse)
	}

	ts := p.now().UTC()
	if payload.Dt != 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.Observation{
		City:        payload.Name,
		Timestamp:   ts.Truncate(time.Second),
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Pressure:    payload.Main.Pressure,
		Humidity:    int(payload.Main.Humidity),
		WindSpeed:   payload.Wind.Speed,
		Description: payload.Weather[0].Description,
	}, nil
}
