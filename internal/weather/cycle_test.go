package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/i474232898/climate-dashboard/internal/dashboard"
	"github.com/i474232898/climate-dashboard/internal/store"
	"github.com/i474232898/climate-dashboard/internal/weather"
	"github.com/i474232898/climate-dashboard/internal/weather/providers"
)

// fakeOpenWeather answers like the current weather endpoint; cities listed in failing
// get a 500.
func fakeOpenWeather(t *testing.T, failing ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		city, _, _ := strings.Cut(r.URL.Query().Get("q"), ",")
		for _, f := range failing {
			if city == f {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"` + city + `","dt":1735732800,` +
			`"main":{"temp":5.3,"feels_like":2.1,"pressure":1016,"humidity":80},` +
			`"wind":{"speed":3},"weather":[{"description":"clear sky"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCycle(t *testing.T, srv *httptest.Server, path string, cities ...string) *weather.Service {
	t.Helper()
	p := providers.NewOpenWeatherProvider(srv.Client(), providers.OpenWeatherConfig{
		APIKey:  "k",
		BaseURL: srv.URL,
		Breaker: providers.BreakerConfig{FailureThreshold: 5},
	})
	locs := make([]weather.Location, 0, len(cities))
	for _, c := range cities {
		locs = append(locs, weather.Location{City: c, Country: "RU"})
	}
	return weather.NewService(store.NewCSVStore(path), p, locs)
}

func TestCycle_createsFileAndSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climate_data.csv")
	svc := newCycle(t, fakeOpenWeather(t), path, "Moscow")

	report := svc.UpdateCycle(context.Background())
	if report.Err != nil {
		t.Fatalf("UpdateCycle() err = %v", report.Err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("data file not created: %v", err)
	}
	want := "city,timestamp,temperature,feels_like,pressure,humidity,wind_speed,weather_description\n" +
		"Moscow,2025-01-01 12:00:00,5.3,2.1,1016,80,3,clear sky\n"
	if string(raw) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", raw, want)
	}

	observations, _, err := store.LoadObservations(store.NewCSVStore(path))
	if err != nil {
		t.Fatalf("LoadObservations() err = %v", err)
	}
	dataset := store.NewMemoryStore()
	dataset.Replace(observations)
	latest, err := dataset.GetLatest("Moscow")
	if err != nil {
		t.Fatalf("GetLatest() err = %v", err)
	}
	history, _ := dataset.History("Moscow")
	view, err := dashboard.BuildCityView("Moscow", latest, history)
	if err != nil {
		t.Fatalf("BuildCityView() err = %v", err)
	}
	if view.Summary.Description != "Clear sky" {
		t.Errorf("summary = %q; want Clear sky", view.Summary.Description)
	}
}

func TestCycle_twiceDoublesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climate_data.csv")
	svc := newCycle(t, fakeOpenWeather(t, "Omsk"), path, "Moscow", "Omsk", "Kazan")

	svc.UpdateCycle(context.Background())
	report := svc.UpdateCycle(context.Background())

	if report.Fetched != 2 || report.Failed != 1 {
		t.Errorf("report = %+v; want fetched=2 failed=1", report)
	}
	records, err := store.NewCSVStore(path).ReadRecords()
	if err != nil {
		t.Fatalf("ReadRecords() err = %v", err)
	}
	if len(records) != 2*2 {
		t.Errorf("file has %d rows; want 4", len(records))
	}
	for _, rec := range records {
		if rec[0] == "Omsk" {
			t.Errorf("row appended for failing city: %q", rec)
		}
	}
}

func TestCycle_runOfServerErrorsStillReachesLaterCities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climate_data.csv")
	failing := []string{"Omsk", "Ufa", "Tver", "Perm", "Samara", "Tula"}
	cities := append(slices.Clone(failing), "Moscow", "Kazan")
	svc := newCycle(t, fakeOpenWeather(t, failing...), path, cities...)

	report := svc.UpdateCycle(context.Background())
	if report.Err != nil {
		t.Fatalf("UpdateCycle() err = %v", report.Err)
	}
	if report.Fetched != 2 || report.Failed != len(failing) {
		t.Errorf("report = %+v; want fetched=2 failed=%d", report, len(failing))
	}

	records, err := store.NewCSVStore(path).ReadRecords()
	if err != nil {
		t.Fatalf("ReadRecords() err = %v", err)
	}
	var got []string
	for _, rec := range records {
		got = append(got, rec[0])
	}
	if want := []string{"Moscow", "Kazan"}; !slices.Equal(got, want) {
		t.Errorf("rows = %v; want %v", got, want)
	}
}
