package httpapi

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/climate-dashboard/internal/dashboard"
	"github.com/i474232898/climate-dashboard/internal/dashboard/views"
	"github.com/i474232898/climate-dashboard/internal/store"
	"github.com/i474232898/climate-dashboard/internal/weather"
)

const (
	DashboardPath = "/dashboard/"
	GraphsPath    = "/dashboard/graphs"

	siteTitle = "Climate monitoring"
)

var validate = validator.New()

// Dataset is the read side of the observation store the pages are rendered from.
type Dataset interface {
	Cities() []string
	HasCity(city string) bool
	History(city string) ([]weather.Observation, error)
	GetLatest(city string) (weather.Observation, error)
}

// RegisterRoutes wires the page handlers into the Fiber app. Templates must already be
// loaded with views.LoadTemplates.
func RegisterRoutes(app *fiber.App, data Dataset) {
	app.Get("/", func(c *fiber.Ctx) error {
		return renderHTML(c, func(w io.Writer) error {
			return views.RenderIndex(w, &views.IndexData{
				Title:         siteTitle,
				DashboardPath: DashboardPath,
			})
		})
	})

	app.Get(GraphsPath, func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		graphs, err := buildGraphs(data, q.City)
		if err != nil {
			return err
		}
		return renderHTML(c, func(w io.Writer) error {
			return views.RenderGraphsPartial(w, graphs)
		})
	})

	app.Get(DashboardPath, func(c *fiber.Ctx) error {
		cities := data.Cities()
		page := &views.DashboardData{
			Cities:        cities,
			Selected:      c.Query("city"),
			DashboardPath: DashboardPath,
			GraphsPath:    GraphsPath,
		}

		if len(cities) > 0 {
			if page.Selected == "" {
				page.Selected = cities[0]
			}
			graphs, err := buildGraphs(data, page.Selected)
			if err != nil {
				return err
			}
			page.Graphs = graphs
		}

		return renderHTML(c, func(w io.Writer) error {
			return views.RenderDashboard(w, page)
		})
	})
}

// cityQuery holds the selected city of the dashboard.
type cityQuery struct {
	City string `validate:"required"`
}

// buildGraphs filters the dataset to city and renders its charts. A city without rows is
// a 404 unless the selector lists it, in which case the placeholder is rendered.
func buildGraphs(data Dataset, city string) (*views.GraphsData, error) {
	if !data.HasCity(city) && !slices.Contains(data.Cities(), city) {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown city")
	}

	latest, err := data.GetLatest(city)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("dashboard: load latest observation failed", "city", city, "error", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load observations")
	}

	var history []weather.Observation
	if err == nil {
		history, err = data.History(city)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			slog.Error("dashboard: load history failed", "city", city, "error", err)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load observations")
		}
	}

	view, err := dashboard.BuildCityView(city, latest, history)
	switch {
	case errors.Is(err, dashboard.ErrNoObservations):
		slog.Warn("dashboard: city has no observations", "city", city)
	case err != nil:
		slog.Error("dashboard: render charts failed", "city", city, "error", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to render charts")
	}
	return views.NewGraphsData(view), nil
}

// renderHTML buffers the page so a template error can still become an error response.
func renderHTML(c *fiber.Ctx, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		slog.Error("template render failed", "path", c.Path(), "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
