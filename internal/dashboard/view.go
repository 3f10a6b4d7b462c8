// Package dashboard turns a city's observation history into the summary line and
// charts shown on the dashboard page.
package dashboard

import (
	"errors"
	"html/template"

	"github.com/i474232898/climate-dashboard/internal/common"
	"github.com/i474232898/climate-dashboard/internal/weather"
)

// ErrNoObservations is returned when a city has no rows to plot or summarise.
var ErrNoObservations = errors.New("no observations for city")

// Chart is one rendered metric chart.
type Chart struct {
	Key   string
	Title string
	SVG   template.HTML
}

// Summary describes the chronologically last observation of a city.
type Summary struct {
	Latest      weather.Observation
	Description string // capitalized weather description
}

// CityView is everything the graphs fragment shows for one city.
type CityView struct {
	City    string
	Summary *Summary
	Charts  []Chart
}

// BuildCityView renders the summary of latest and one chart per metric in Metrics order.
// history must be chronological, as MemoryStore.History returns it. An empty history
// returns ErrNoObservations along with a view that only carries the city.
func BuildCityView(city string, latest weather.Observation, history []weather.Observation) (CityView, error) {
	view := CityView{City: city}
	if len(history) == 0 {
		return view, ErrNoObservations
	}

	view.Summary = &Summary{
		Latest:      latest,
		Description: common.Capitalize(latest.Description),
	}

	view.Charts = make([]Chart, 0, len(Metrics))
	for _, m := range Metrics {
		svg, err := RenderChart(m, history)
		if err != nil {
			return view, err
		}
		view.Charts = append(view.Charts, Chart{
			Key:   m.Key,
			Title: m.Title,
			SVG:   template.HTML(svg),
		})
	}
	return view, nil
}
