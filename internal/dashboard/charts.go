package dashboard

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

// Metric is one plotted quantity of an observation.
type Metric struct {
	Key   string
	Title string
	Label string
	Color drawing.Color
	Value func(weather.Observation) float64
}

// Metrics lists the charts in display order.
var Metrics = []Metric{
	{
		Key:   "temperature",
		Title: "Temperature (°C)",
		Label: "Temperature (°C)",
		Color: drawing.ColorFromHex("ff4500"), // orangered
		Value: func(o weather.Observation) float64 { return o.Temperature },
	},
	{
		Key:   "feels_like",
		Title: "Feels like (°C)",
		Label: "Feels like (°C)",
		Color: drawing.ColorFromHex("ffa500"), // orange
		Value: func(o weather.Observation) float64 { return o.FeelsLike },
	},
	{
		Key:   "humidity",
		Title: "Humidity (%)",
		Label: "Humidity (%)",
		Color: drawing.ColorFromHex("1e90ff"), // dodgerblue
		Value: func(o weather.Observation) float64 { return float64(o.Humidity) },
	},
	{
		Key:   "pressure",
		Title: "Pressure (hPa)",
		Label: "Pressure (hPa)",
		Color: drawing.ColorFromHex("006400"), // darkgreen
		Value: func(o weather.Observation) float64 { return o.Pressure },
	},
	{
		Key:   "wind_speed",
		Title: "Wind speed (m/s)",
		Label: "Wind speed (m/s)",
		Color: drawing.ColorFromHex("800080"), // purple
		Value: func(o weather.Observation) float64 { return o.WindSpeed },
	},
}

const (
	chartWidth  = 960
	chartHeight = 340

	// splineSteps is the number of interpolated segments drawn between two observations.
	splineSteps = 8
)

// RenderChart draws metric over history as an SVG line chart with a smoothed line and a
// marker per observation. history must be ordered by timestamp.
func RenderChart(metric Metric, history []weather.Observation) ([]byte, error) {
	if len(history) == 0 {
		return nil, ErrNoObservations
	}

	xs := make([]time.Time, len(history))
	ys := make([]float64, len(history))
	for i, obs := range history {
		xs[i] = obs.Timestamp
		ys[i] = metric.Value(obs)
	}
	sx, sy := catmullRom(xs, ys, splineSteps)

	graph := chart.Chart{
		Title:  metric.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:           "Date and time",
			ValueFormatter: chart.TimeMinuteValueFormatter,
			Range:          timeRange(xs),
		},
		YAxis: chart.YAxis{
			Name:  metric.Label,
			Range: valueRange(sy),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: metric.Key,
				Style: chart.Style{
					StrokeColor: metric.Color,
					StrokeWidth: 2,
				},
				XValues: sx,
				YValues: sy,
			},
			chart.TimeSeries{
				Name: metric.Key + "_markers",
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					StrokeWidth: chart.Disabled,
					DotColor:    metric.Color,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", metric.Key, err)
	}
	return buf.Bytes(), nil
}

// catmullRom interpolates ys along a Catmull-Rom spline. x is interpolated linearly so
// the result stays chronological.
func catmullRom(xs []time.Time, ys []float64, steps int) ([]time.Time, []float64) {
	n := len(xs)
	if n < 3 || steps < 2 {
		return xs, ys
	}

	outX := make([]time.Time, 0, (n-1)*steps+1)
	outY := make([]float64, 0, (n-1)*steps+1)
	for i := 0; i < n-1; i++ {
		p0 := ys[max(i-1, 0)]
		p1 := ys[i]
		p2 := ys[i+1]
		p3 := ys[min(i+2, n-1)]
		span := xs[i+1].Sub(xs[i])

		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			t2 := t * t
			t3 := t2 * t
			y := 0.5 * (2*p1 +
				(-p0+p2)*t +
				(2*p0-5*p1+4*p2-p3)*t2 +
				(-p0+3*p1-3*p2+p3)*t3)
			outX = append(outX, xs[i].Add(time.Duration(float64(span)*t)))
			outY = append(outY, y)
		}
	}
	outX = append(outX, xs[n-1])
	outY = append(outY, ys[n-1])
	return outX, outY
}

// timeRange spans the observations, widened when they share a single instant so the
// axis never collapses.
func timeRange(xs []time.Time) *chart.ContinuousRange {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x.Before(lo) {
			lo = x
		}
		if x.After(hi) {
			hi = x
		}
	}
	if !hi.After(lo) {
		lo = lo.Add(-30 * time.Minute)
		hi = hi.Add(30 * time.Minute)
	}
	return &chart.ContinuousRange{
		Min: float64(lo.UnixNano()),
		Max: float64(hi.UnixNano()),
	}
}

// valueRange pads the value span by 5%, or by 1 when all values are equal.
func valueRange(ys []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
