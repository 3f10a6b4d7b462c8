package weather

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is the second-resolution UTC layout used in the data file.
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the fixed column order of the data file.
var Header = []string{
	"city",
	"timestamp",
	"temperature",
	"feels_like",
	"pressure",
	"humidity",
	"wind_speed",
	"weather_description",
}

// Location represents a logical place for which we track weather.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Query returns the provider query string, "City,Country" or just the city.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Observation is one city's weather snapshot at one fetch moment.
type Observation struct {
	City        string    `json:"city"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Pressure    float64   `json:"pressure"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Description string    `json:"weather_description"`
}

// Record returns the observation as a data file row in Header order.
func (o Observation) Record() []string {
	return []string{
		o.City,
		o.Timestamp.UTC().Format(TimestampLayout),
		formatFloat(o.Temperature),
		formatFloat(o.FeelsLike),
		formatFloat(o.Pressure),
		strconv.Itoa(o.Humidity),
		formatFloat(o.WindSpeed),
		o.Description,
	}
}

// ParseObservation parses a data file row written by Record.
func ParseObservation(record []string) (Observation, error) {
	if len(record) != len(Header) {
		return Observation{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(record))
	}

	ts, err := time.ParseInLocation(TimestampLayout, record[1], time.UTC)
	if err != nil {
		return Observation{}, fmt.Errorf("timestamp: %w", err)
	}

	var floats [4]float64
	for i, idx := range []int{2, 3, 4, 6} {
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return Observation{}, fmt.Errorf("%s: %w", Header[idx], err)
		}
		floats[i] = v
	}

	// The provider reports humidity as an integer, but tolerate "80.0".
	humidity, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return Observation{}, fmt.Errorf("humidity: %w", err)
	}

	return Observation{
		City:        record[0],
		Timestamp:   ts,
		Temperature: floats[0],
		FeelsLike:   floats[1],
		Pressure:    floats[2],
		Humidity:    int(humidity),
		WindSpeed:   floats[3],
		Description: record[7],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
