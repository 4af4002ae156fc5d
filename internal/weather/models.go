package weather

import (
	"errors"
	"fmt"
)

// Intent is the temporal scope of a weather query.
type Intent string

const (
	IntentCurrent  Intent = "current"
	IntentForecast Intent = "forecast"
	IntentHistory  Intent = "history"
)

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentCurrent, IntentForecast, IntentHistory:
		return true
	default:
		return false
	}
}

func (i Intent) String() string {
	return string(i)
}

var (
	// ErrGeoResolution is returned when a location name cannot be turned into coordinates.
	ErrGeoResolution = errors.New("failed to resolve location")
	// ErrUpstreamFetch is returned when the weather upstream fails or returns an unusable payload.
	ErrUpstreamFetch = errors.New("failed to retrieve weather data")
	// ErrInvalidIntent guards the fetch against intents outside current/forecast/history.
	ErrInvalidIntent = errors.New("invalid query type; must be 'current', 'forecast', or 'history'")
)

// Coordinates is a resolved geographic position.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

// Report is the normalized view of one weather payload entry.
type Report struct {
	Location    string
	Intent      Intent
	Description string
	Temperature float64

	// RawTemperature is the temperature exactly as the payload spelled it.
	RawTemperature string
	// Timestamp is the upstream's human readable time (forecast only).
	Timestamp string
}
