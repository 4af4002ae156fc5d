package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-chat/internal/weather"
)

// geocoder keeps its API key in a package variable.
var googleKeyMu sync.Mutex

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
type GoogleGeocoder struct {
	name   string
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:   "google",
		apiKey: apiKey,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type googleResult struct {
	loc geocoder.Location
	err error
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, location string) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: google geocoder api key is not configured", weather.ErrGeoResolution)
	}
	if location == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: location must be provided", weather.ErrGeoResolution)
	}

	// The library does not take a context, so the lookup runs in its own
	// goroutine and the caller stops waiting on cancellation.
	done := make(chan googleResult, 1)
	go func() {
		googleKeyMu.Lock()
		geocoder.ApiKey = g.apiKey
		loc, err := geocoder.Geocoding(geocoder.Address{City: location})
		googleKeyMu.Unlock()
		done <- googleResult{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return weather.Coordinates{}, fmt.Errorf("%w: %s: %w", weather.ErrGeoResolution, location, res.err)
		}
		return weather.Coordinates{
			Latitude:  res.loc.Latitude,
			Longitude: res.loc.Longitude,
		}, nil
	}
}
