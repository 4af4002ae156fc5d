package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/i474232898/weather-chat/internal/weather"
)

const OpenCageURL = "https://api.opencagedata.com/geocode/v1/json"

// OpenCageGeocoder implements weather.Geocoder for the OpenCage forward geocoding API.
type OpenCageGeocoder struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
}

func NewOpenCageGeocoder(client *http.Client, apiKey, baseURL string) *OpenCageGeocoder {
	if baseURL == "" {
		baseURL = OpenCageURL
	}
	return &OpenCageGeocoder{
		name:    "opencage",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Circuit: newCircuitBreaker("opencage"),
		},
	}
}

func (g *OpenCageGeocoder) Name() string {
	return g.name
}

func (g *OpenCageGeocoder) Resolve(ctx context.Context, location string) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: opencage api key is not configured", weather.ErrGeoResolution)
	}
	if location == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: location must be provided", weather.ErrGeoResolution)
	}

	values := url.Values{}
	values.Set("q", location)
	values.Set("key", g.apiKey)
	values.Set("limit", "1")
	values.Set("no_annotations", "1")

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", g.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.Coordinates{}, err
	}

	body, err := doRequest(ctx, g.httpCfg, req)
	if err != nil {
		if ctx.Err() != nil {
			return weather.Coordinates{}, err
		}
		return weather.Coordinates{}, fmt.Errorf("%w: %s: %w", weather.ErrGeoResolution, location, err)
	}

	geometry := gjson.GetBytes(body, "results.0.geometry")
	lat, lng := geometry.Get("lat"), geometry.Get("lng")
	if !lat.Exists() || !lng.Exists() {
		return weather.Coordinates{}, fmt.Errorf("%w: %s: location not found", weather.ErrGeoResolution, location)
	}

	return weather.Coordinates{
		Latitude:  lat.Float(),
		Longitude: lng.Float(),
	}, nil
}
