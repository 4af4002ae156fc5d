package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/weather-chat/internal/weather"
)

const (
	CurrentWeatherURL  = "https://api.openweathermap.org/data/2.5/weather"
	ForecastWeatherURL = "https://pro.openweathermap.org/data/2.5/forecast/hourly"
	HistoryWeatherURL  = "https://history.openweathermap.org/data/2.5/history/city"
)

// OpenWeatherEndpoints holds one URL per intent. Zero values fall back to the
// public OpenWeather endpoints.
type OpenWeatherEndpoints struct {
	Current  string
	Forecast string
	History  string
}

func (e OpenWeatherEndpoints) url(intent weather.Intent) (string, error) {
	var u, def string
	switch intent {
	case weather.IntentCurrent:
		u, def = e.Current, CurrentWeatherURL
	case weather.IntentForecast:
		u, def = e.Forecast, ForecastWeatherURL
	case weather.IntentHistory:
		u, def = e.History, HistoryWeatherURL
	default:
		return "", fmt.Errorf("%w: %q", weather.ErrInvalidIntent, intent)
	}
	if u == "" {
		u = def
	}
	return u, nil
}

// OpenWeatherProvider implements weather.Fetcher for OpenWeatherMap.
type OpenWeatherProvider struct {
	name      string
	apiKey    string
	endpoints OpenWeatherEndpoints
	httpCfg   HTTPClientConfig
	now       func() time.Time
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, endpoints OpenWeatherEndpoints) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:      "openweathermap",
		apiKey:    apiKey,
		endpoints: endpoints,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Circuit: newCircuitBreaker("openweather"),
		},
		now: time.Now,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, coords weather.Coordinates, intent weather.Intent) ([]byte, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrUpstreamFetch)
	}

	base, err := p.endpoints.url(intent)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	// The history API needs a window; ask for the hour starting a day ago.
	if intent == weather.IntentHistory {
		values.Set("type", "hour")
		values.Set("start", strconv.FormatInt(p.now().Add(-24*time.Hour).Unix(), 10))
		values.Set("cnt", "1")
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", base, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	body, err := doRequest(ctx, p.httpCfg, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", weather.ErrUpstreamFetch, err)
	}
	return body, nil
}
