package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/i474232898/weather-chat/internal/chat"
	"github.com/i474232898/weather-chat/internal/config"
	"github.com/i474232898/weather-chat/internal/responder"
	"github.com/i474232898/weather-chat/internal/store"
	"github.com/i474232898/weather-chat/internal/weather"
	"github.com/i474232898/weather-chat/internal/weather/providers"
)

// recordStore is what the commands need from a store.
type recordStore interface {
	chat.Store
	Maintain(ctx context.Context) (int, error)
	Close() error
}

// components holds everything built from the configuration.
type components struct {
	store  recordStore
	router *chat.Router
}

func openStore(cfg *config.AppConfig) (recordStore, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newGeocoder(cfg *config.AppConfig, client *http.Client) weather.Geocoder {
	var g weather.Geocoder
	switch cfg.Geocoder {
	case "google":
		g = providers.NewGoogleGeocoder(cfg.GoogleAPIKey)
	default:
		g = providers.NewOpenCageGeocoder(client, cfg.OpenCageAPIKey, cfg.OpenCageURL)
	}
	return weather.NewCachedGeocoder(g, cfg.GeocodeCacheTTL)
}

func newResponder(cfg *config.AppConfig, client *http.Client) chat.Responder {
	switch cfg.Responder {
	case "ollama":
		return responder.NewOllama(client, cfg.OllamaURL, cfg.OllamaModel)
	default:
		return responder.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicURL)
	}
}

// build wires the store, collaborators and router from cfg.
func build(cfg *config.AppConfig) (*components, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, providers.OpenWeatherEndpoints{
		Current:  cfg.OpenWeatherCurrentURL,
		Forecast: cfg.OpenWeatherForecastURL,
		History:  cfg.OpenWeatherHistoryURL,
	})
	lookup := weather.NewService(newGeocoder(cfg, httpClient), fetcher)

	// The language model may take longer than a weather call.
	llmClient := &http.Client{
		Timeout: 4 * cfg.HTTPTimeout,
	}
	router := chat.NewRouter(chat.NewClassifier(nil), newResponder(cfg, llmClient), lookup, st)

	return &components{store: st, router: router}, nil
}
