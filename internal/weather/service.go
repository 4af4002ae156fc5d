package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Service resolves a location and fetches weather for it.
type Service struct {
	geocoder Geocoder
	fetcher  Fetcher
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, fetcher Fetcher) *Service {
	return &Service{
		geocoder: geocoder,
		fetcher:  fetcher,
	}
}

// Lookup resolves location, fetches the payload for intent and returns the
// formatted sentence. Each downstream call is attempted once.
func (s *Service) Lookup(ctx context.Context, location string, intent Intent) (string, error) {
	if !intent.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidIntent, intent)
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("%w: location must be provided", ErrGeoResolution)
	}

	coords, err := s.geocoder.Resolve(ctx, location)
	if err != nil {
		log.Warn().Err(err).Str("geocoder", s.geocoder.Name()).Str("location", location).Msg("geocoding failed")
		if errors.Is(err, ErrGeoResolution) || isContextErr(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %w", ErrGeoResolution, location, err)
	}

	log.Debug().Str("location", location).Stringer("coords", coords).Stringer("intent", intent).Msg("fetching weather")

	payload, err := s.fetcher.Fetch(ctx, coords, intent)
	if err != nil {
		log.Warn().Err(err).Str("provider", s.fetcher.Name()).Str("location", location).Msg("weather fetch failed")
		if errors.Is(err, ErrUpstreamFetch) || isContextErr(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	report, err := ParseReport(location, intent, payload)
	if err != nil {
		return "", err
	}
	return report.Sentence(), nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
