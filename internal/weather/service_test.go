package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	coords Coordinates
	err    error
	calls  int
}

func (s *stubGeocoder) Name() string { return "stub" }

func (s *stubGeocoder) Resolve(_ context.Context, _ string) (Coordinates, error) {
	s.calls++
	return s.coords, s.err
}

type stubFetcher struct {
	payloads map[Intent]string
	err      error
	got      []Intent
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) Fetch(_ context.Context, _ Coordinates, intent Intent) ([]byte, error) {
	s.got = append(s.got, intent)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.payloads[intent]), nil
}

const (
	currentPayload  = `{"weather":[{"main":"Clear","description":"clear sky"}],"main":{"temp":21.5}}`
	forecastPayload = `{"list":[{"dt_txt":"2024-05-01 12:00:00","weather":[{"description":"light rain"}],"main":{"temp":14}}]}`
	historyPayload  = `{"list":[{"dt":1714564800,"weather":[{"description":"overcast clouds"}],"main":{"temp":9.25}}]}`
)

func newStubService() (*Service, *stubGeocoder, *stubFetcher) {
	geo := &stubGeocoder{coords: Coordinates{Latitude: 48.8566, Longitude: 2.3522}}
	fetch := &stubFetcher{payloads: map[Intent]string{
		IntentCurrent:  currentPayload,
		IntentForecast: forecastPayload,
		IntentHistory:  historyPayload,
	}}
	return NewService(geo, fetch), geo, fetch
}

func TestLookupSentences(t *testing.T) {
	tests := []struct {
		intent Intent
		want   string
	}{
		{IntentCurrent, "The current weather in Paris is clear sky with a temperature of 21.5°C."},
		{IntentForecast, "The weather forecast for Paris on 2024-05-01 12:00:00 is light rain with a temperature of 14°C."},
		{IntentHistory, "The weather in Paris was overcast clouds with a temperature of 9.25°C."},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			svc, _, fetch := newStubService()
			got, err := svc.Lookup(context.Background(), "Paris", tt.intent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []Intent{tt.intent}, fetch.got)
		})
	}
}

func TestLookupInvalidIntent(t *testing.T) {
	svc, geo, fetch := newStubService()

	_, err := svc.Lookup(context.Background(), "Paris", Intent("yesterday"))
	require.ErrorIs(t, err, ErrInvalidIntent)
	assert.Zero(t, geo.calls)
	assert.Empty(t, fetch.got)
}

func TestLookupGeoFailure(t *testing.T) {
	svc, geo, fetch := newStubService()
	geo.err = errors.New("no results")

	_, err := svc.Lookup(context.Background(), "Atlantis", IntentCurrent)
	require.ErrorIs(t, err, ErrGeoResolution)
	assert.Contains(t, err.Error(), "Atlantis")
	assert.Empty(t, fetch.got, "fetch must not run without coordinates")
}

func TestLookupEmptyLocation(t *testing.T) {
	svc, geo, _ := newStubService()

	_, err := svc.Lookup(context.Background(), "   ", IntentCurrent)
	require.ErrorIs(t, err, ErrGeoResolution)
	assert.Zero(t, geo.calls)
}

func TestLookupFetchFailure(t *testing.T) {
	svc, _, fetch := newStubService()
	fetch.err = errors.New("connection refused")

	_, err := svc.Lookup(context.Background(), "Paris", IntentForecast)
	require.ErrorIs(t, err, ErrUpstreamFetch)
}

func TestLookupContextCanceledIsNotWrapped(t *testing.T) {
	svc, geo, _ := newStubService()
	geo.err = context.Canceled

	_, err := svc.Lookup(context.Background(), "Paris", IntentCurrent)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrGeoResolution)
}

func TestParseReportMalformed(t *testing.T) {
	tests := map[string]struct {
		intent  Intent
		payload string
	}{
		"not json":        {IntentCurrent, `<html>`},
		"missing temp":    {IntentCurrent, `{"weather":[{"description":"fog"}]}`},
		"empty list":      {IntentForecast, `{"list":[]}`},
		"history no list": {IntentHistory, `{"cod":"200"}`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseReport("Paris", tt.intent, []byte(tt.payload))
			assert.ErrorIs(t, err, ErrUpstreamFetch)
		})
	}
}

func TestIntentValid(t *testing.T) {
	assert.True(t, IntentCurrent.Valid())
	assert.True(t, IntentForecast.Valid())
	assert.True(t, IntentHistory.Valid())
	assert.False(t, Intent("").Valid())
	assert.False(t, Intent("Current").Valid())
}

func TestLookupKeepsUnderlyingCause(t *testing.T) {
	refused := errors.New("connection refused")

	svc := NewService(&stubGeocoder{err: refused}, &stubFetcher{})
	_, err := svc.Lookup(context.Background(), "Paris", IntentCurrent)
	assert.ErrorIs(t, err, ErrGeoResolution)
	assert.ErrorIs(t, err, refused)

	svc = NewService(&stubGeocoder{}, &stubFetcher{err: refused})
	_, err = svc.Lookup(context.Background(), "Paris", IntentCurrent)
	assert.ErrorIs(t, err, ErrUpstreamFetch)
	assert.ErrorIs(t, err, refused)
}

func TestSentenceKeepsPayloadTemperature(t *testing.T) {
	tests := map[string]string{
		`{"weather":[{"description":"clear sky"}],"main":{"temp":12.0}}`:  "The current weather in Oslo is clear sky with a temperature of 12.0°C.",
		`{"weather":[{"description":"clear sky"}],"main":{"temp":-3.50}}`: "The current weather in Oslo is clear sky with a temperature of -3.50°C.",
		`{"weather":[{"description":"clear sky"}],"main":{"temp":7}}`:     "The current weather in Oslo is clear sky with a temperature of 7°C.",
	}
	for payload, want := range tests {
		r, err := ParseReport("Oslo", IntentCurrent, []byte(payload))
		require.NoError(t, err)
		assert.Equal(t, want, r.Sentence())
	}

	r := Report{Location: "Oslo", Intent: IntentHistory, Description: "fog", Temperature: 4.5}
	assert.Equal(t, "The weather in Oslo was fog with a temperature of 4.5°C.", r.Sentence())
}
