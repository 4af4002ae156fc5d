package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-chat/internal/metrics"
	"github.com/i474232898/weather-chat/internal/weather"
)

var (
	// ErrNoResponse is returned when the general responder produced nothing usable.
	ErrNoResponse = errors.New("no response received from the general responder")
	// ErrPersistence is returned when a computed response could not be recorded.
	ErrPersistence = errors.New("failed to persist query record")
)

// Responder answers free-text queries (a language model).
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// WeatherLookup turns a location and intent into a reply sentence.
type WeatherLookup interface {
	Lookup(ctx context.Context, location string, intent weather.Intent) (string, error)
}

// Router classifies a query, calls exactly one downstream collaborator and
// records the exchange.
type Router struct {
	classifier *Classifier
	responder  Responder
	weather    WeatherLookup
	store      Store
	now        func() time.Time
}

// NewRouter creates a new Router. A nil classifier uses DefaultCatalog.
func NewRouter(classifier *Classifier, responder Responder, lookup WeatherLookup, store Store) *Router {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Router{
		classifier: classifier,
		responder:  responder,
		weather:    lookup,
		store:      store,
		now:        time.Now,
	}
}

// Classify exposes the router's classifier.
func (r *Router) Classify(query string) Classification {
	return r.classifier.Classify(query)
}

// Route answers query and persists {query, response} once before returning.
//
// If the answer was computed but could not be saved, Route returns the answer
// together with an error wrapping ErrPersistence. Any other error comes with
// an empty response and nothing persisted.
func (r *Router) Route(ctx context.Context, query string) (string, error) {
	start := r.now()
	class := r.classifier.Classify(query)

	var (
		response string
		err      error
	)
	switch c := class.(type) {
	case General:
		response, err = r.handleGeneral(ctx, query)
	case Weather:
		response, err = r.handleWeather(ctx, c)
	default:
		err = fmt.Errorf("unhandled classification %T", class)
	}
	if err != nil {
		metrics.ObserveRoute(string(class.Kind()), metrics.OutcomeFailed, r.now().Sub(start))
		return "", err
	}

	rec := Record{
		ID:        uuid.NewString(),
		Query:     query,
		Response:  response,
		Kind:      class.Kind(),
		CreatedAt: r.now().UTC(),
	}
	if err := r.store.Append(ctx, rec); err != nil {
		log.Error().Err(err).Str("record_id", rec.ID).Str("kind", string(rec.Kind)).Msg("failed to save query record")
		metrics.PersistenceFailures.Inc()
		metrics.ObserveRoute(string(class.Kind()), metrics.OutcomeUnsaved, r.now().Sub(start))
		return response, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	metrics.ObserveRoute(string(class.Kind()), metrics.OutcomeOK, r.now().Sub(start))
	return response, nil
}

func (r *Router) handleGeneral(ctx context.Context, query string) (string, error) {
	if r.responder == nil {
		return "", fmt.Errorf("%w: responder not configured", ErrNoResponse)
	}

	response, err := r.responder.Respond(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("general responder failed")
		return "", fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	if strings.TrimSpace(response) == "" {
		return "", ErrNoResponse
	}
	return response, nil
}

func (r *Router) handleWeather(ctx context.Context, w Weather) (string, error) {
	if r.weather == nil {
		return "", fmt.Errorf("%w: weather lookup not configured", weather.ErrUpstreamFetch)
	}

	log.Debug().Str("location", w.Location).Stringer("intent", w.Intent).Msg("routing weather query")
	return r.weather.Lookup(ctx, w.Location, w.Intent)
}
