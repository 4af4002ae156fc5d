package weather

import (
	"context"
)

// Geocoder abstracts a location lookup service (e.g. OpenCage, Google).
type Geocoder interface {
	Name() string
	Resolve(ctx context.Context, location string) (Coordinates, error)
}

// Fetcher abstracts the weather data source. It returns the raw JSON payload
// for the requested intent; formatting is done by the Service.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, coords Coordinates, intent Intent) ([]byte, error)
}
