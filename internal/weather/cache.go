package weather

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedGeocoder memoizes successful lookups of another Geocoder for a TTL.
// Failures are never cached.
type CachedGeocoder struct {
	next  Geocoder
	cache *cache.Cache
}

// NewCachedGeocoder wraps next. A ttl <= 0 disables expiry.
func NewCachedGeocoder(next Geocoder, ttl time.Duration) *CachedGeocoder {
	exp := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		exp = ttl
		cleanup = 2 * ttl
	}
	return &CachedGeocoder{
		next:  next,
		cache: cache.New(exp, cleanup),
	}
}

func (g *CachedGeocoder) Name() string {
	return g.next.Name()
}

func (g *CachedGeocoder) Resolve(ctx context.Context, location string) (Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if v, ok := g.cache.Get(key); ok {
		return v.(Coordinates), nil
	}

	coords, err := g.next.Resolve(ctx, location)
	if err != nil {
		return Coordinates{}, err
	}
	g.cache.SetDefault(key, coords)
	return coords, nil
}
