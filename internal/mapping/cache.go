package mapping

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"creerlio-backend/internal/shared/metrics"
	"creerlio-backend/internal/shared/telemetry"
	"creerlio-backend/internal/shared/util"
)

const cacheKeyPrefix = "creerlio:geocode:"

// CachedGeocoder stores geocoding results in Redis. Cache failures fall
// through to the wrapped geocoder.
type CachedGeocoder struct {
	Next  Geocoder
	Cache rueidis.Client
	TTL   time.Duration
}

// NewCachedGeocoder wraps next with a Redis cache.
func NewCachedGeocoder(next Geocoder, cache rueidis.Client, ttl time.Duration) *CachedGeocoder {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedGeocoder{Next: next, Cache: cache, TTL: ttl}
}

// NewRedisClient connects to Redis for the geocode cache.
func NewRedisClient(addr, password string) (rueidis.Client, error) {
	return rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		Password:     password,
		DisableCache: true,
	})
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) ([]Place, error) {
	key := cacheKey(address)

	data, err := g.Cache.Do(ctx, g.Cache.B().Get().Key(key).Build()).AsBytes()
	switch {
	case err == nil:
		var places []Place
		if jsonErr := json.Unmarshal(data, &places); jsonErr == nil {
			metrics.IncGeocodeCache("hit")
			return places, nil
		}
		metrics.IncGeocodeCache("error")
		telemetry.Warn("geocode.cache_corrupt", map[string]any{"key": key})
	case rueidis.IsRedisNil(err):
		metrics.IncGeocodeCache("miss")
	default:
		metrics.IncGeocodeCache("error")
		telemetry.Warn("geocode.cache_read_failed", map[string]any{"error": err})
	}

	places, err := g.Next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return places, nil
	}
	payload, err := json.Marshal(places)
	if err != nil {
		return places, nil
	}
	cmd := g.Cache.B().Set().Key(key).Value(string(payload)).Ex(g.TTL).Build()
	if err := g.Cache.Do(ctx, cmd).Error(); err != nil {
		telemetry.Warn("geocode.cache_write_failed", map[string]any{"error": err})
	}
	return places, nil
}

// cacheKey hashes the address after lower-casing and collapsing whitespace.
func cacheKey(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	return cacheKeyPrefix + util.HashKey(normalized)
}

var _ Geocoder = (*CachedGeocoder)(nil)
