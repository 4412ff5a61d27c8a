package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/geo"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	GeocodeTTL = 24 * time.Hour

	geocodeFwdPrefix = "geo:fwd:"
	geocodeRevPrefix = "geo:rev:"
)

// GeocodeCache wraps a geo.Geocoder. Only successful lookups are cached;
// Redis errors fall through to the provider.
type GeocodeCache struct {
	next   geo.Geocoder
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewGeocodeCache(next geo.Geocoder, client *redis.Client, ttl time.Duration, log *logger.Logger) *GeocodeCache {
	if ttl <= 0 {
		ttl = GeocodeTTL
	}
	return &GeocodeCache{next: next, client: client, ttl: ttl, logger: log.Named("GeocodeCache")}
}

func forwardKey(address string) string {
	return geocodeFwdPrefix + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func reverseKey(at geo.LatLng) string {
	return geocodeRevPrefix + geo.FormatCoord(at.Lat) + "," + geo.FormatCoord(at.Lng)
}

func (c *GeocodeCache) Geocode(ctx context.Context, address string) (*geo.GeocodeResult, error) {
	return c.cached(ctx, forwardKey(address), func() (*geo.GeocodeResult, error) {
		return c.next.Geocode(ctx, address)
	})
}

func (c *GeocodeCache) ReverseGeocode(ctx context.Context, at geo.LatLng) (*geo.GeocodeResult, error) {
	return c.cached(ctx, reverseKey(at), func() (*geo.GeocodeResult, error) {
		return c.next.ReverseGeocode(ctx, at)
	})
}

func (c *GeocodeCache) cached(ctx context.Context, key string, load func() (*geo.GeocodeResult, error)) (*geo.GeocodeResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var res geo.GeocodeResult
		if errU := json.Unmarshal(data, &res); errU == nil {
			return &res, nil
		}
		c.logger.Warn("GeocodeCache: dropping unreadable entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("GeocodeCache: redis GET failed", zap.String("key", key), zap.Error(err))
	}

	res, err := load()
	if err != nil {
		return nil, err
	}
	if data, errM := json.Marshal(res); errM == nil {
		if errS := c.client.Set(ctx, key, data, c.ttl).Err(); errS != nil {
			c.logger.Warn("GeocodeCache: redis SET failed", zap.String("key", key), zap.Error(errS))
		}
	}
	return res, nil
}
