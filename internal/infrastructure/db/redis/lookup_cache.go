package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/api/metrics"
	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// Postal and geocode answers change rarely; a day of caching is safe.
const lookupTTL = 24 * time.Hour

// CachedPostalLookup is a read-through cache in front of the postal-lookup
// collaborator. Cache failures degrade to a direct call; only successful
// lookups are cached.
type CachedPostalLookup struct {
	client *redis.Client
	next   ports.PostalLookup
	log    zerolog.Logger
}

func NewCachedPostalLookup(client *redis.Client, next ports.PostalLookup, log zerolog.Logger) *CachedPostalLookup {
	return &CachedPostalLookup{client: client, next: next, log: log}
}

func (c *CachedPostalLookup) LookupAddress(ctx context.Context, postalCode string) (*ports.PostalAddress, error) {
	key := fmt.Sprintf("postal:%s", postalCode)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var addr ports.PostalAddress
		if err := json.Unmarshal(raw, &addr); err == nil {
			metrics.LookupCacheTotal.WithLabelValues("postal", "hit").Inc()
			return &addr, nil
		}
	}
	metrics.LookupCacheTotal.WithLabelValues("postal", "miss").Inc()

	addr, err := c.next.LookupAddress(ctx, postalCode)
	if err != nil || addr == nil {
		return addr, err
	}

	if raw, err := json.Marshal(addr); err == nil {
		if err := c.client.Set(ctx, key, raw, lookupTTL).Err(); err != nil {
			c.log.Debug().Err(err).Str("key", key).Msg("failed to cache postal lookup")
		}
	}
	return addr, nil
}

// CachedGeocoder is a read-through cache in front of the geocoding
// collaborator, keyed by the exact address string.
type CachedGeocoder struct {
	client *redis.Client
	next   ports.Geocoder
	log    zerolog.Logger
}

func NewCachedGeocoder(client *redis.Client, next ports.Geocoder, log zerolog.Logger) *CachedGeocoder {
	return &CachedGeocoder{client: client, next: next, log: log}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	key := fmt.Sprintf("geocode:%s", address)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var coords domain.Coordinates
		if err := json.Unmarshal(raw, &coords); err == nil {
			metrics.LookupCacheTotal.WithLabelValues("geocode", "hit").Inc()
			return &coords, nil
		}
	}
	metrics.LookupCacheTotal.WithLabelValues("geocode", "miss").Inc()

	coords, err := c.next.Geocode(ctx, address)
	if err != nil || coords == nil {
		return coords, err
	}

	if raw, err := json.Marshal(coords); err == nil {
		if err := c.client.Set(ctx, key, raw, lookupTTL).Err(); err != nil {
			c.log.Debug().Err(err).Str("key", key).Msg("failed to cache geocode result")
		}
	}
	return coords, nil
}
