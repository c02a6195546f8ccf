// Package geo implements HTTP clients for the external lookup collaborators:
// free-text geocoding, postal-code address lookup, and driving-route planning.
//
// All three share the same failure contract: a missing result and a transport
// failure both collapse to "no result" for the caller, nothing is retried,
// and no failure is fatal to the process.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/api/metrics"
	"github.com/anybirth-inc/josetsu/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// GeocoderClient resolves free-text addresses against a Nominatim-compatible
// search endpoint.
type GeocoderClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewGeocoderClient(baseURL string, timeout time.Duration, log zerolog.Logger) *GeocoderClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GeocoderClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best coordinate pair for address, or (nil, nil) when
// the collaborator has no match.
func (c *GeocoderClient) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues("geocode").Observe(time.Since(start).Seconds())
	}()

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("geocode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("geocode call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LookupsTotal.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("geocode call: unexpected status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		metrics.LookupsTotal.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("geocode decode: %w", err)
	}
	if len(results) == 0 {
		metrics.LookupsTotal.WithLabelValues("geocode", "empty").Inc()
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		metrics.LookupsTotal.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("geocode decode: malformed coordinates %q/%q", results[0].Lat, results[0].Lon)
	}

	metrics.LookupsTotal.WithLabelValues("geocode", "ok").Inc()
	return &domain.Coordinates{Lat: lat, Lng: lng}, nil
}
