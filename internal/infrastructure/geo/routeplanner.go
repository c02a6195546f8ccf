package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/api/metrics"
	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// RoutePlannerClient computes driving routes against an OSRM-compatible trip
// endpoint. The trip service keeps the first and last stop fixed and may
// reorder everything in between.
type RoutePlannerClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewRoutePlannerClient(baseURL string, timeout time.Duration, log zerolog.Logger) *RoutePlannerClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RoutePlannerClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type tripResponse struct {
	Code  string `json:"code"`
	Trips []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"trips"`
	Waypoints []struct {
		WaypointIndex int `json:"waypoint_index"`
	} `json:"waypoints"`
}

// PlanRoute requests a driving trip through stops. First stop is the fixed
// origin, last the fixed destination.
func (c *RoutePlannerClient) PlanRoute(ctx context.Context, stops []domain.Coordinates) (*ports.Route, error) {
	if len(stops) < 2 {
		return nil, domain.ErrTooFewStops
	}

	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues("route").Observe(time.Since(start).Seconds())
	}()

	coords := make([]string, len(stops))
	for i, s := range stops {
		// OSRM expects lng,lat ordering.
		coords[i] = fmt.Sprintf("%f,%f", s.Lng, s.Lat)
	}

	endpoint := fmt.Sprintf(
		"%s/trip/v1/driving/%s?source=first&destination=last&roundtrip=false",
		c.baseURL, strings.Join(coords, ";"),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("route", "error").Inc()
		return nil, fmt.Errorf("route request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("route", "error").Inc()
		return nil, fmt.Errorf("route call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LookupsTotal.WithLabelValues("route", "error").Inc()
		return nil, fmt.Errorf("route call: unexpected status %d", resp.StatusCode)
	}

	var body tripResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.LookupsTotal.WithLabelValues("route", "error").Inc()
		return nil, fmt.Errorf("route decode: %w", err)
	}
	if body.Code != "Ok" || len(body.Trips) == 0 {
		metrics.LookupsTotal.WithLabelValues("route", "empty").Inc()
		return nil, nil
	}

	order := make([]int, len(body.Waypoints))
	for i, wp := range body.Waypoints {
		order[i] = wp.WaypointIndex
	}

	metrics.LookupsTotal.WithLabelValues("route", "ok").Inc()
	return &ports.Route{
		StopOrder:       order,
		DistanceMeters:  body.Trips[0].Distance,
		DurationSeconds: body.Trips[0].Duration,
		Geometry:        body.Trips[0].Geometry,
	}, nil
}
