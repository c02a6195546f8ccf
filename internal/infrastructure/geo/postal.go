package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/api/metrics"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// PostalClient resolves 7-digit postal codes against a zipcloud-compatible
// endpoint returning three concatenable address components.
type PostalClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewPostalClient(baseURL string, timeout time.Duration, log zerolog.Logger) *PostalClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PostalClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type postalResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Results []struct {
		Address1 string `json:"address1"` // prefecture
		Address2 string `json:"address2"` // city
		Address3 string `json:"address3"` // town
	} `json:"results"`
}

// LookupAddress returns the structured address for a normalized 7-digit
// postal code, or (nil, nil) when the code is unknown.
func (c *PostalClient) LookupAddress(ctx context.Context, postalCode string) (*ports.PostalAddress, error) {
	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues("postal").Observe(time.Since(start).Seconds())
	}()

	q := url.Values{}
	q.Set("zipcode", postalCode)

	endpoint := fmt.Sprintf("%s/api/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("postal", "error").Inc()
		return nil, fmt.Errorf("postal request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("postal", "error").Inc()
		return nil, fmt.Errorf("postal call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LookupsTotal.WithLabelValues("postal", "error").Inc()
		return nil, fmt.Errorf("postal call: unexpected status %d", resp.StatusCode)
	}

	var body postalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.LookupsTotal.WithLabelValues("postal", "error").Inc()
		return nil, fmt.Errorf("postal decode: %w", err)
	}
	if body.Status != http.StatusOK {
		metrics.LookupsTotal.WithLabelValues("postal", "error").Inc()
		return nil, fmt.Errorf("postal call: service status %d: %s", body.Status, body.Message)
	}
	if len(body.Results) == 0 {
		metrics.LookupsTotal.WithLabelValues("postal", "empty").Inc()
		return nil, nil
	}

	metrics.LookupsTotal.WithLabelValues("postal", "ok").Inc()
	return &ports.PostalAddress{
		Prefecture: body.Results[0].Address1,
		City:       body.Results[0].Address2,
		Town:       body.Results[0].Address3,
	}, nil
}
