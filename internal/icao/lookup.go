package icao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// ErrAirportNotFound is returned when the external source has no record for
// a code.
var ErrAirportNotFound = errors.New("airport not found")

// AirportLookup resolves an unknown ICAO code against an external airport
// data source.
type AirportLookup interface {
	Lookup(ctx context.Context, code string) (domain.Airport, error)
}

// HTTPLookup queries an airport data API over HTTP.
type HTTPLookup struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewHTTPLookup creates a lookup client. The request deadline comes from the
// caller's context; the client timeout is a backstop.
func NewHTTPLookup(baseURL, apiToken string) *HTTPLookup {
	return &HTTPLookup{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type lookupResponse struct {
	ICAO      string  `json:"icao"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
}

// Lookup fetches one airport record.
func (l *HTTPLookup) Lookup(ctx context.Context, code string) (domain.Airport, error) {
	url := fmt.Sprintf("%s/api/airport/%s", l.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("failed to build lookup request: %w", err)
	}
	if l.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiToken)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("airport lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Airport{}, ErrAirportNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Airport{}, fmt.Errorf("airport lookup returned status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Airport{}, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return domain.Airport{}, ErrAirportNotFound
	}

	return domain.Airport{
		ICAO:      code,
		Name:      payload.Name,
		Country:   strings.TrimSpace(payload.Country),
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	}, nil
}
