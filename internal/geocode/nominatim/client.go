// Package nominatim provides a reverse-geocoding client for the
// OpenStreetMap Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smartaircity/smartaircity/internal/geocode"
	"github.com/smartaircity/smartaircity/internal/provider/resilience"
	"github.com/smartaircity/smartaircity/internal/telemetry"
)

const (
	// DefaultBaseURL is the public Nominatim endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultUserAgent identifies this client, as the Nominatim usage
	// policy requires a descriptive identifier.
	DefaultUserAgent = "SmartAirCity-Dashboard/1.0 (air-quality alerts)"

	// DefaultLanguage is the accept-language requested for results.
	DefaultLanguage = "en"
)

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default
	// resilient client is created.
	HTTPClient HTTPDoer

	// UserAgent is sent with every request (defaults to DefaultUserAgent).
	UserAgent string

	// Language is the accept-language parameter (defaults to DefaultLanguage).
	Language string

	// Metrics records lookup durations and outcomes (optional).
	Metrics *telemetry.ProviderMetrics

	// Timeout for individual lookups (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Nominatim reverse-geocoding client.
type Client struct {
	baseURL    string
	userAgent  string
	language   string
	httpClient HTTPDoer
	metrics    *telemetry.ProviderMetrics
}

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "nominatim",
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		language:   language,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
	}
}

// reverseResponse is the Nominatim reverse geocoding payload. Address
// components are all optional.
type reverseResponse struct {
	Address addressData `json:"address"`
}

type addressData struct {
	Road          string `json:"road"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
}

// Resolve looks up a display name for the given coordinates. The name
// is assembled from road, neighbourhood and city parts, skipping any
// that are absent.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("accept-language", c.language)

	reqURL := c.baseURL + "/reverse?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordRequest(ctx, "nominatim", "reverse", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from reverse endpoint", resp.StatusCode)
	}

	var result reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}

	name := displayName(result.Address)
	if name == "" {
		return "", geocode.ErrNoAddress
	}
	return name, nil
}

// displayName joins the present address parts with commas. Suburb is
// preferred over neighbourhood, city over town over village.
func displayName(a addressData) string {
	var parts []string
	if a.Road != "" {
		parts = append(parts, a.Road)
	}

	if a.Suburb != "" {
		parts = append(parts, a.Suburb)
	} else if a.Neighbourhood != "" {
		parts = append(parts, a.Neighbourhood)
	}

	switch {
	case a.City != "":
		parts = append(parts, a.City)
	case a.Town != "":
		parts = append(parts, a.Town)
	case a.Village != "":
		parts = append(parts, a.Village)
	}

	return strings.Join(parts, ", ")
}
