// Package mailapi provides a client for the mail delivery service.
package mailapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smartaircity/smartaircity/internal/provider/resilience"
	"github.com/smartaircity/smartaircity/internal/telemetry"
)

// DefaultBaseURL is the local delivery-service endpoint.
const DefaultBaseURL = "http://localhost:8025"

// ClientConfig holds configuration for the delivery-service client.
type ClientConfig struct {
	// BaseURL is the delivery service base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default
	// resilient client is created.
	HTTPClient HTTPDoer

	// Metrics records delivery durations and outcomes (optional).
	Metrics *telemetry.ProviderMetrics

	// Timeout for individual delivery requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client submits messages to the delivery service. It implements
// notify.Mailer.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	metrics    *telemetry.ProviderMetrics
}

// NewClient creates a new delivery-service client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "mailapi",
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     3 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		metrics:    cfg.Metrics,
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type sendResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Send submits one message. On success it returns the service's
// confirmation text, which may be empty; on failure the error carries
// the service's human-readable message when one was provided.
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	payload, err := json.Marshal(sendRequest{To: to, Subject: subject, Body: body})
	if err != nil {
		return "", fmt.Errorf("encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordRequest(ctx, "mailapi", "send", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return "", fmt.Errorf("delivery service: %s", errResp.Error)
		}
		return "", fmt.Errorf("unexpected status %d from delivery service", resp.StatusCode)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// A 2xx without a parseable body is still a successful delivery.
		return "", nil
	}

	return result.Message, nil
}
