// Package places wraps the Google Places (New) REST API. The backend
// only proxies two calls on behalf of the address-autocomplete UI, so
// responses pass through as raw JSON.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const baseURL = "https://places.googleapis.com/v1"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("places api not configured")

// Client calls the Google Places API.
type Client struct {
	apiKey string
	http   *http.Client
}

// NewClient creates a Places client. An empty apiKey yields a client
// whose calls fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Autocomplete returns address predictions for the given input.
func (c *Client) Autocomplete(ctx context.Context, input, sessionToken string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]any{
		"input":               strings.TrimSpace(input),
		"sessionToken":        sessionToken,
		"includedRegionCodes": []string{"IL"},
		"languageCode":        "he",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/places:autocomplete", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	return c.do(req)
}

// Details resolves a place ID to its formatted address, location and
// address components.
func (c *Client) Details(ctx context.Context, placeID string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/places/"+placeID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "formattedAddress,location,addressComponents")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read places response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api returned status %d", resp.StatusCode)
	}
	return json.RawMessage(body), nil
}
