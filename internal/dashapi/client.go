// Package dashapi is the HTTP client for the dashboard backend. Every
// response uses the same JSON envelope {success, data|message}; this package
// decodes the envelope, surfaces backend messages as typed errors and maps
// the payloads onto Go structs.
package dashapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rtaverse/dashboard/internal/httputil"
)

// ErrNoDataset reports the backend's "no table uploaded yet" condition
// (error_type NO_TABLE). Chart loaders substitute a fixed guidance message
// when they see it.
var ErrNoDataset = errors.New("no dataset uploaded")

// APIError is a non-success envelope: the backend responded but flagged the
// request as failed. Its message is shown to the user verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// envelope is the fixed JSON wrapper every endpoint returns.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      json.RawMessage `json:"data"`

	// The barangays listing puts its payload beside the flag instead of
	// under data.
	Barangays []string `json:"barangays"`
}

// Client issues requests against one backend base URL.
type Client struct {
	base string
	http httputil.Client
}

// NewClient creates a client for the given base URL (e.g.
// "http://localhost:5000"). A nil httputil.Client falls back to the
// standard library default client.
func NewClient(base string, hc httputil.Client) *Client {
	if hc == nil {
		hc = httputil.NewStandardClient(nil)
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

// ForecastQuery appends the model and horizon parameters to an encoded
// filter query.
func ForecastQuery(q, model string, horizon int) string {
	extra := "model=" + model + "&horizon=" + strconv.Itoa(horizon)
	if q == "" {
		return extra
	}
	return q + "&" + extra
}

func (c *Client) url(path, query string) string {
	u := c.base + path
	if query != "" {
		u += "?" + query
	}
	return u
}

// getData issues a GET, decodes the envelope and unmarshals data into out.
// out may be nil when the caller only cares about success.
func (c *Client) getData(ctx context.Context, path, query string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp.Body, path, out)
}

// postJSON issues a POST with a JSON body and decodes the envelope,
// returning the backend's message on success.
func (c *Client) postJSON(ctx context.Context, path string, body any) (string, error) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode body for %s: %w", path, err)
		}
		payload = strings.NewReader(string(raw))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, ""), payload)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode response for %s: %w", path, err)
	}
	if !env.Success {
		if env.ErrorType == "NO_TABLE" {
			return "", fmt.Errorf("%s: %w", env.Message, ErrNoDataset)
		}
		return "", &APIError{Message: env.Message}
	}
	return env.Message, nil
}

func decodeEnvelope(r io.Reader, path string, out any) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	if !env.Success {
		if env.ErrorType == "NO_TABLE" {
			return fmt.Errorf("%s: %w", env.Message, ErrNoDataset)
		}
		return &APIError{Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		// Successful envelope with no data block; leave out zeroed.
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode payload for %s: %w", path, err)
	}
	return nil
}

// Barangays fetches the location names offered by the location filter.
func (c *Client) Barangays(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/barangays", ""), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for /api/barangays: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch /api/barangays: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response for /api/barangays: %w", err)
	}
	if !env.Success {
		return nil, &APIError{Message: env.Message}
	}
	return env.Barangays, nil
}
