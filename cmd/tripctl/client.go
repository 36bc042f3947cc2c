package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Field, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client calls the weekend trip API, retrying connection errors and 5xx.
type Client struct {
	base string
	http *retryablehttp.Client
}

// NewClient returns a client for base, e.g. http://localhost:8080.
func NewClient(base string, timeout time.Duration, retries int, log retryablehttp.LeveledLogger) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retries
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = timeout
	c.Logger = log
	// Hand back the last response once retries run out so do can decode the
	// server's error body.
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Client{base: strings.TrimRight(base, "/"), http: c}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Field = errBody.Field
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Weekend is the /dates/weekend answer.
type Weekend struct {
	Reference string `json:"reference"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Nights    int    `json:"nights"`
	Cached    bool   `json:"cached"`
}

// Weekend fetches the weekend window; an empty reference means today on the server.
func (c *Client) Weekend(ctx context.Context, reference string) (Weekend, error) {
	path := "/api/v1/dates/weekend"
	if reference != "" {
		path += "?reference=" + url.QueryEscape(reference)
	}
	var out Weekend
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Slot is one departure or return day.
type Slot struct {
	Date     string `json:"date"`
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// Plan is the /dates/presets answer.
type Plan struct {
	Reference  string   `json:"reference"`
	Presets    []string `json:"presets"`
	Departures []Slot   `json:"departures"`
	Returns    []Slot   `json:"returns"`
	Cached     bool     `json:"cached"`
}

// Presets expands preset keys on the server.
func (c *Client) Presets(ctx context.Context, reference string, keys []string) (Plan, error) {
	var out Plan
	err := c.do(ctx, http.MethodPost, "/api/v1/dates/presets", map[string]interface{}{
		"presets":   keys,
		"reference": reference,
	}, &out)
	return out, err
}

// CatalogEntry is one preset of the catalog.
type CatalogEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Dated bool   `json:"dated"`
}

// Catalog lists presets labelled in lang.
func (c *Client) Catalog(ctx context.Context, lang string) ([]CatalogEntry, error) {
	path := "/api/v1/presets"
	if lang != "" {
		path += "?lang=" + url.QueryEscape(lang)
	}
	var out struct {
		Presets []CatalogEntry `json:"presets"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Presets, err
}
