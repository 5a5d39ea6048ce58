// Package enrich normalizes raw slot text into typed values using a Duckling
// parsing service. Each enricher targets one Duckling dimension and produces
// a typed slot value the flow can render and compute with.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rudder/pkg/logx"
)

// DefaultBaseURL points at the conventional in-cluster Duckling deployment.
const DefaultBaseURL = "http://duckling-server:8000"

// DefaultLocale is used when the host configures none.
const DefaultLocale = "en_GB"

// parseTimeout bounds one Duckling round trip. Enrichment runs inline in the
// turn, so a hung parser must not stall the conversation.
const parseTimeout = 5 * time.Second

// Client calls a Duckling server's /parse endpoint.
type Client struct {
	baseURL string
	locale  string
	http    *http.Client
	logger  *logx.Logger
}

// NewClient creates a Duckling client. Empty baseURL and locale fall back to
// the defaults.
func NewClient(baseURL, locale string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if locale == "" {
		locale = DefaultLocale
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		locale:  locale,
		http:    &http.Client{Timeout: parseTimeout},
		logger:  logx.NewLogger("duckling"),
	}
}

// Span is one parsed entity from Duckling.
type Span struct {
	Dim   string          `json:"dim"`
	Body  string          `json:"body"`
	Start int             `json:"start"`
	End   int             `json:"end"`
	Value json.RawMessage `json:"value"`
}

// Parse submits text to Duckling and returns the parsed spans.
func (c *Client) Parse(ctx context.Context, text string) ([]Span, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("locale", c.locale)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build duckling request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckling request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("duckling returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var spans []Span
	if err := json.NewDecoder(resp.Body).Decode(&spans); err != nil {
		return nil, fmt.Errorf("failed to decode duckling response: %w", err)
	}
	return spans, nil
}

// FirstValue returns the value payload of the first span matching the
// dimension.
func (c *Client) FirstValue(ctx context.Context, text, dim string) (json.RawMessage, error) {
	spans, err := c.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	for _, span := range spans {
		if span.Dim == dim {
			return span.Value, nil
		}
	}
	return nil, fmt.Errorf("no %s found in %q", dim, text)
}
