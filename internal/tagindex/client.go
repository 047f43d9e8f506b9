// Package tagindex is the HTTP client for a remote tag autocomplete index.
//
// The index answers GET <endpoint><token> with a JSON array of
// {"tag", "total", "type"} objects.
package tagindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/pkg/logger"
)

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// StatusError is returned when the index answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tag index returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("tag index returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Client queries a tag index over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for endpoint. A zero timeout keeps the transport
// default.
func New(endpoint string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("invalid tag index endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid tag index endpoint %q: scheme must be http or https", endpoint)
	}
	base := u.String()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: timeout},
	}, nil
}

// Lookup fetches the suggestions for token.
func (c *Client) Lookup(ctx context.Context, token string) ([]completion.Suggestion, error) {
	log := logger.ForComponent(ctx, "tagindex")
	target := c.BaseURL + url.PathEscape(token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build tag index request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tag index request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.V(1).Info("tag index lookup",
		logger.TokenKey, token,
		logger.EndpointKey, c.BaseURL,
		"status", resp.StatusCode,
		logger.DurationKey, time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var rows []completion.Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode tag index response: %w", err)
	}
	if rows == nil {
		rows = []completion.Suggestion{}
	}
	return rows, nil
}
