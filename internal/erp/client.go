// Package erp is the outbound gateway to the company ERP REST API. Every
// entity the financeiro module shows is authoritative upstream; this package
// only moves DTOs across the wire and maps failure statuses.
package erp

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

	"github.com/sirupsen/logrus"

	"github.com/contabhub/financeiro-server/internal/logging"
	"github.com/contabhub/financeiro-server/internal/session"
)

// StatusError is returned for any non-2xx upstream response. Handlers map it
// to their own status codes (401/403/404 pass through, 5xx becomes 502).
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("erp: upstream status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// do issues one JSON request with the session credentials attached. out may be
// nil for calls whose response body is irrelevant.
func (c *Client) do(ctx context.Context, sess session.Session, method, path string, query url.Values, body interface{}, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erp: encode request: %w", err)
		}
		if c.log.IsLevelEnabled(logrus.DebugLevel) {
			c.log.WithField("url", fullURL).Debugf("erp request body: %s", encoded)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("erp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("erp: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erp: decode %s %s: %w", method, path, err)
	}
	if c.log.IsLevelEnabled(logrus.TraceLevel) {
		c.log.Tracef("erp response %s %s: %s", method, path, logging.Dump(out))
	}
	return nil
}

func decodeJSON(r io.Reader, out interface{}) error {
	return json.NewDecoder(r).Decode(out)
}

// doRaw issues a request and returns the raw body plus selected headers, for
// blob downloads.
func (c *Client) doRaw(ctx context.Context, sess session.Session, method, path string, query url.Values) ([]byte, http.Header, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("erp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("erp: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("erp: read %s %s: %w", method, path, err)
	}
	return data, resp.Header, nil
}
