// Package contactapi delivers contact submissions to the backend's public
// contact endpoint.
package contactapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/SabirovSR/portfolio/internal/contact"
)

// Path is the backend route that accepts submissions.
const Path = "/api/public/contact"

const (
	statusQueued    = "queued"
	maxResponseBody = 64 << 10
	defaultTimeout  = 15 * time.Second
)

// ErrNotQueued means the endpoint answered but did not accept the message.
var ErrNotQueued = errors.New("contactapi: submission not queued")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contactapi: unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Response is the endpoint's reply. Only Status is acted on; Message and
// Detail are logged when a submission is not queued.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Client posts submissions as JSON with a static api-key header.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ contact.Sender = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send issues exactly one POST. It succeeds only when the response is 2xx
// and its JSON body reports status "queued".
func (c *Client) Send(ctx context.Context, sub contact.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("contactapi: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("contactapi: build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contactapi: post: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("contactapi: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[CONTACT] request %s rejected: status=%d body=%.200s", reqID, resp.StatusCode, raw)
		return &StatusError{Code: resp.StatusCode}
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("contactapi: decode response: %w", err)
	}
	if out.Status != statusQueued {
		log.Printf("[CONTACT] request %s not queued: status=%q message=%q detail=%q", reqID, out.Status, out.Message, out.Detail)
		return fmt.Errorf("%w: status %q", ErrNotQueued, out.Status)
	}

	log.Printf("[CONTACT] request %s queued as %s", reqID, out.ID)
	return nil
}
