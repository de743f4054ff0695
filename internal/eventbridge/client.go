package eventbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kingrea/spells-for-muggle/internal/skill"
	"github.com/kingrea/spells-for-muggle/internal/speech"
)

// DefaultClientTimeout bounds a single round trip.
const DefaultClientTimeout = 10 * time.Second

// Client posts events to a running bridge server.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption customizes Client construction.
type ClientOption func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient targets the bridge at baseURL, e.g. http://127.0.0.1:8765.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: DefaultClientTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Handle lets a Client stand in for a local skill.
func (c *Client) Handle(ctx context.Context, evt skill.Event) (speech.Envelope, error) {
	return c.Invoke(ctx, evt)
}

// Invoke sends evt to POST /skill and decodes the envelope.
func (c *Client) Invoke(ctx context.Context, evt skill.Event) (speech.Envelope, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return speech.Envelope{}, fmt.Errorf("eventbridge: encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/skill", bytes.NewReader(payload))
	if err != nil {
		return speech.Envelope{}, fmt.Errorf("eventbridge: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var envelope speech.Envelope
	if err := c.do(req, &envelope); err != nil {
		return speech.Envelope{}, err
	}
	return envelope, nil
}

// Health reads GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("eventbridge: build request: %w", err)
	}
	var health Health
	if err := c.do(req, &health); err != nil {
		return Health{}, err
	}
	return health, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("eventbridge: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("eventbridge: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		remote := &RemoteError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var decoded errorBody
		if json.Unmarshal(body, &decoded) == nil && decoded.Error != "" {
			remote.Code = decoded.Code
			remote.Message = decoded.Error
		}
		return remote
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("eventbridge: decode response: %w", err)
	}
	return nil
}
