package screening

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rshade/amlscreen/internal/logging"
	"github.com/rshade/amlscreen/internal/metrics"
)

// DefaultEndpoint is the lead API's AML lookup route.
const DefaultEndpoint = "https://guest-app-api.therufescent.com/api/leads/aml_result"

// Query parameter names understood by the lookup endpoint.
const (
	ParamName        = "name"
	ParamDateOfBirth = "dob"
	ParamToken       = "crm_token"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// ClientConfig configures the upstream lookup.
type ClientConfig struct {
	Endpoint string
	// Token is forwarded verbatim as the crm_token query parameter.
	Token string
	// Timeout bounds a single lookup. Zero means no timeout.
	Timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMetrics records lookup outcomes and latency on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client performs screening lookups over HTTP.
type Client struct {
	endpoint *url.URL
	token    string
	http     *http.Client
	metrics  *metrics.Metrics
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg ClientConfig, opts ...Option) (*Client, error) {
	raw := cfg.Endpoint
	if raw == "" {
		raw = DefaultEndpoint
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing screening endpoint: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("screening endpoint must be http or https, got %q", raw)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("screening timeout must be >= 0, got %s", cfg.Timeout)
	}

	c := &Client{
		endpoint: endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured lookup URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// requestURL builds the lookup URL for q. Existing query parameters on the
// endpoint are kept.
func (c *Client) requestURL(q Query) string {
	u := *c.endpoint
	values := u.Query()
	values.Set(ParamName, q.Name)
	if q.DateOfBirth != "" {
		values.Set(ParamDateOfBirth, q.DateOfBirth)
	}
	if c.token != "" {
		values.Set(ParamToken, c.token)
	}
	u.RawQuery = values.Encode()
	return u.String()
}

// Search performs one lookup. Non-2xx responses return *UpstreamError with
// the status-derived kind; anything that prevents reading a response,
// including an undecodable body, returns a transport-kind *UpstreamError.
func (c *Client) Search(ctx context.Context, q Query) (*SearchResponse, error) {
	log := logging.FromContext(ctx).With().Str("component", "screening").Logger()
	start := time.Now()

	resp, err := c.do(ctx, q)
	outcome := lookupOutcome(resp, err)
	c.metrics.ObserveLookup(outcome, time.Since(start))

	if err != nil {
		log.Warn().
			Err(err).
			Str("outcome", outcome).
			Dur("duration", time.Since(start)).
			Msg("screening lookup failed")
		return nil, err
	}

	log.Debug().
		Str("outcome", outcome).
		Int("results", len(resp.Results)).
		Int("total", resp.Total.Value).
		Dur("duration", time.Since(start)).
		Msg("screening lookup completed")
	return resp, nil
}

func (c *Client) do(ctx context.Context, q Query) (*SearchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(q), nil)
	if err != nil {
		return nil, NewTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, NewTransportError(unwrapURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, NewStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewTransportError(fmt.Errorf("reading response body: %w", err))
	}

	decoded, err := DecodeResponse(body)
	if err != nil {
		return nil, NewTransportError(err)
	}
	return decoded, nil
}

// unwrapURLError strips the *url.Error wrapper so the message does not
// repeat the request URL, which carries the credential.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err
	}
	return err
}

func lookupOutcome(resp *SearchResponse, err error) string {
	if err != nil {
		return string(KindOf(err))
	}
	if resp.IsEmpty() {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomePopulated
}
