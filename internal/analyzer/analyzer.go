// Package analyzer calls the remote grammar-analysis service and wraps it
// with the rate-limit discipline the service demands: one request at a time,
// round-robin over the configured servers, bounded retry with exponential
// backoff.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mkraus/slovnik/internal/word"
)

const defaultTimeout = 10 * time.Second

// SleepFunc waits for the given duration or until ctx is done. Tests inject a
// no-op so retry behavior is observable without real time passing.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client is the raw HTTP client for one analyze call against one server.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a client with the service's 10-second request timeout.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: defaultTimeout}}
}

// Analyze fetches the grammar analysis for headword from the given server.
// The formatted report is derived locally since the wire format does not
// carry it.
func (c *Client) Analyze(ctx context.Context, server, headword string) (*word.GrammarAnalysis, error) {
	u := fmt.Sprintf("%s/api/analyze?word=%s", server, url.QueryEscape(headword))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("analyzer: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer: %s returned %s: %s", server, resp.Status, body)
	}
	var g word.GrammarAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return nil, fmt.Errorf("analyzer: decode response: %w", err)
	}
	g.FormattedResult = word.FormatReport(&g)
	return &g, nil
}

// Service serializes analyze calls over a set of servers. Not safe for
// concurrent use; the batch pipeline funnels all requests through a single
// goroutine anyway.
type Service struct {
	client     *Client
	bal        Balancer
	maxRetries int
	baseDelay  time.Duration
	sleep      SleepFunc
}

// Option customizes a Service.
type Option func(*Service)

// WithSleep replaces the inter-retry wait. Tests use this to avoid real
// delays.
func WithSleep(fn SleepFunc) Option {
	return func(s *Service) { s.sleep = fn }
}

// WithRetries sets the retry budget and the base backoff delay.
func WithRetries(max int, base time.Duration) Option {
	return func(s *Service) {
		s.maxRetries = max
		s.baseDelay = base
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) { s.client = &Client{httpClient: hc} }
}

// NewService builds a Service rotating over the given server endpoints.
func NewService(endpoints []string, opts ...Option) *Service {
	s := &Service{
		client:     NewClient(),
		bal:        Balancer{Endpoints: endpoints},
		maxRetries: 3,
		baseDelay:  2 * time.Second,
		sleep:      sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze performs the request with bounded retries and exponential backoff,
// picking a fresh endpoint per attempt. A terminal failure means the caller
// proceeds without remote analysis for that word.
func (s *Service) Analyze(ctx context.Context, headword string) (*word.GrammarAnalysis, error) {
	var lastErr error
	delay := s.baseDelay
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}
		endpoint, next, err := s.bal.PickNext()
		if err != nil {
			return nil, err
		}
		s.bal = next
		g, err := s.client.Analyze(ctx, endpoint, headword)
		if err == nil {
			return g, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("analyzer: %d attempts failed: %w", s.maxRetries+1, lastErr)
}
