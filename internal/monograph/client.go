// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package monograph

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuGH/monograph/internal/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultRateLimit = 20
	defaultBurst     = 40
	maxBodyBytes     = 4 << 20
	userAgent        = "monograph-ssr"
)

// Options configures the upstream client.
type Options struct {
	Timeout        time.Duration
	RateLimit      rate.Limit
	RateLimitBurst int
}

// Client fetches monographs from the content API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for baseURL (e.g. https://api.example.com/v1).
func NewClient(baseURL string, opts Options) *Client {
	opts = normalizeOptions(opts)
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: opts.Timeout,
		TLSHandshakeTimeout:   5 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		limiter: rate.NewLimiter(opts.RateLimit, opts.RateLimitBurst),
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultBurst
	}
	return opts
}

// Fetch retrieves one monograph. Missing monographs yield ErrNotFound.
func (c *Client) Fetch(ctx context.Context, id string) (*Monograph, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Operation: "fetch", Err: err}
	}

	start := time.Now()
	m, outcome, err := c.fetch(ctx, id)
	metrics.ObserveUpstreamFetch(outcome, time.Since(start))
	return m, err
}

func (c *Client) fetch(ctx context.Context, id string) (*Monograph, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/monographs/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, "error", &UpstreamError{Operation: "fetch", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "error", &UpstreamError{Operation: "fetch", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "not_found", ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, "error", &UpstreamError{Operation: "fetch", Status: resp.StatusCode}
	}

	var m Monograph
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&m); err != nil {
		return nil, "error", &UpstreamError{Operation: "decode", Status: resp.StatusCode, Err: err}
	}
	if m.ID == "" {
		m.ID = id
	}
	if m.ID != id {
		return nil, "error", &UpstreamError{Operation: "decode", Status: resp.StatusCode, Err: errors.New("id mismatch")}
	}
	return &m, "ok", nil
}
