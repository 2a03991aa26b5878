// Package nse talks to the exchange's public data endpoints. The
// endpoints sit behind a browser-style cookie session: the client
// initializes the session lazily on first use and refreshes it once
// when a request comes back blocked, then gives up with
// market.ErrUnavailable.
package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/optionsense/backend/internal/cache"
	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/config"
	"github.com/optionsense/backend/pkg/httputil"
	"github.com/optionsense/backend/pkg/logger"
)

// chainCacheTTL bounds how often the heavy option-chain endpoint is
// hit per symbol.
const chainCacheTTL = 60 * time.Second

// browser-like headers; the exchange blocks unadorned clients
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,hi;q=0.8",
	"Connection":      "keep-alive",
}

// Client is the exchange data client.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
	chains  *cache.Keyed[*market.OptionChainSnapshot]

	mu          sync.Mutex
	sessionInit bool
}

// NewClient creates an exchange client. The session cookie jar and
// rate limit live on the HTTP client for the whole process lifetime.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		DisableRetry().
		WithCookieJar().
		WithDefaultHeaders(defaultHeaders).
		WithRateLimit(cfg.NSE.RateLimit)

	return &Client{
		http:    httpClient,
		logger:  log.WithField("component", "nse_client"),
		baseURL: cfg.NSE.BaseURL,
		chains:  cache.NewKeyed[*market.OptionChainSnapshot](chainCacheTTL),
	}
}

// SweepChainCache drops expired option-chain snapshots and reports how
// many were removed.
func (c *Client) SweepChainCache() int {
	return c.chains.Sweep()
}

// Name identifies this adapter in resolver output.
func (c *Client) Name() string {
	return market.SourceNSE
}

// Covers reports whether the adapter can quote the symbol. The quote
// endpoint serves equities only; index levels come from the option
// chain instead.
func (c *Client) Covers(symbol string) bool {
	return !market.IsIndex(symbol)
}

// ensureSession primes the cookie jar by hitting the landing page.
// Double-checked under the mutex so concurrent fetches trigger a
// single handshake.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionInit {
		return nil
	}
	return c.handshake(ctx)
}

// refreshSession drops the cookies and re-runs the handshake. Called
// after a blocked response.
func (c *Client) refreshSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.http.ClearCookies()
	c.sessionInit = false
	return c.handshake(ctx)
}

func (c *Client) handshake(ctx context.Context) error {
	resp, err := c.http.Get(ctx, c.baseURL)
	if err != nil {
		return fmt.Errorf("session handshake: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.sessionInit = true
	c.logger.Debug("NSE session initialized")
	return nil
}

// getJSON fetches an API path and decodes the body. A blocked or
// non-200 response triggers one session refresh and one retry, after
// which the call reports ErrUnavailable.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	if err := c.ensureSession(ctx); err != nil {
		c.logger.WithError(err).Warn("NSE session init failed")
		return market.ErrUnavailable
	}

	fullURL := c.baseURL + path

	body, ok := c.tryGet(ctx, fullURL)
	if !ok {
		if err := c.refreshSession(ctx); err != nil {
			c.logger.WithError(err).Warn("NSE session refresh failed")
			return market.ErrUnavailable
		}
		body, ok = c.tryGet(ctx, fullURL)
		if !ok {
			return market.ErrUnavailable
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.WithError(err).WithField("path", path).Warn("NSE payload decode failed")
		return fmt.Errorf("%w: %v", market.ErrMalformedPayload, err)
	}
	return nil
}

// tryGet performs one request and reports whether it yielded a usable
// body. 401/403/empty bodies count as blocked.
func (c *Client) tryGet(ctx context.Context, fullURL string) ([]byte, bool) {
	resp, err := c.http.Get(ctx, fullURL)
	if err != nil {
		c.logger.WithError(err).Debug("NSE request failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		c.logger.WithField("status", resp.StatusCode).Debug("NSE request blocked")
		io.Copy(io.Discard, resp.Body)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return nil, false
	}
	return body, true
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}
