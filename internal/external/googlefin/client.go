// Package googlefin scrapes quote pages of a public finance portal.
// Coverage is a fixed symbol map: unmapped symbols are skipped with a
// static lookup, never a network call.
package googlefin

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/config"
	"github.com/optionsense/backend/pkg/httputil"
	"github.com/optionsense/backend/pkg/logger"
)

const defaultBaseURL = "https://www.google.com/finance/quote/"

// Extraction patterns for the quote page. The primary pattern targets
// the price div; the alternates survive class-name drift.
var (
	pricePattern     = regexp.MustCompile(`class="YMlKec fxKbKc">([0-9,.]+)<`)
	priceAltPattern  = regexp.MustCompile(`data-last-price="([0-9.]+)"`)
	prevClosePattern = regexp.MustCompile(`class="P6K39c">(?:[^0-9<]*)([0-9,.]+)<`)
)

// Client scrapes the portal's quote pages.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
}

// NewClient creates a scraper client with a 10 second per-request cap.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(cfg, log, 10*time.Second).
		DisableRetry().
		WithDefaultHeaders(map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		})

	return &Client{
		http:    httpClient,
		logger:  log.WithField("component", "googlefin"),
		baseURL: defaultBaseURL,
	}
}

// Name identifies this adapter in resolver output.
func (c *Client) Name() string {
	return market.SourceGoogle
}

// Covers reports whether the symbol has a quote-page mapping.
func (c *Client) Covers(symbol string) bool {
	_, ok := market.GoogleSymbol(symbol)
	return ok
}

// FetchQuote scrapes the quote page for a mapped symbol. Timeouts and
// layout drift surface as ErrUnavailable, never as transport errors.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	slug, ok := market.GoogleSymbol(symbol)
	if !ok {
		return market.Quote{}, market.ErrUnavailable
	}

	price, prevClose, err := c.scrape(ctx, slug)
	if err != nil {
		return market.Quote{}, err
	}

	return market.NormalizeScraped(symbol, price, prevClose, market.SourceGoogle), nil
}

// FetchBySlug scrapes an arbitrary quote-page slug. Used for global
// benchmarks that have no internal symbol.
func (c *Client) FetchBySlug(ctx context.Context, slug string) (price, prevClose float64, err error) {
	return c.scrape(ctx, slug)
}

func (c *Client) scrape(ctx context.Context, slug string) (price, prevClose float64, err error) {
	resp, err := c.http.Get(ctx, c.baseURL+slug)
	if err != nil {
		c.logger.WithError(err).WithField("slug", slug).Debug("scrape request failed")
		return 0, 0, market.ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		c.logger.WithFields(map[string]interface{}{"slug": slug, "status": resp.StatusCode}).Debug("scrape blocked")
		return 0, 0, market.ErrUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, market.ErrUnavailable
	}
	html := string(body)

	price, ok := extractNumber(html, pricePattern)
	if !ok {
		// layout drift: try the attribute form before giving up
		price, ok = extractNumber(html, priceAltPattern)
	}
	if !ok || price <= 0 {
		c.logger.WithField("slug", slug).Debug("price pattern not found")
		return 0, 0, market.ErrUnavailable
	}

	prevClose, _ = extractNumber(html, prevClosePattern)
	return price, prevClose, nil
}

func extractNumber(html string, re *regexp.Regexp) (float64, bool) {
	m := re.FindStringSubmatch(html)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
