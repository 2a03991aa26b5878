// Package moneycontrol scrapes NSE price blocks from Moneycontrol
// quote pages and the advance/decline counts from its market page.
package moneycontrol

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/config"
	"github.com/optionsense/backend/pkg/httputil"
	"github.com/optionsense/backend/pkg/logger"
)

const (
	defaultBaseURL = "https://www.moneycontrol.com"
	marketsPath    = "/markets/indian-indices/"
)

// Price element ids on the quote pages. The DOM is tried first,
// the regex forms survive markup drift.
var (
	priceFallback     = regexp.MustCompile(`id="nsecp"[^>]*>([0-9,.]+)<`)
	prevCloseFallback = regexp.MustCompile(`id="n_prevclose"[^>]*>([0-9,.]+)<`)
	advancesPattern   = regexp.MustCompile(`Advances[^0-9]*([0-9]+)`)
	declinesPattern   = regexp.MustCompile(`Declines[^0-9]*([0-9]+)`)
)

// Client scrapes Moneycontrol pages.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
}

// NewClient creates a scraper client. A single quiet retry is kept
// because the site intermittently serves 503s under load.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		WithRetry(1, 500*time.Millisecond).
		WithDefaultHeaders(map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept-Language": "en-US,en;q=0.9",
		})

	return &Client{
		http:    httpClient,
		logger:  log.WithField("component", "moneycontrol"),
		baseURL: defaultBaseURL,
	}
}

// Name identifies this adapter in resolver output.
func (c *Client) Name() string {
	return market.SourceMoneycontrol
}

// Covers reports whether the symbol has a known quote page.
func (c *Client) Covers(symbol string) bool {
	_, ok := market.MoneycontrolPath(symbol)
	return ok
}

// FetchQuote scrapes the NSE price block from the symbol's quote page.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	path, ok := market.MoneycontrolPath(symbol)
	if !ok {
		return market.Quote{}, market.ErrUnavailable
	}

	body, err := c.fetch(ctx, c.baseURL+path)
	if err != nil {
		return market.Quote{}, err
	}

	price, prevClose := extractPrices(body)
	if price <= 0 {
		c.logger.WithField("symbol", symbol).Debug("price block not found")
		return market.Quote{}, market.ErrUnavailable
	}

	return market.NormalizeScraped(symbol, price, prevClose, market.SourceMoneycontrol), nil
}

// FetchBreadth scrapes advancing and declining counts from the market
// overview page. Callers hold the fallback for when the page changes.
func (c *Client) FetchBreadth(ctx context.Context) (advancing, declining int, err error) {
	body, err := c.fetch(ctx, c.baseURL+marketsPath)
	if err != nil {
		return 0, 0, err
	}

	advancing = extractCount(body, advancesPattern)
	declining = extractCount(body, declinesPattern)
	if advancing == 0 && declining == 0 {
		return 0, 0, market.ErrUnavailable
	}
	return advancing, declining, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Debug("scrape request failed")
		return nil, market.ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, market.ErrUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, market.ErrUnavailable
	}
	return body, nil
}

// extractPrices pulls the NSE last price and previous close. DOM
// lookup first, then raw regex against the page bytes.
func extractPrices(body []byte) (price, prevClose float64) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		price = parseNumber(doc.Find("#nsecp").First().Text())
		if price <= 0 {
			price = parseNumber(doc.Find("#nsecp").AttrOr("data-numberanimate-value", ""))
		}
		prevClose = parseNumber(doc.Find("#n_prevclose").First().Text())
	}

	if price <= 0 {
		price = matchNumber(body, priceFallback)
	}
	if prevClose <= 0 {
		prevClose = matchNumber(body, prevCloseFallback)
	}
	return price, prevClose
}

func matchNumber(body []byte, re *regexp.Regexp) float64 {
	m := re.FindSubmatch(body)
	if m == nil {
		return 0
	}
	return parseNumber(string(m[1]))
}

func extractCount(body []byte, re *regexp.Regexp) int {
	m := re.FindSubmatch(body)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(string(m[1]))
	return n
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
