// Package eod serves end-of-day prices from the NSE archive CSVs. It
// is the last-resort source in the resolver chain: data is at best one
// session old, but the archive is reliable when the live surfaces
// throttle or change.
package eod

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/optionsense/backend/internal/cache"
	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/config"
	"github.com/optionsense/backend/pkg/httputil"
	"github.com/optionsense/backend/pkg/logger"
)

// The archive publishes one file per trading day. Weekends and
// holidays have no file, so lookups probe backwards.
const (
	equityPathFormat = "/products/content/sec_bhavdata_full_%s.csv"
	indexPathFormat  = "/content/indices/ind_close_all_%s.csv"
	dateLayout       = "02012006"
	maxProbeDays     = 5
)

// archiveIndexNames maps internal index symbols to the names the
// index-close CSV uses. Matching is case-insensitive.
var archiveIndexNames = map[string]string{
	"NIFTY":      "nifty 50",
	"BANKNIFTY":  "nifty bank",
	"FINNIFTY":   "nifty financial services",
	"MIDCPNIFTY": "nifty midcap select",
	"INDIAVIX":   "india vix",
}

// Client fetches and caches daily archive snapshots.
type Client struct {
	http       *httputil.Client
	logger     *logger.Logger
	archiveURL string

	equities *cache.Daily[map[string]market.Quote]
	indices  *cache.Daily[map[string]market.Quote]

	now func() time.Time
}

// NewClient creates an archive client. Each CSV kind is fetched at
// most once per calendar day.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	loc, err := time.LoadLocation(cfg.MarketTimezone)
	if err != nil {
		loc, _ = time.LoadLocation("Asia/Kolkata")
	}

	return &Client{
		http:       httputil.NewWithTimeout(cfg, log, 30*time.Second).DisableRetry(),
		logger:     log.WithField("component", "eod"),
		archiveURL: cfg.NSE.ArchiveURL,
		equities:   cache.NewDaily[map[string]market.Quote](loc),
		indices:    cache.NewDaily[map[string]market.Quote](loc),
		now:        time.Now,
	}
}

// Name identifies this adapter in resolver output.
func (c *Client) Name() string {
	return market.SourceEOD
}

// Covers always reports true. The archive carries both equities and
// indices, and unknown symbols simply miss the snapshot.
func (c *Client) Covers(string) bool {
	return true
}

// FetchQuote returns the latest archived close for the symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	var (
		snapshot map[string]market.Quote
		err      error
	)
	if market.IsIndex(symbol) {
		snapshot, err = c.indexSnapshot(ctx)
	} else {
		snapshot, err = c.equitySnapshot(ctx)
	}
	if err != nil {
		return market.Quote{}, err
	}

	q, ok := snapshot[symbol]
	if !ok {
		return market.Quote{}, market.ErrUnavailable
	}
	return q, nil
}

func (c *Client) equitySnapshot(ctx context.Context) (map[string]market.Quote, error) {
	if snap, ok := c.equities.Get(); ok {
		return snap, nil
	}

	body, err := c.probe(ctx, equityPathFormat)
	if err != nil {
		return nil, err
	}

	snap, err := parseEquityCSV(body)
	if err != nil {
		return nil, err
	}
	c.equities.Set(snap)
	return snap, nil
}

func (c *Client) indexSnapshot(ctx context.Context) (map[string]market.Quote, error) {
	if snap, ok := c.indices.Get(); ok {
		return snap, nil
	}

	body, err := c.probe(ctx, indexPathFormat)
	if err != nil {
		return nil, err
	}

	snap, err := parseIndexCSV(body)
	if err != nil {
		return nil, err
	}
	c.indices.Set(snap)
	return snap, nil
}

// probe walks back from yesterday until it finds a published file.
// Transport errors on one day do not end the walk; the older file may
// still be reachable.
func (c *Client) probe(ctx context.Context, pathFormat string) (io.ReadCloser, error) {
	day := c.now()
	for i := 0; i < maxProbeDays; i++ {
		day = day.AddDate(0, 0, -1)
		url := c.archiveURL + fmt.Sprintf(pathFormat, day.Format(dateLayout))

		resp, err := c.http.Get(ctx, url)
		if err != nil {
			c.logger.WithError(err).WithField("url", url).Debug("archive fetch failed")
			continue
		}
		if resp.StatusCode == 200 {
			return resp.Body, nil
		}
		resp.Body.Close()
	}
	return nil, market.ErrUnavailable
}

// parseEquityCSV reads the full bhavdata file. Only the EQ series is
// kept; other series are different instruments under the same symbol.
func parseEquityCSV(body io.ReadCloser) (map[string]market.Quote, error) {
	defer body.Close()

	r := csv.NewReader(body)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", market.ErrMalformedPayload, err)
	}
	col := columnIndex(header)

	snap := make(map[string]market.Quote)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if field(row, col, "SERIES") != "EQ" {
			continue
		}

		symbol := field(row, col, "SYMBOL")
		close := num(field(row, col, "CLOSE_PRICE"))
		if symbol == "" || close <= 0 {
			continue
		}

		q := market.NormalizeScraped(symbol, close, num(field(row, col, "PREV_CLOSE")), market.SourceEOD)
		q.Open = num(field(row, col, "OPEN_PRICE"))
		q.High = num(field(row, col, "HIGH_PRICE"))
		q.Low = num(field(row, col, "LOW_PRICE"))
		q.Volume = int64(num(field(row, col, "TTL_TRD_QNTY")))
		snap[symbol] = q
	}

	if len(snap) == 0 {
		return nil, market.ErrMalformedPayload
	}
	return snap, nil
}

// parseIndexCSV reads the all-indices close file and keeps the rows
// mapped in archiveIndexNames.
func parseIndexCSV(body io.ReadCloser) (map[string]market.Quote, error) {
	defer body.Close()

	wanted := make(map[string]string, len(archiveIndexNames))
	for symbol, name := range archiveIndexNames {
		wanted[name] = symbol
	}

	r := csv.NewReader(body)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", market.ErrMalformedPayload, err)
	}
	col := columnIndex(header)

	snap := make(map[string]market.Quote)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		symbol, ok := wanted[strings.ToLower(field(row, col, "Index Name"))]
		if !ok {
			continue
		}
		close := num(field(row, col, "Closing Index Value"))
		if close <= 0 {
			continue
		}

		change := num(field(row, col, "Points Change"))
		q := market.NormalizeScraped(symbol, close, close-change, market.SourceEOD)
		q.Open = num(field(row, col, "Open Index Value"))
		q.High = num(field(row, col, "High Index Value"))
		q.Low = num(field(row, col, "Low Index Value"))
		snap[symbol] = q
	}

	if len(snap) == 0 {
		return nil, market.ErrMalformedPayload
	}
	return snap, nil
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func num(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
