// Package screener builds ranked stock recommendations from whatever
// data tier is currently reachable. Output degrades through four
// explicit tiers, LIVE to MOCK, and always reports which tier served
// the request.
package screener

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/optionsense/backend/internal/cache"
	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/internal/signals"
	"github.com/optionsense/backend/pkg/logger"
)

// Source tier tags reported in the data_source field.
const (
	TierLive      = "LIVE"
	TierCached    = "CACHED"
	TierLastClose = "LAST_CLOSE"
	TierMock      = "MOCK"
)

// Filter names accepted by GetScreenerData.
const (
	FilterAll        = "all"
	FilterBuy        = "buy"
	FilterSell       = "sell"
	FilterTopGainers = "top_gainers"
	FilterTopLosers  = "top_losers"
)

const topMoversLimit = 20

// Entry is one processed stock with its full signal readout.
type Entry struct {
	Symbol         string                `json:"symbol"`
	Name           string                `json:"name"`
	Sector         string                `json:"sector"`
	Price          float64               `json:"price"`
	Change         float64               `json:"change"`
	ChangePct      float64               `json:"change_pct"`
	VolumeSurge    float64               `json:"volume_surge"`
	Indicators     signals.Indicators    `json:"indicators"`
	FibLevels      signals.FibLevels     `json:"fib_levels"`
	Score          int                   `json:"score"`
	Recommendation string                `json:"recommendation"`
	RecColor       string                `json:"rec_color"`
	TradingLevels  signals.TradingLevels `json:"trading_levels"`
	Reasons        []string              `json:"reasons"`
	IsLive         bool                  `json:"is_live"`
	LastUpdated    string                `json:"last_updated"`
}

// Summary counts recommendations over the full unfiltered set.
type Summary struct {
	Total       int `json:"total"`
	BuySignals  int `json:"buy_signals"`
	SellSignals int `json:"sell_signals"`
	HoldSignals int `json:"hold_signals"`
}

// Result is the screener response payload.
type Result struct {
	Stocks     []Entry `json:"stocks"`
	Summary    Summary `json:"summary"`
	Filter     string  `json:"filter"`
	Timestamp  string  `json:"timestamp"`
	DataSource string  `json:"data_source"`
}

// universeSource serves the bulk symbol universe and single quotes.
type universeSource interface {
	FetchUniverse(ctx context.Context) ([]market.Quote, error)
	FetchQuote(ctx context.Context, symbol string) (market.Quote, error)
}

// closeSource serves archived end-of-day quotes.
type closeSource interface {
	FetchQuote(ctx context.Context, symbol string) (market.Quote, error)
}

// priceResolver re-resolves single symbols through the fallback chain.
type priceResolver interface {
	Resolve(ctx context.Context, symbol string) market.Quote
	ResolveMany(ctx context.Context, symbols []string) map[string]market.Quote
}

// Screener aggregates quotes into recommendations.
type Screener struct {
	universe universeSource
	closes   closeSource
	resolver priceResolver
	logger   *logger.Logger

	entries      *cache.TTL[[]Entry]
	universeList *cache.TTL[[]market.Quote]
	now          func() time.Time
}

// New creates a screener over the given sources. Processed entries are
// cached briefly so bursts of requests do not hammer the sources; the
// raw universe list is retained for a day and serves the CACHED tier
// when the live fetch fails.
func New(universe universeSource, closes closeSource, res priceResolver, quoteTTL, universeTTL time.Duration, log *logger.Logger) *Screener {
	if quoteTTL <= 0 {
		quoteTTL = 60 * time.Second
	}
	if universeTTL <= 0 {
		universeTTL = 24 * time.Hour
	}
	return &Screener{
		universe:     universe,
		closes:       closes,
		resolver:     res,
		logger:       log.WithField("component", "screener"),
		entries:      cache.NewTTL[[]Entry](quoteTTL),
		universeList: cache.NewTTL[[]market.Quote](universeTTL),
		now:          time.Now,
	}
}

// GetScreenerData returns processed and filtered entries, degrading
// through tiers when the live universe is unreachable. The summary is
// always computed over the unfiltered set.
func (s *Screener) GetScreenerData(ctx context.Context, filter string) Result {
	all, tier := s.loadEntries(ctx)

	filtered := applyFilter(all, filter)
	if filter != FilterAll {
		filtered = s.refinePrices(ctx, filtered)
	}

	return Result{
		Stocks:     filtered,
		Summary:    summarize(all),
		Filter:     filter,
		Timestamp:  s.now().Format(time.RFC3339),
		DataSource: tier,
	}
}

// GetStockDetails returns one processed entry, or nil when the symbol
// cannot be served by any tier.
func (s *Screener) GetStockDetails(ctx context.Context, symbol string) *Entry {
	if cached, ok := s.entries.Peek(); ok {
		for i := range cached {
			if cached[i].Symbol == symbol {
				return &cached[i]
			}
		}
	}

	if q, err := s.universe.FetchQuote(ctx, symbol); err == nil && q.Usable() {
		if e := s.processQuote(q, true); e != nil {
			return e
		}
	}

	q := s.resolver.Resolve(ctx, symbol)
	if q.Usable() {
		return s.processQuote(q, q.Source != market.SourceEOD)
	}
	return nil
}

func (s *Screener) loadEntries(ctx context.Context) ([]Entry, string) {
	if cached, ok := s.entries.Get(); ok {
		return cached, TierCached
	}

	if quotes, err := s.universe.FetchUniverse(ctx); err == nil {
		entries := s.processQuotes(quotes, true)
		if len(entries) > 0 {
			s.universeList.Set(quotes)
			s.entries.Set(entries)
			return entries, TierLive
		}
	} else {
		s.logger.WithError(err).Warn("live universe unavailable")
	}

	// the last good universe list stays serviceable for a day
	if quotes, ok := s.universeList.Get(); ok {
		if entries := s.processQuotes(quotes, false); len(entries) > 0 {
			s.entries.Set(entries)
			return entries, TierCached
		}
	}

	if entries := s.lastCloseEntries(ctx); len(entries) > 0 {
		s.entries.Set(entries)
		return entries, TierLastClose
	}

	entries := s.mockEntries()
	s.entries.Set(entries)
	return entries, TierMock
}

func (s *Screener) lastCloseEntries(ctx context.Context) []Entry {
	var entries []Entry
	for _, info := range market.ScreenerStocks {
		q, err := s.closes.FetchQuote(ctx, info.Symbol)
		if err != nil || !q.Usable() {
			continue
		}
		if e := s.processQuote(q, false); e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// mockChangePcts gives the mock tier some spread without randomness.
var mockChangePcts = []float64{1.2, -0.8, 0.4, -1.5, 2.1}

func (s *Screener) mockEntries() []Entry {
	entries := make([]Entry, 0, len(market.ScreenerStocks))
	for i, info := range market.ScreenerStocks {
		base := market.StockBasePrices[info.Symbol]
		if base <= 0 {
			base = 1000
		}
		changePct := mockChangePcts[i%len(mockChangePcts)]

		q := market.Quote{
			Symbol:    info.Symbol,
			Name:      info.Name,
			Sector:    info.Sector,
			Price:     base,
			Change:    base * changePct / 100,
			ChangePct: changePct,
			Source:    market.SourceMock,
		}
		if e := s.processQuote(q, false); e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

func (s *Screener) processQuotes(quotes []market.Quote, live bool) []Entry {
	entries := make([]Entry, 0, len(quotes))
	for _, q := range quotes {
		if e := s.processQuote(q, live); e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// processQuote turns a quote into a screener entry. Quotes without a
// price are dropped, not zero-filled.
func (s *Screener) processQuote(q market.Quote, live bool) *Entry {
	if !q.Usable() {
		return nil
	}

	high52, low52 := q.Range52()
	ind := signals.DeriveIndicators(q.Price, q.ChangePct, high52, low52, 0)
	fib := signals.Fibonacci(q.Price, high52, low52)
	ind.FibSignal = fib.Signal

	score := signals.ScreenerScore(ind, q.ChangePct, fib.Signal)
	recommendation, recColor := signals.Recommendation(score)

	name := q.Name
	if name == "" {
		name = q.Symbol
	}
	sector := q.Sector
	if sector == "" {
		sector = "Various"
	}

	return &Entry{
		Symbol:         q.Symbol,
		Name:           name,
		Sector:         sector,
		Price:          round2(q.Price),
		Change:         round2(q.Change),
		ChangePct:      round2(q.ChangePct),
		VolumeSurge:    ind.VolumeSurge,
		Indicators:     ind,
		FibLevels:      fib,
		Score:          score,
		Recommendation: recommendation,
		RecColor:       recColor,
		TradingLevels:  signals.ComputeTradingLevels(q.Price, recommendation),
		Reasons:        buildReasons(ind, fib),
		IsLive:         live,
		LastUpdated:    s.now().Format("15:04:05"),
	}
}

// refinePrices re-resolves the filtered symbols through the scraping
// chain and recomputes the price-derived fields. The recommendation
// keeps the tier computed from the bulk pass; only price, change, and
// trading levels refresh.
func (s *Screener) refinePrices(ctx context.Context, entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}

	symbols := make([]string, len(entries))
	for i, e := range entries {
		symbols[i] = e.Symbol
	}

	refreshed := s.resolver.ResolveMany(ctx, symbols)
	for i := range entries {
		q, ok := refreshed[entries[i].Symbol]
		if !ok || !q.Usable() {
			continue
		}
		entries[i].Price = round2(q.Price)
		if q.Change != 0 || q.ChangePct != 0 {
			entries[i].Change = round2(q.Change)
			entries[i].ChangePct = round2(q.ChangePct)
		}
		entries[i].TradingLevels = signals.ComputeTradingLevels(q.Price, entries[i].Recommendation)
	}
	return entries
}

func applyFilter(entries []Entry, filter string) []Entry {
	switch filter {
	case FilterBuy:
		return selectEntries(entries, func(e Entry) bool {
			return e.Recommendation == signals.RecStrongBuy || e.Recommendation == signals.RecBuy
		})
	case FilterSell:
		return selectEntries(entries, func(e Entry) bool {
			return e.Recommendation == signals.RecStrongSell || e.Recommendation == signals.RecSell
		})
	case FilterTopGainers:
		gainers := selectEntries(entries, func(e Entry) bool { return e.ChangePct > 0 })
		sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].ChangePct > gainers[j].ChangePct })
		return clipEntries(gainers, topMoversLimit)
	case FilterTopLosers:
		losers := selectEntries(entries, func(e Entry) bool { return e.ChangePct < 0 })
		sort.SliceStable(losers, func(i, j int) bool { return losers[i].ChangePct < losers[j].ChangePct })
		return clipEntries(losers, topMoversLimit)
	default:
		return entries
	}
}

func selectEntries(entries []Entry, keep func(Entry) bool) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func clipEntries(entries []Entry, limit int) []Entry {
	if len(entries) <= limit {
		return entries
	}
	return entries[:limit]
}

func summarize(entries []Entry) Summary {
	s := Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Recommendation {
		case signals.RecStrongBuy, signals.RecBuy:
			s.BuySignals++
		case signals.RecStrongSell, signals.RecSell:
			s.SellSignals++
		case signals.RecHold:
			s.HoldSignals++
		}
	}
	return s
}

func buildReasons(ind signals.Indicators, fib signals.FibLevels) []string {
	var reasons []string

	switch {
	case ind.RSI < 30:
		reasons = append(reasons, fmt.Sprintf("RSI at %.1f indicates OVERSOLD - bounce expected", ind.RSI))
	case ind.RSI > 70:
		reasons = append(reasons, fmt.Sprintf("RSI at %.1f indicates OVERBOUGHT - correction expected", ind.RSI))
	default:
		reasons = append(reasons, fmt.Sprintf("RSI at %.1f - neutral zone", ind.RSI))
	}

	switch ind.MACD {
	case "BULLISH":
		reasons = append(reasons, "MACD shows bullish crossover - uptrend signal")
	case "BEARISH":
		reasons = append(reasons, "MACD shows bearish crossover - downtrend signal")
	}

	maCount := 0
	for _, above := range []bool{ind.Above20DMA, ind.Above50DMA, ind.Above200DMA} {
		if above {
			maCount++
		}
	}
	if maCount >= 2 {
		reasons = append(reasons, fmt.Sprintf("Price above %d/3 moving averages - bullish structure", maCount))
	} else {
		reasons = append(reasons, "Price below most moving averages - bearish structure")
	}

	switch fib.Signal {
	case "BULLISH":
		reasons = append(reasons, fmt.Sprintf("Fib: price above 38.2%% level - bullish zone, support at %.2f", fib.NearestSupport))
	case "BEARISH":
		reasons = append(reasons, fmt.Sprintf("Fib: price below 61.8%% level - bearish zone, resistance at %.2f", fib.NearestResistance))
	default:
		reasons = append(reasons, "Fib: price in consolidation zone (38.2%-61.8%), watch for breakout")
	}

	return reasons
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
