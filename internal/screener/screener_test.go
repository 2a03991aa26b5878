package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/internal/signals"
	"github.com/optionsense/backend/pkg/logger"
)

type fakeUniverse struct {
	quotes []market.Quote
	err    error
	single map[string]market.Quote
	calls  int
}

func (f *fakeUniverse) FetchUniverse(ctx context.Context) ([]market.Quote, error) {
	f.calls++
	return f.quotes, f.err
}

func (f *fakeUniverse) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	q, ok := f.single[symbol]
	if !ok {
		return market.Quote{}, market.ErrUnavailable
	}
	return q, nil
}

type fakeCloses struct {
	quotes map[string]market.Quote
}

func (f *fakeCloses) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	q, ok := f.quotes[symbol]
	if !ok {
		return market.Quote{}, market.ErrUnavailable
	}
	return q, nil
}

type fakeResolver struct {
	quotes map[string]market.Quote
}

func (f *fakeResolver) Resolve(ctx context.Context, symbol string) market.Quote {
	q, ok := f.quotes[symbol]
	if !ok {
		return market.Quote{Symbol: symbol, Source: market.SourceNone}
	}
	return q
}

func (f *fakeResolver) ResolveMany(ctx context.Context, symbols []string) map[string]market.Quote {
	out := make(map[string]market.Quote)
	for _, s := range symbols {
		if q, ok := f.quotes[s]; ok {
			out[s] = q
		}
	}
	return out
}

func liveQuote(symbol string, price, changePct float64) market.Quote {
	return market.Quote{
		Symbol:     symbol,
		Name:       symbol + " Ltd",
		Sector:     "IT",
		Price:      price,
		Change:     price * changePct / 100,
		ChangePct:  changePct,
		Week52High: price * 1.3,
		Week52Low:  price * 0.7,
		Source:     market.SourceNSE,
	}
}

func newScreener(u *fakeUniverse, c *fakeCloses, r *fakeResolver) *Screener {
	if c == nil {
		c = &fakeCloses{}
	}
	if r == nil {
		r = &fakeResolver{}
	}
	return New(u, c, r, time.Minute, time.Hour, logger.NewNop())
}

func TestLiveTierProcessesUniverse(t *testing.T) {
	u := &fakeUniverse{quotes: []market.Quote{
		liveQuote("TCS", 3900, 2.5),
		liveQuote("WIPRO", 480, -2.2),
		{Symbol: "BROKEN", Price: 0},
	}}
	s := newScreener(u, nil, nil)

	res := s.GetScreenerData(context.Background(), FilterAll)

	assert.Equal(t, TierLive, res.DataSource)
	// zero-price rows are dropped, not zero-filled
	require.Len(t, res.Stocks, 2)
	assert.Equal(t, 2, res.Summary.Total)

	tcs := res.Stocks[0]
	assert.Equal(t, "TCS", tcs.Symbol)
	assert.True(t, tcs.IsLive)
	rec, color := signals.Recommendation(tcs.Score)
	assert.Equal(t, rec, tcs.Recommendation)
	assert.Equal(t, color, tcs.RecColor)
	assert.NotEmpty(t, tcs.Reasons)
}

func TestSecondCallServesCache(t *testing.T) {
	u := &fakeUniverse{quotes: []market.Quote{liveQuote("TCS", 3900, 1.0)}}
	s := newScreener(u, nil, nil)

	first := s.GetScreenerData(context.Background(), FilterAll)
	second := s.GetScreenerData(context.Background(), FilterAll)

	assert.Equal(t, TierLive, first.DataSource)
	assert.Equal(t, TierCached, second.DataSource)
	assert.Equal(t, 1, u.calls)
}

func TestLastCloseTierWhenLiveFails(t *testing.T) {
	u := &fakeUniverse{err: errors.New("blocked")}
	c := &fakeCloses{quotes: map[string]market.Quote{
		"RELIANCE": liveQuote("RELIANCE", 2456, 0.7),
		"TCS":      liveQuote("TCS", 3910, -0.4),
	}}
	s := newScreener(u, c, nil)

	res := s.GetScreenerData(context.Background(), FilterAll)

	assert.Equal(t, TierLastClose, res.DataSource)
	assert.Len(t, res.Stocks, 2)
	assert.False(t, res.Stocks[0].IsLive)
}

func TestCachedTierServesRetainedUniverse(t *testing.T) {
	u := &fakeUniverse{quotes: []market.Quote{liveQuote("TCS", 3900, 1.0)}}
	s := New(u, &fakeCloses{}, &fakeResolver{}, 5*time.Millisecond, time.Hour, logger.NewNop())

	first := s.GetScreenerData(context.Background(), FilterAll)
	require.Equal(t, TierLive, first.DataSource)

	// entry cache expires, then the live source goes dark
	u.err = errors.New("blocked")
	u.quotes = nil
	time.Sleep(20 * time.Millisecond)

	second := s.GetScreenerData(context.Background(), FilterAll)
	assert.Equal(t, TierCached, second.DataSource)
	require.Len(t, second.Stocks, 1)
	assert.Equal(t, "TCS", second.Stocks[0].Symbol)
	assert.False(t, second.Stocks[0].IsLive)
	assert.Equal(t, 2, u.calls)
}

func TestRetainedUniverseExpires(t *testing.T) {
	u := &fakeUniverse{quotes: []market.Quote{liveQuote("TCS", 3900, 1.0)}}
	s := New(u, &fakeCloses{}, &fakeResolver{}, 5*time.Millisecond, 5*time.Millisecond, logger.NewNop())

	first := s.GetScreenerData(context.Background(), FilterAll)
	require.Equal(t, TierLive, first.DataSource)

	u.err = errors.New("blocked")
	u.quotes = nil
	time.Sleep(20 * time.Millisecond)

	second := s.GetScreenerData(context.Background(), FilterAll)
	assert.Equal(t, TierMock, second.DataSource)
}

func TestMockTierWhenEverythingFails(t *testing.T) {
	u := &fakeUniverse{err: errors.New("blocked")}
	s := newScreener(u, nil, nil)

	res := s.GetScreenerData(context.Background(), FilterAll)

	assert.Equal(t, TierMock, res.DataSource)
	assert.Len(t, res.Stocks, len(market.ScreenerStocks))
	assert.Equal(t, len(market.ScreenerStocks), res.Summary.Total)
}

func TestBuyFilterKeepsOnlyBuyTiers(t *testing.T) {
	u := &fakeUniverse{quotes: []market.Quote{
		liveQuote("TCS", 3900, 2.5),   // strongly positive
		liveQuote("WIPRO", 480, -2.8), // strongly negative
	}}
	s := newScreener(u, nil, nil)

	res := s.GetScreenerData(context.Background(), FilterBuy)

	for _, e := range res.Stocks {
		assert.Contains(t, []string{signals.RecStrongBuy, signals.RecBuy}, e.Recommendation)
	}
	// summary always covers the unfiltered set
	assert.Equal(t, 2, res.Summary.Total)
}

func TestTopGainersSortedPositiveOnly(t *testing.T) {
	u := &fakeUniverse{quotes: []market.Quote{
		liveQuote("A1", 100, 0.5),
		liveQuote("A2", 100, 3.2),
		liveQuote("A3", 100, -1.0),
		liveQuote("A4", 100, 1.8),
	}}
	s := newScreener(u, nil, nil)

	res := s.GetScreenerData(context.Background(), FilterTopGainers)

	require.Len(t, res.Stocks, 3)
	assert.Equal(t, "A2", res.Stocks[0].Symbol)
	assert.Equal(t, "A4", res.Stocks[1].Symbol)
	assert.Equal(t, "A1", res.Stocks[2].Symbol)
}

func TestFilteredResultsGetRefinedPrices(t *testing.T) {
	u := &fakeUniverse{quotes: []market.Quote{liveQuote("TCS", 3900, 2.5)}}
	r := &fakeResolver{quotes: map[string]market.Quote{
		"TCS": {Symbol: "TCS", Price: 3925.50, Source: market.SourceGoogle},
	}}
	s := newScreener(u, nil, r)

	res := s.GetScreenerData(context.Background(), FilterBuy)

	require.Len(t, res.Stocks, 1)
	e := res.Stocks[0]
	assert.InDelta(t, 3925.50, e.Price, 0.001)
	// levels recomputed from the refreshed price
	expected := signals.ComputeTradingLevels(3925.50, e.Recommendation)
	assert.Equal(t, expected, e.TradingLevels)
}

func TestStockDetailsFallsThroughTiers(t *testing.T) {
	u := &fakeUniverse{single: map[string]market.Quote{
		"INFY": liveQuote("INFY", 1560, 1.1),
	}}
	r := &fakeResolver{quotes: map[string]market.Quote{
		"SBIN": {Symbol: "SBIN", Price: 785, Source: market.SourceGoogle},
	}}
	s := newScreener(u, nil, r)

	infy := s.GetStockDetails(context.Background(), "INFY")
	require.NotNil(t, infy)
	assert.True(t, infy.IsLive)

	sbin := s.GetStockDetails(context.Background(), "SBIN")
	require.NotNil(t, sbin)
	assert.InDelta(t, 785.0, sbin.Price, 0.001)

	assert.Nil(t, s.GetStockDetails(context.Background(), "NOSUCH"))
}
