package resolver

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/logger"
)

// fakeSource is a scriptable adapter for chain-order tests.
type fakeSource struct {
	name   string
	covers bool
	quote  market.Quote
	err    error
	calls  atomic.Int32
}

func (f *fakeSource) Name() string       { return f.name }
func (f *fakeSource) Covers(string) bool { return f.covers }
func (f *fakeSource) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	f.calls.Add(1)
	if f.err != nil {
		return market.Quote{}, f.err
	}
	q := f.quote
	q.Symbol = symbol
	return q, nil
}

func working(name string, price float64) *fakeSource {
	return &fakeSource{name: name, covers: true, quote: market.Quote{Price: price, Source: name}}
}

func failing(name string) *fakeSource {
	return &fakeSource{name: name, covers: true, err: market.ErrUnavailable}
}

func TestResolveFirstUsableSourceWins(t *testing.T) {
	a := failing("A")
	b := working("B", 100)
	c := working("C", 200)

	r := New(logger.NewNop(), nil, []SourceAdapter{a, b, c})
	q := r.Resolve(context.Background(), "RELIANCE")

	assert.Equal(t, "B", q.Source)
	assert.InDelta(t, 100.0, q.Price, 0.001)
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
	// later sources stay untouched once a price lands
	assert.Equal(t, int32(0), c.calls.Load())
}

func TestResolveSkipsNonCoveringSources(t *testing.T) {
	a := &fakeSource{name: "A", covers: false}
	b := working("B", 50)

	r := New(logger.NewNop(), nil, []SourceAdapter{a, b})
	q := r.Resolve(context.Background(), "RELIANCE")

	assert.Equal(t, "B", q.Source)
	assert.Equal(t, int32(0), a.calls.Load())
}

func TestResolveZeroPriceIsNotUsable(t *testing.T) {
	a := working("A", 0)
	b := working("B", 75)

	r := New(logger.NewNop(), nil, []SourceAdapter{a, b})
	q := r.Resolve(context.Background(), "TCS")

	assert.Equal(t, "B", q.Source)
}

func TestResolveAllFailReturnsDegradedQuote(t *testing.T) {
	r := New(logger.NewNop(), nil, []SourceAdapter{failing("A"), failing("B")})
	q := r.Resolve(context.Background(), "TCS")

	assert.Zero(t, q.Price)
	assert.Equal(t, market.SourceNone, q.Source)
	assert.Equal(t, "TCS", q.Symbol)
}

func TestResolveUsesIndexChainForIndices(t *testing.T) {
	idx := working("IDX", 25362)
	eq := working("EQ", 100)

	r := New(logger.NewNop(), []SourceAdapter{idx}, []SourceAdapter{eq})

	assert.Equal(t, "IDX", r.Resolve(context.Background(), "NIFTY").Source)
	assert.Equal(t, "EQ", r.Resolve(context.Background(), "RELIANCE").Source)
}

func TestResolveManyResolvesAllSymbols(t *testing.T) {
	src := working("A", 10)
	r := New(logger.NewNop(), []SourceAdapter{src}, []SourceAdapter{src})

	symbols := []string{"RELIANCE", "TCS", "INFY", "NIFTY", "HDFCBANK"}
	results := r.ResolveMany(context.Background(), symbols)

	assert.Len(t, results, len(symbols))
	for _, s := range symbols {
		assert.Equal(t, s, results[s].Symbol)
	}
}

func TestResolveManyIncludesDegradedSymbols(t *testing.T) {
	r := New(logger.NewNop(), []SourceAdapter{failing("A")}, []SourceAdapter{failing("A")})

	results := r.ResolveMany(context.Background(), []string{"RELIANCE", "NIFTY"})

	assert.Len(t, results, 2)
	assert.Equal(t, market.SourceNone, results["RELIANCE"].Source)
}
