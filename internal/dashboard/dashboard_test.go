package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/internal/signals"
	"github.com/optionsense/backend/pkg/logger"
)

type fakeResolver struct {
	quote market.Quote
}

func (f *fakeResolver) Resolve(ctx context.Context, symbol string) market.Quote {
	q := f.quote
	q.Symbol = symbol
	return q
}

type fakeChains struct {
	snapshot *market.OptionChainSnapshot
	err      error
}

func (f *fakeChains) FetchOptionChain(ctx context.Context, symbol string) (*market.OptionChainSnapshot, error) {
	return f.snapshot, f.err
}

func chainWith(rows []market.StrikeRow, callOI, putOI int64) *market.OptionChainSnapshot {
	return &market.OptionChainSnapshot{
		Symbol: "NIFTY",
		Rows:   rows,
		Totals: market.ChainTotals{CallOI: callOI, PutOI: putOI},
	}
}

func newService(res *fakeResolver, chains *fakeChains) *Service {
	cal := market.NewCalendar("Asia/Kolkata")
	return NewService(res, chains, cal, logger.NewNop())
}

func TestSnapshotShortCoveringSignal(t *testing.T) {
	res := &fakeResolver{quote: market.Quote{
		Price: 25362, Change: 120, ChangePct: 0.48,
		High: 25400, Low: 25150, Source: market.SourceGoogle,
	}}
	rows := []market.StrikeRow{
		{Strike: 25350, CE: market.OptionSide{ChangeInOI: -80000}, PE: market.OptionSide{ChangeInOI: 120000}},
		{Strike: 25400, CE: market.OptionSide{ChangeInOI: -20000}, PE: market.OptionSide{ChangeInOI: 50000}},
	}
	s := newService(res, &fakeChains{snapshot: chainWith(rows, 1000000, 1300000)})

	snap := s.GetSnapshot(context.Background(), "NIFTY")

	assert.Equal(t, "success", snap.Status)
	assert.Equal(t, "NIFTY", snap.Symbol)
	assert.InDelta(t, 25362.0, snap.Data.Price, 0.001)
	assert.Equal(t, "Short Covering: Call Writers Exiting, Put Writers Entering", snap.Data.OIAlert.Message)
	assert.Equal(t, signals.ColorStrongGreen, snap.Data.OIAlert.BgColor)
	assert.InDelta(t, 1.3, snap.Data.PCR.Value, 0.001)
	// typical-price VWAP from session high/low
	assert.InDelta(t, (25400.0+25150.0+25362.0)/3, snap.Data.VWAPSignal.Value, 0.01)
	assert.True(t, snap.Data.VWAPSignal.IsBullish)
	assert.Equal(t, "Price > VWAP", snap.Data.VWAPSignal.Message)
	assert.Contains(t, []string{"OPEN", "CLOSED"}, snap.MarketStatus)
}

func TestSnapshotDegradesWithoutChain(t *testing.T) {
	res := &fakeResolver{quote: market.Quote{Price: 0, Source: market.SourceNone}}
	s := newService(res, &fakeChains{err: market.ErrUnavailable})

	snap := s.GetSnapshot(context.Background(), "NIFTY")

	assert.Equal(t, "success", snap.Status)
	// base price substitutes when every source failed
	assert.InDelta(t, market.IndexBasePrices["NIFTY"], snap.Data.Price, 0.001)
	assert.NotEmpty(t, snap.Data.OIAlert.Message)
	assert.InDelta(t, 1.0, snap.Data.PCR.Value, 0.001)
}

func TestOIDetailsExactlyElevenAscendingStrikes(t *testing.T) {
	res := &fakeResolver{quote: market.Quote{Price: 25362, Source: market.SourceGoogle}}
	rows := []market.StrikeRow{
		{Strike: 25350, CE: market.OptionSide{ChangeInOI: -50000}, PE: market.OptionSide{ChangeInOI: 75000}},
	}
	s := newService(res, &fakeChains{snapshot: chainWith(rows, 100, 100)})

	details := s.GetOIDetails(context.Background(), "NIFTY")

	assert.Equal(t, 25350, details.ATMStrike)
	require.Len(t, details.Strikes, 11)
	for i := 1; i < len(details.Strikes); i++ {
		assert.Equal(t, 50, details.Strikes[i].Strike-details.Strikes[i-1].Strike)
	}

	var atmRow *StrikeOI
	for i := range details.Strikes {
		row := details.Strikes[i]
		if row.Strike == 25350 {
			atmRow = &details.Strikes[i]
		} else {
			// strikes missing from the chain synthesize as zero change
			assert.Zero(t, row.CEChange)
			assert.Zero(t, row.PEChange)
			assert.Equal(t, "GREY", row.CEBarColor)
		}
	}
	require.NotNil(t, atmRow)
	assert.True(t, atmRow.IsATM)
	assert.Equal(t, int64(-50000), atmRow.CEChange)
	// call unwinding and put writing both read bullish
	assert.Equal(t, "GREEN", atmRow.CEBarColor)
	assert.Equal(t, "GREEN", atmRow.PEBarColor)
}

func TestPCRTrendRisingAfterJump(t *testing.T) {
	s := newService(&fakeResolver{}, &fakeChains{})

	assert.Equal(t, "STABLE", s.trackPCRTrend("NIFTY", 1.0))
	assert.Equal(t, "STABLE", s.trackPCRTrend("NIFTY", 1.02))
	assert.Equal(t, "RISING", s.trackPCRTrend("NIFTY", 1.20))
	assert.Equal(t, "FALLING", s.trackPCRTrend("NIFTY", 0.80))
}

func TestPCRTrendWindowCapsAtFive(t *testing.T) {
	s := newService(&fakeResolver{}, &fakeChains{})

	for i := 0; i < 10; i++ {
		s.trackPCRTrend("BANKNIFTY", 1.0)
	}
	assert.Len(t, s.pcrHistory["BANKNIFTY"], 5)
}
