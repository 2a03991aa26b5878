// Package dashboard assembles the index sentiment snapshot served on
// the main screen. Prices come from the resolver chain and open
// interest from the option chain; when the chain is unreachable the
// snapshot degrades to a deterministic fallback instead of erroring.
package dashboard

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/internal/signals"
	"github.com/optionsense/backend/pkg/logger"
)

const pcrHistorySize = 5

// VWAPSignal compares the spot price against the session VWAP.
type VWAPSignal struct {
	Value     float64 `json:"value"`
	IsBullish bool    `json:"is_bullish"`
	Message   string  `json:"message"`
}

// PCRReading is the put-call ratio with its short-term trend.
type PCRReading struct {
	Value float64 `json:"value"`
	Trend string  `json:"trend"`
}

// OIAlert is the aggregated open-interest shift banner.
type OIAlert struct {
	Message string `json:"message"`
	BgColor string `json:"bg_color"`
}

// SnapshotData is the inner data block of the dashboard payload.
type SnapshotData struct {
	Price          float64           `json:"price"`
	PriceChange    float64           `json:"price_change"`
	PriceChangePct float64           `json:"price_change_pct"`
	VWAPSignal     VWAPSignal        `json:"vwap_signal"`
	PCR            PCRReading        `json:"pcr"`
	Sentiment      signals.Sentiment `json:"sentiment"`
	OIAlert        OIAlert           `json:"oi_alert"`
}

// Snapshot is the dashboard response payload.
type Snapshot struct {
	Status       string       `json:"status"`
	Symbol       string       `json:"symbol"`
	LastUpdated  string       `json:"last_updated"`
	MarketStatus string       `json:"market_status"`
	Data         SnapshotData `json:"data"`
}

// StrikeOI is one row of the OI details table.
type StrikeOI struct {
	Strike     int    `json:"strike"`
	CEChange   int64  `json:"ce_change"`
	PEChange   int64  `json:"pe_change"`
	CEBarColor string `json:"ce_bar_color"`
	PEBarColor string `json:"pe_bar_color"`
	IsATM      bool   `json:"is_atm"`
}

// OIDetails is the OI table response payload.
type OIDetails struct {
	Status    string     `json:"status"`
	Symbol    string     `json:"symbol"`
	ATMStrike int        `json:"atm_strike"`
	Strikes   []StrikeOI `json:"strikes"`
}

type quoteResolver interface {
	Resolve(ctx context.Context, symbol string) market.Quote
}

type chainSource interface {
	FetchOptionChain(ctx context.Context, symbol string) (*market.OptionChainSnapshot, error)
}

// Service builds dashboard snapshots.
type Service struct {
	resolver quoteResolver
	chains   chainSource
	calendar *market.Calendar
	logger   *logger.Logger

	mu         sync.Mutex
	pcrHistory map[string][]float64

	now func() time.Time
}

// NewService creates a dashboard service.
func NewService(res quoteResolver, chains chainSource, cal *market.Calendar, log *logger.Logger) *Service {
	return &Service{
		resolver:   res,
		chains:     chains,
		calendar:   cal,
		logger:     log.WithField("component", "dashboard"),
		pcrHistory: make(map[string][]float64),
		now:        time.Now,
	}
}

// GetSnapshot returns the dashboard payload for one index symbol.
func (s *Service) GetSnapshot(ctx context.Context, symbol string) Snapshot {
	q := s.resolver.Resolve(ctx, symbol)
	price := q.Price
	if price <= 0 {
		price = market.IndexBasePrices[symbol]
		q.Change = 0
		q.ChangePct = 0
	}

	step := market.StrikeStep(symbol)
	window, pcr := s.oiWindow(ctx, symbol, price, step)

	var totalCE, totalPE int64
	for _, row := range window {
		totalCE += row.CEChange
		totalPE += row.PEChange
	}
	shift := signals.ClassifyOIShift(totalCE, totalPE)

	vwap := approximateVWAP(q, price)
	isBullish := price > vwap
	message := "Price < VWAP"
	if isBullish {
		message = "Price > VWAP"
	}

	sentiment := signals.SentimentScore(pcr, price, vwap, shift.Status)

	return Snapshot{
		Status:       "success",
		Symbol:       symbol,
		LastUpdated:  s.now().Format("2006-01-02 15:04:05"),
		MarketStatus: s.calendar.Status(s.now()),
		Data: SnapshotData{
			Price:          round2(price),
			PriceChange:    round2(q.Change),
			PriceChangePct: round2(q.ChangePct),
			VWAPSignal: VWAPSignal{
				Value:     round2(vwap),
				IsBullish: isBullish,
				Message:   message,
			},
			PCR: PCRReading{
				Value: round2(pcr),
				Trend: s.trackPCRTrend(symbol, pcr),
			},
			Sentiment: sentiment,
			OIAlert: OIAlert{
				Message: shift.Message,
				BgColor: shift.Color,
			},
		},
	}
}

// GetOIDetails returns the per-strike OI change table: exactly 11
// strikes, ascending, centered on the ATM strike.
func (s *Service) GetOIDetails(ctx context.Context, symbol string) OIDetails {
	spot := s.resolver.Resolve(ctx, symbol).Price
	if spot <= 0 {
		spot = market.IndexBasePrices[symbol]
	}

	step := market.StrikeStep(symbol)
	window, _ := s.oiWindow(ctx, symbol, spot, step)

	return OIDetails{
		Status:    "success",
		Symbol:    symbol,
		ATMStrike: signals.ATMStrike(spot, step),
		Strikes:   window,
	}
}

// oiWindow builds the 11-strike OI change window around the spot. When
// the option chain is unreachable the rows come from a deterministic
// fallback pattern, and PCR defaults to 1.0.
func (s *Service) oiWindow(ctx context.Context, symbol string, spot float64, step int) ([]StrikeOI, float64) {
	atm := signals.ATMStrike(spot, step)
	strikes := signals.RelevantStrikes(spot, step)

	snapshot, err := s.chains.FetchOptionChain(ctx, symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Debug("chain unavailable, using fallback OI")
		return fallbackOIWindow(strikes, atm, step), 1.0
	}

	changes := make(map[int]market.StrikeRow, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		// aggregate across expiries per strike
		agg := changes[row.Strike]
		agg.Strike = row.Strike
		agg.CE.ChangeInOI += row.CE.ChangeInOI
		agg.PE.ChangeInOI += row.PE.ChangeInOI
		changes[row.Strike] = agg
	}

	window := make([]StrikeOI, 0, len(strikes))
	for _, strike := range strikes {
		row := changes[strike] // zero row when the chain lacks the strike
		window = append(window, StrikeOI{
			Strike:     strike,
			CEChange:   row.CE.ChangeInOI,
			PEChange:   row.PE.ChangeInOI,
			CEBarColor: signals.BarColor(row.CE.ChangeInOI, true),
			PEBarColor: signals.BarColor(row.PE.ChangeInOI, false),
			IsATM:      strike == atm,
		})
	}
	return window, snapshot.PCR()
}

// fallbackOIWindow produces a fixed mild short-covering pattern so the
// dashboard stays populated when the chain source is down.
func fallbackOIWindow(strikes []int, atm, step int) []StrikeOI {
	window := make([]StrikeOI, 0, len(strikes))
	for _, strike := range strikes {
		dist := (strike - atm) / step
		ce := int64((dist - 2) * 8000)
		pe := int64((3 - dist) * 9000)
		window = append(window, StrikeOI{
			Strike:     strike,
			CEChange:   ce,
			PEChange:   pe,
			CEBarColor: signals.BarColor(ce, true),
			PEBarColor: signals.BarColor(pe, false),
			IsATM:      strike == atm,
		})
	}
	return window
}

// trackPCRTrend appends the reading to the symbol's rolling window and
// classifies the move against the average of the prior readings.
func (s *Service) trackPCRTrend(symbol string, pcr float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.pcrHistory[symbol], pcr)
	if len(history) > pcrHistorySize {
		history = history[len(history)-pcrHistorySize:]
	}
	s.pcrHistory[symbol] = history

	if len(history) < 2 {
		return "STABLE"
	}

	prior := history[:len(history)-1]
	var sum float64
	for _, v := range prior {
		sum += v
	}
	avg := sum / float64(len(prior))

	switch {
	case pcr > avg+0.05:
		return "RISING"
	case pcr < avg-0.05:
		return "FALLING"
	default:
		return "STABLE"
	}
}

// approximateVWAP stands in for a real volume-weighted average using
// the typical price when the session high/low are known.
func approximateVWAP(q market.Quote, price float64) float64 {
	if q.High > 0 && q.Low > 0 {
		return (q.High + q.Low + price) / 3
	}
	return price
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
