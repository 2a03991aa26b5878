// Package strategy generates option buying recommendations: a trend
// read on the underlying, an ATM contract from the near-month chain,
// and entry/target/stoploss levels on its premium.
package strategy

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/optionsense/backend/internal/external/nse"
	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/logger"
)

const (
	StatusSuccess = "SUCCESS"
	StatusNoTrade = "NO_TRADE"

	TrendBullish = "BULLISH"
	TrendBearish = "BEARISH"
	TrendNeutral = "NEUTRAL"
)

// trendThreshold is the intraday move beyond which a direction is
// called. Smaller moves are treated as sideways.
const trendThreshold = 1.0

// approxLotSize stands in for the real per-symbol lot size when
// estimating margin.
const approxLotSize = 500

// TrendAnalysis is the underlying read backing a recommendation.
// RSI and SMA20 are placeholders for the intraday path, which has no
// daily history to compute them from.
type TrendAnalysis struct {
	Trend  string  `json:"trend"`
	Reason string  `json:"reason"`
	Close  float64 `json:"close"`
	RSI    float64 `json:"rsi"`
	SMA20  float64 `json:"sma_20"`
}

// Recommendation is the option strategy payload. On a neutral trend
// only Status, Message and Analysis are set.
type Recommendation struct {
	Status         string        `json:"status"`
	Message        string        `json:"message,omitempty"`
	Symbol         string        `json:"symbol,omitempty"`
	Trend          string        `json:"trend,omitempty"`
	Expiry         string        `json:"expiry,omitempty"`
	OptionType     string        `json:"option_type,omitempty"`
	StrikePrice    int           `json:"strike_price,omitempty"`
	Identifier     string        `json:"identifier,omitempty"`
	LTP            float64       `json:"ltp,omitempty"`
	EntryRange     string        `json:"entry_range,omitempty"`
	Target         float64       `json:"target,omitempty"`
	Stoploss       float64       `json:"stoploss,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	RiskReward     string        `json:"risk_reward,omitempty"`
	RequiredMargin float64       `json:"required_margin,omitempty"`
	IsEstimated    bool          `json:"is_estimated,omitempty"`
	Analysis       TrendAnalysis `json:"analysis"`
}

type quoteResolver interface {
	Resolve(ctx context.Context, symbol string) market.Quote
}

type chainSource interface {
	FetchOptionChain(ctx context.Context, symbol string) (*market.OptionChainSnapshot, error)
}

// Engine produces option recommendations.
type Engine struct {
	resolver quoteResolver
	chains   chainSource
	logger   *logger.Logger

	now func() time.Time
}

// NewEngine creates the strategy engine.
func NewEngine(res quoteResolver, chains chainSource, log *logger.Logger) *Engine {
	return &Engine{
		resolver: res,
		chains:   chains,
		logger:   log.WithField("component", "strategy"),
		now:      time.Now,
	}
}

// GetRecommendation builds an option buying recommendation for the
// symbol. It never returns an error: an unreadable underlying yields
// NO_TRADE and a missing chain yields an estimated contract.
func (e *Engine) GetRecommendation(ctx context.Context, symbol string) Recommendation {
	analysis := e.analyzeTrend(ctx, symbol)

	if analysis.Trend == TrendNeutral {
		return Recommendation{
			Status:   StatusNoTrade,
			Message:  fmt.Sprintf("Trend is neutral for %s. %s", symbol, analysis.Reason),
			Analysis: analysis,
		}
	}

	snapshot, err := e.chains.FetchOptionChain(ctx, symbol)
	if err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Debug("option chain unavailable, estimating contract")
		return e.estimated(symbol, analysis, 0, "")
	}

	expiry := nse.NearMonthExpiry(snapshot, e.now())
	if expiry == "" {
		return e.estimated(symbol, analysis, 0, "")
	}

	row, ok := closestStrike(snapshot.Rows, expiry, analysis.Close)
	if !ok {
		return e.estimated(symbol, analysis, 0, "")
	}

	optionType := "CE"
	side := row.CE
	if analysis.Trend == TrendBearish {
		optionType = "PE"
		side = row.PE
	}

	if side.LastPrice <= 0 {
		return e.estimated(symbol, analysis, row.Strike, expiry)
	}

	rec := contractLevels(symbol, optionType, row.Strike, side.LastPrice)
	rec.Trend = analysis.Trend
	rec.Expiry = expiry
	rec.Reason = analysis.Reason
	rec.Analysis = analysis
	return rec
}

// analyzeTrend reads the intraday move. The daily-history trend path
// never produced stable data upstream, so the day change is the whole
// signal here.
func (e *Engine) analyzeTrend(ctx context.Context, symbol string) TrendAnalysis {
	quote := e.resolver.Resolve(ctx, symbol)
	if !quote.Usable() {
		return TrendAnalysis{Trend: TrendNeutral, Reason: "Insufficient data"}
	}

	analysis := TrendAnalysis{
		Close: quote.Price,
		RSI:   50,
		SMA20: quote.Price,
	}
	switch {
	case quote.ChangePct > trendThreshold:
		analysis.Trend = TrendBullish
		analysis.Reason = fmt.Sprintf("Intraday up %.2f%%", quote.ChangePct)
	case quote.ChangePct < -trendThreshold:
		analysis.Trend = TrendBearish
		analysis.Reason = fmt.Sprintf("Intraday down %.2f%%", math.Abs(quote.ChangePct))
	default:
		analysis.Trend = TrendNeutral
		analysis.Reason = "Sideways move"
	}
	return analysis
}

// estimated builds a contract when the chain or its premium is
// unavailable: an ATM strike rounded by price magnitude and a premium
// near 2% of spot, a rough stand-in for an ATM monthly option.
func (e *Engine) estimated(symbol string, analysis TrendAnalysis, knownStrike int, knownExpiry string) Recommendation {
	strike := knownStrike
	if strike == 0 {
		step := strikeStepForPrice(analysis.Close)
		strike = int(math.Round(analysis.Close/float64(step))) * step
	}

	expiry := knownExpiry
	if expiry == "" {
		expiry = e.now().Format("02-Jan-2006") + " (Est)"
	}

	optionType := "CE"
	if analysis.Trend == TrendBearish {
		optionType = "PE"
	}

	ltp := round1(analysis.Close * 0.02)

	rec := contractLevels(symbol, optionType, strike, ltp)
	rec.Trend = analysis.Trend
	rec.Expiry = expiry
	rec.Reason = analysis.Reason + " (based on last close price)"
	rec.IsEstimated = true
	rec.Message = "Market closed: strategy based on the last closing price"
	rec.Analysis = analysis
	return rec
}

// contractLevels derives entry/target/stoploss from a premium. The
// target is a 50% gain and the stop a 40% loss, a 1:1.5 trade.
func contractLevels(symbol, optionType string, strike int, ltp float64) Recommendation {
	return Recommendation{
		Status:         StatusSuccess,
		Symbol:         symbol,
		OptionType:     optionType,
		StrikePrice:    strike,
		Identifier:     fmt.Sprintf("%s%s%d", symbol, optionType, strike),
		LTP:            ltp,
		EntryRange:     fmt.Sprintf("%.1f - %.1f", round1(ltp*0.98), round1(ltp*1.02)),
		Target:         round1(ltp * 1.5),
		Stoploss:       round1(ltp * 0.6),
		RiskReward:     "1:1.5",
		RequiredMargin: math.Round(ltp*approxLotSize*100) / 100,
	}
}

// closestStrike picks the row nearest to spot for the given expiry.
func closestStrike(rows []market.StrikeRow, expiry string, spot float64) (market.StrikeRow, bool) {
	var best market.StrikeRow
	bestDist := math.MaxFloat64
	found := false
	for _, row := range rows {
		if row.Expiry != expiry {
			continue
		}
		dist := math.Abs(float64(row.Strike) - spot)
		if dist < bestDist {
			best = row
			bestDist = dist
			found = true
		}
	}
	return best, found
}

// strikeStepForPrice approximates the exchange strike interval from
// the price magnitude.
func strikeStepForPrice(price float64) int {
	switch {
	case price < 500:
		return 5
	case price < 2000:
		return 10
	case price < 10000:
		return 50
	default:
		return 100
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
