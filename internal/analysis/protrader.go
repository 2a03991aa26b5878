// Package analysis implements the pro-trader 8-point readout for an
// index symbol. Each point degrades to a fixed fallback when its data
// source is unreachable, so the full report always renders.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/internal/signals"
	"github.com/optionsense/backend/pkg/logger"
)

// PCRAnalysis is point 1: put-call ratio with interpretation.
type PCRAnalysis struct {
	PCR            float64 `json:"pcr"`
	TotalPutOI     int64   `json:"total_put_oi"`
	TotalCallOI    int64   `json:"total_call_oi"`
	Signal         string  `json:"signal"`
	Interpretation string  `json:"interpretation"`
	Color          string  `json:"color"`
	Strategy       string  `json:"strategy"`
}

// OIShiftAnalysis is point 2: movement of the max-OI strikes between
// observations.
type OIShiftAnalysis struct {
	MaxPutStrike    int    `json:"max_put_strike"`
	MaxPutOI        int64  `json:"max_put_oi"`
	MaxCallStrike   int    `json:"max_call_strike"`
	MaxCallOI       int64  `json:"max_call_oi"`
	SupportShift    string `json:"support_shift,omitempty"`
	ResistanceShift string `json:"resistance_shift,omitempty"`
	Signal          string `json:"signal"`
	Interpretation  string `json:"interpretation"`
	PrevPutStrike   int    `json:"prev_put_strike,omitempty"`
	PrevCallStrike  int    `json:"prev_call_strike,omitempty"`
}

// VIXIVAnalysis is point 3: India VIX level plus the ATM IV skew.
type VIXIVAnalysis struct {
	VIX              float64 `json:"vix"`
	VIXLevel         string  `json:"vix_level"`
	VIXAction        string  `json:"vix_action"`
	PutIV            float64 `json:"put_iv"`
	CallIV           float64 `json:"call_iv"`
	IVSkew           float64 `json:"iv_skew"`
	IVSignal         string  `json:"iv_signal"`
	IVInterpretation string  `json:"iv_interpretation"`
}

// VolumeAnalysis is point 4: true move vs trap move.
type VolumeAnalysis struct {
	CurrentVolume int64   `json:"current_volume"`
	VolumeChange  int64   `json:"volume_change"`
	PriceChange   float64 `json:"price_change"`
	signals.VolumeReading
}

// LadderLevel is one rung of the OI ladder.
type LadderLevel struct {
	Strike int   `json:"strike"`
	OI     int64 `json:"oi"`
}

// OILadder is point 5: top OI strikes above and below spot.
type OILadder struct {
	SpotPrice        float64       `json:"spot_price"`
	ResistanceLadder []LadderLevel `json:"resistance_ladder"`
	SupportLadder    []LadderLevel `json:"support_ladder"`
	ResistanceText   string        `json:"resistance_text"`
	SupportText      string        `json:"support_text"`
	Strategy         string        `json:"strategy"`
}

// ThetaAnalysis is point 6: the ATM straddle premium read.
type ThetaAnalysis struct {
	ATMStrike      int     `json:"atm_strike"`
	ATMCallPremium float64 `json:"atm_call_premium"`
	ATMPutPremium  float64 `json:"atm_put_premium"`
	signals.ThetaReading
}

// VWAPAnalysis is point 8: price position against the session VWAP.
type VWAPAnalysis struct {
	VWAP           float64 `json:"vwap"`
	CurrentPrice   float64 `json:"current_price"`
	Distance       float64 `json:"distance"`
	DistancePct    float64 `json:"distance_pct"`
	Signal         string  `json:"signal"`
	Interpretation string  `json:"interpretation"`
	EntryHint      string  `json:"entry_recommendation"`
	Stoploss       string  `json:"stoploss"`
}

// Verdict aggregates the directional points.
type Verdict struct {
	Verdict        string `json:"verdict"`
	Message        string `json:"message"`
	BullishSignals int    `json:"bullish_signals"`
	BearishSignals int    `json:"bearish_signals"`
}

// Report is the complete 8-point payload.
type Report struct {
	Symbol    string                 `json:"symbol"`
	Timestamp string                 `json:"timestamp"`
	PCR       PCRAnalysis            `json:"pcr"`
	OIShift   OIShiftAnalysis        `json:"oi_shift"`
	VIXIV     VIXIVAnalysis          `json:"vix_iv"`
	Volume    VolumeAnalysis         `json:"volume"`
	OILadder  OILadder               `json:"oi_ladder"`
	Theta     ThetaAnalysis          `json:"theta_decay"`
	Breadth   signals.BreadthReading `json:"market_breadth"`
	VWAP      VWAPAnalysis           `json:"vwap"`
	Overall   Verdict                `json:"overall_verdict"`
}

type quoteResolver interface {
	Resolve(ctx context.Context, symbol string) market.Quote
}

type chainSource interface {
	FetchOptionChain(ctx context.Context, symbol string) (*market.OptionChainSnapshot, error)
}

type breadthSource interface {
	FetchBreadth(ctx context.Context) (advancing, declining int, err error)
}

// maxOIObservation remembers the max-OI strikes between requests so
// shifts can be detected. Process-local; restarts reset it.
type maxOIObservation struct {
	putStrike  int
	callStrike int
}

// Service runs the 8-point analysis.
type Service struct {
	resolver quoteResolver
	chains   chainSource
	breadth  breadthSource
	logger   *logger.Logger

	mu       sync.Mutex
	observed map[string]maxOIObservation
	volumes  map[string]int64

	now func() time.Time
}

// NewService creates the analysis service.
func NewService(res quoteResolver, chains chainSource, breadth breadthSource, log *logger.Logger) *Service {
	return &Service{
		resolver: res,
		chains:   chains,
		breadth:  breadth,
		logger:   log.WithField("component", "analysis"),
		observed: make(map[string]maxOIObservation),
		volumes:  make(map[string]int64),
		now:      time.Now,
	}
}

// GetProAnalysis runs all 8 points for one symbol. The option chain is
// fetched once and shared across the points that need it.
func (s *Service) GetProAnalysis(ctx context.Context, symbol string) Report {
	quote := s.resolver.Resolve(ctx, symbol)

	snapshot, err := s.chains.FetchOptionChain(ctx, symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Debug("chain unavailable, falling back per point")
		snapshot = nil
	}

	return Report{
		Symbol:    symbol,
		Timestamp: s.now().Format(time.RFC3339),
		PCR:       s.pcrAnalysis(snapshot),
		OIShift:   s.oiShiftAnalysis(symbol, snapshot),
		VIXIV:     s.vixIVAnalysis(ctx, snapshot),
		Volume:    s.volumeAnalysis(symbol, quote),
		OILadder:  s.oiLadder(snapshot),
		Theta:     s.thetaAnalysis(symbol, snapshot),
		Breadth:   s.marketBreadth(ctx),
		VWAP:      s.vwapAnalysis(quote),
		Overall:   Verdict{}, // filled below
	}.withVerdict()
}

// withVerdict derives the overall verdict from the directional points.
// Two or more agreeing signals make a call; anything less is neutral.
func (r Report) withVerdict() Report {
	bullish, bearish := 0, 0

	switch r.PCR.Signal {
	case "BULLISH", "VERY_BULLISH":
		bullish++
	case "BEARISH", "VERY_BEARISH":
		bearish++
	}
	switch r.VIXIV.IVSignal {
	case "BULLISH":
		bullish++
	case "BEARISH":
		bearish++
	}
	switch r.Breadth.Signal {
	case "BULLISH":
		bullish++
	case "BEARISH":
		bearish++
	}

	v := Verdict{BullishSignals: bullish, BearishSignals: bearish}
	switch {
	case bullish >= 2:
		v.Verdict = "BULLISH"
		v.Message = "Multiple bullish signals - buy on dips recommended"
	case bearish >= 2:
		v.Verdict = "BEARISH"
		v.Message = "Multiple bearish signals - sell on rise recommended"
	default:
		v.Verdict = "NEUTRAL"
		v.Message = "Mixed signals - wait for clarity"
	}
	r.Overall = v
	return r
}

func (s *Service) pcrAnalysis(snapshot *market.OptionChainSnapshot) PCRAnalysis {
	if snapshot == nil || snapshot.Totals.CallOI <= 0 {
		return PCRAnalysis{
			PCR: 1.15, TotalPutOI: 12500000, TotalCallOI: 10870000,
			Signal: "BULLISH", Interpretation: "PCR above 1.0 - support strong, buying zone",
			Color: signals.ColorLightGreen, Strategy: "Buy on Dips",
		}
	}

	pcr := round2(snapshot.PCR())
	a := PCRAnalysis{
		PCR:         pcr,
		TotalPutOI:  snapshot.Totals.PutOI,
		TotalCallOI: snapshot.Totals.CallOI,
	}

	switch {
	case pcr >= 1.5:
		a.Signal = "VERY_BULLISH"
		a.Interpretation = "PCR very high - strong support, buy on dips"
		a.Color = signals.ColorStrongGreen
	case pcr >= 1.0:
		a.Signal = "BULLISH"
		a.Interpretation = "PCR above 1.0 - support strong, buying zone"
		a.Color = signals.ColorLightGreen
	case pcr >= 0.7:
		a.Signal = "NEUTRAL"
		a.Interpretation = "PCR in the neutral zone - wait and watch"
		a.Color = signals.ColorYellow
	case pcr >= 0.5:
		a.Signal = "BEARISH"
		a.Interpretation = "PCR low - call writers active, sell on rise"
		a.Color = signals.ColorLightRed
	default:
		a.Signal = "VERY_BEARISH"
		a.Interpretation = "PCR very low - strong resistance, avoid buying"
		a.Color = signals.ColorStrongRed
	}

	if pcr >= 1.0 {
		a.Strategy = "Buy on Dips"
	} else {
		a.Strategy = "Sell on Rise"
	}
	return a
}

func (s *Service) oiShiftAnalysis(symbol string, snapshot *market.OptionChainSnapshot) OIShiftAnalysis {
	if snapshot == nil || len(snapshot.Rows) == 0 {
		return OIShiftAnalysis{
			MaxPutStrike: 23500, MaxPutOI: 8500000,
			MaxCallStrike: 24000, MaxCallOI: 7200000,
			Signal: "NEUTRAL", Interpretation: "Analyzing OI shifts...",
		}
	}

	var a OIShiftAnalysis
	for _, row := range snapshot.Rows {
		if row.PE.OpenInterest > a.MaxPutOI {
			a.MaxPutOI = row.PE.OpenInterest
			a.MaxPutStrike = row.Strike
		}
		if row.CE.OpenInterest > a.MaxCallOI {
			a.MaxCallOI = row.CE.OpenInterest
			a.MaxCallStrike = row.Strike
		}
	}

	s.mu.Lock()
	prev, seen := s.observed[symbol]
	s.observed[symbol] = maxOIObservation{putStrike: a.MaxPutStrike, callStrike: a.MaxCallStrike}
	s.mu.Unlock()

	if seen {
		a.PrevPutStrike = prev.putStrike
		a.PrevCallStrike = prev.callStrike
		if prev.putStrike != 0 && a.MaxPutStrike > prev.putStrike {
			a.SupportShift = "UP"
		} else if prev.putStrike != 0 && a.MaxPutStrike < prev.putStrike {
			a.SupportShift = "DOWN"
		}
		if prev.callStrike != 0 && a.MaxCallStrike < prev.callStrike {
			a.ResistanceShift = "DOWN"
		} else if prev.callStrike != 0 && a.MaxCallStrike > prev.callStrike {
			a.ResistanceShift = "UP"
		}
	}

	switch {
	case a.SupportShift == "UP":
		a.Signal = "BULLISH"
		a.Interpretation = fmt.Sprintf("Support shifted up - %d to %d", a.PrevPutStrike, a.MaxPutStrike)
	case a.ResistanceShift == "DOWN":
		a.Signal = "BEARISH"
		a.Interpretation = fmt.Sprintf("Resistance shifted down - %d to %d", a.PrevCallStrike, a.MaxCallStrike)
	default:
		a.Signal = "NEUTRAL"
		a.Interpretation = "No significant OI shift detected"
	}
	return a
}

func (s *Service) vixIVAnalysis(ctx context.Context, snapshot *market.OptionChainSnapshot) VIXIVAnalysis {
	vix := 14.5
	if q := s.resolver.Resolve(ctx, "INDIAVIX"); q.Usable() {
		vix = q.Price
	}
	bucket := signals.VIXBucket(vix)

	putIV, callIV := 15.0, 14.0
	if snapshot != nil && snapshot.UnderlyingValue > 0 {
		bestDist := math.MaxFloat64
		for _, row := range snapshot.Rows {
			dist := math.Abs(float64(row.Strike) - snapshot.UnderlyingValue)
			if dist < bestDist && (row.PE.ImpliedVol > 0 || row.CE.ImpliedVol > 0) {
				bestDist = dist
				if row.PE.ImpliedVol > 0 {
					putIV = row.PE.ImpliedVol
				}
				if row.CE.ImpliedVol > 0 {
					callIV = row.CE.ImpliedVol
				}
			}
		}
	}

	a := VIXIVAnalysis{
		VIX:       round2(vix),
		VIXLevel:  bucket.Level,
		VIXAction: bucket.Action,
		PutIV:     round2(putIV),
		CallIV:    round2(callIV),
		IVSkew:    round2(putIV - callIV),
	}

	switch {
	case a.IVSkew > 2:
		a.IVSignal = "BEARISH"
		a.IVInterpretation = fmt.Sprintf("Put IV (%.1f) above Call IV (%.1f) - protection buying", putIV, callIV)
	case a.IVSkew < -2:
		a.IVSignal = "BULLISH"
		a.IVInterpretation = fmt.Sprintf("Call IV (%.1f) above Put IV (%.1f) - upside chasing", callIV, putIV)
	default:
		a.IVSignal = "NEUTRAL"
		a.IVInterpretation = "IV skew normal - balanced market"
	}
	return a
}

// volumeAnalysis classifies the move against the previous observed
// volume for the symbol. The first observation has no baseline and
// serves the fixed sample instead.
func (s *Service) volumeAnalysis(symbol string, quote market.Quote) VolumeAnalysis {
	mock := VolumeAnalysis{
		CurrentVolume: 15000000,
		VolumeChange:  3000000,
		PriceChange:   45.5,
		VolumeReading: signals.ClassifyVolume(45.5, 3000000),
	}

	if !quote.Usable() || quote.Volume <= 0 {
		return mock
	}

	s.mu.Lock()
	prevVolume, seen := s.volumes[symbol]
	s.volumes[symbol] = quote.Volume
	s.mu.Unlock()

	if !seen {
		return mock
	}

	volumeChange := quote.Volume - prevVolume
	return VolumeAnalysis{
		CurrentVolume: quote.Volume,
		VolumeChange:  volumeChange,
		PriceChange:   round2(quote.Change),
		VolumeReading: signals.ClassifyVolume(quote.Change, float64(volumeChange)),
	}
}

func (s *Service) oiLadder(snapshot *market.OptionChainSnapshot) OILadder {
	if snapshot == nil || len(snapshot.Rows) == 0 || snapshot.UnderlyingValue <= 0 {
		return OILadder{
			SpotPrice: 23650,
			ResistanceLadder: []LadderLevel{
				{Strike: 24000, OI: 7500000}, {Strike: 24100, OI: 5200000}, {Strike: 24200, OI: 4800000},
			},
			SupportLadder: []LadderLevel{
				{Strike: 23500, OI: 8500000}, {Strike: 23400, OI: 6200000}, {Strike: 23300, OI: 5100000},
			},
			ResistanceText: "24000 (75L) > 24100 (52L) > 24200 (48L)",
			SupportText:    "23500 (85L) > 23400 (62L) > 23300 (51L)",
			Strategy:       "Trade between support and resistance levels",
		}
	}

	spot := snapshot.UnderlyingValue
	var resistance, support []LadderLevel
	for _, row := range snapshot.Rows {
		if row.CE.OpenInterest > 0 && float64(row.Strike) > spot {
			resistance = append(resistance, LadderLevel{Strike: row.Strike, OI: row.CE.OpenInterest})
		}
		if row.PE.OpenInterest > 0 && float64(row.Strike) < spot {
			support = append(support, LadderLevel{Strike: row.Strike, OI: row.PE.OpenInterest})
		}
	}

	sort.Slice(resistance, func(i, j int) bool { return resistance[i].OI > resistance[j].OI })
	sort.Slice(support, func(i, j int) bool { return support[i].OI > support[j].OI })
	resistance = clipLadder(resistance, 5)
	support = clipLadder(support, 5)

	return OILadder{
		SpotPrice:        round2(spot),
		ResistanceLadder: resistance,
		SupportLadder:    support,
		ResistanceText:   ladderText(resistance),
		SupportText:      ladderText(support),
		Strategy:         "Trade between support and resistance levels",
	}
}

func (s *Service) thetaAnalysis(symbol string, snapshot *market.OptionChainSnapshot) ThetaAnalysis {
	if snapshot == nil || len(snapshot.Rows) == 0 || snapshot.UnderlyingValue <= 0 {
		return ThetaAnalysis{
			ATMStrike: 23700, ATMCallPremium: 185, ATMPutPremium: 165,
			ThetaReading: signals.ThetaRead(350),
		}
	}

	atm := signals.ATMStrike(snapshot.UnderlyingValue, market.StrikeStep(symbol))
	var callPremium, putPremium float64
	for _, row := range snapshot.Rows {
		if row.Strike == atm {
			callPremium = row.CE.LastPrice
			putPremium = row.PE.LastPrice
			break
		}
	}

	return ThetaAnalysis{
		ATMStrike:      atm,
		ATMCallPremium: round2(callPremium),
		ATMPutPremium:  round2(putPremium),
		ThetaReading:   signals.ThetaRead(callPremium + putPremium),
	}
}

func (s *Service) marketBreadth(ctx context.Context) signals.BreadthReading {
	advancing, declining, err := s.breadth.FetchBreadth(ctx)
	if err != nil {
		advancing, declining = 28, 22
	}
	return signals.BreadthSignal(advancing, declining)
}

func (s *Service) vwapAnalysis(quote market.Quote) VWAPAnalysis {
	if !quote.Usable() {
		return VWAPAnalysis{
			VWAP: 23650, CurrentPrice: 23720, Distance: 70, DistancePct: 0.3,
			Signal:         "ABOVE_VWAP",
			Interpretation: "Price above VWAP - bullish, hold longs",
			EntryHint:      "Buy when price retests VWAP",
			Stoploss:       fmt.Sprintf("Below VWAP: %.2f", 23650*0.995),
		}
	}

	vwap := quote.Price
	if quote.High > 0 && quote.Low > 0 {
		vwap = (quote.High + quote.Low + quote.Price) / 3
	}

	distance := quote.Price - vwap
	var distancePct float64
	if vwap != 0 {
		distancePct = round2(distance / vwap * 100)
	}

	a := VWAPAnalysis{
		VWAP:         round2(vwap),
		CurrentPrice: round2(quote.Price),
		Distance:     round2(distance),
		DistancePct:  distancePct,
	}

	switch {
	case distancePct > 0.5:
		a.Signal = "ABOVE_VWAP"
		a.Interpretation = "Price above VWAP - bullish, hold longs"
		a.EntryHint = "Buy when price retests VWAP"
		a.Stoploss = fmt.Sprintf("Below VWAP: %.2f", round2(vwap*0.995))
	case distancePct < -0.5:
		a.Signal = "BELOW_VWAP"
		a.Interpretation = "Price below VWAP - bearish, hold shorts"
		a.EntryHint = "Sell when price retests VWAP"
		a.Stoploss = fmt.Sprintf("Above VWAP: %.2f", round2(vwap*1.005))
	default:
		a.Signal = "AT_VWAP"
		a.Interpretation = "Price at VWAP - decision point"
		a.EntryHint = "Wait for a breakout"
		a.Stoploss = "Outside the range"
	}

	if math.Abs(distancePct) > 1.5 {
		a.Interpretation += "; stretched from VWAP, mean reversion expected"
	}
	return a
}

func clipLadder(levels []LadderLevel, limit int) []LadderLevel {
	if len(levels) <= limit {
		return levels
	}
	return levels[:limit]
}

func ladderText(levels []LadderLevel) string {
	text := ""
	for i, l := range levels {
		if i > 0 {
			text += " > "
		}
		text += fmt.Sprintf("%d (%dL)", l.Strike, l.OI/100000)
	}
	return text
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
