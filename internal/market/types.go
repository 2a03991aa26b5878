package market

// Source tags identifying which adapter produced a Quote.
const (
	SourceGoogle       = "GOOGLE"
	SourceMoneycontrol = "MONEYCONTROL"
	SourceNSE          = "NSE"
	SourceEOD          = "EOD"
	SourceCache        = "CACHE"
	SourceMock         = "MOCK"
	SourceNone         = "none"
)

// SourcePriority returns the priority rank of a source tag.
// Lower value means more trusted. Unknown tags rank last.
func SourcePriority(source string) int {
	switch source {
	case SourceGoogle:
		return 0
	case SourceMoneycontrol:
		return 1
	case SourceNSE:
		return 2
	case SourceEOD:
		return 3
	case SourceCache:
		return 4
	case SourceMock:
		return 5
	default:
		return 6
	}
}

// Quote is the normalized snapshot for one symbol at one instant.
// Price == 0 is the sentinel for "no usable data"; callers must not
// run signal computations on such a Quote.
type Quote struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Change     float64 `json:"change"`
	ChangePct  float64 `json:"change_pct"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	PrevClose  float64 `json:"prev_close"`
	Volume     int64   `json:"volume"`
	Week52High float64 `json:"week_52_high"`
	Week52Low  float64 `json:"week_52_low"`
	Sector     string  `json:"sector"`
	Source     string  `json:"source"`
}

// Usable reports whether the quote carries a real price.
func (q Quote) Usable() bool {
	return q.Price > 0
}

// Range52 returns the 52-week high/low, substituting price*1.2 and
// price*0.8 when the upstream omitted them.
func (q Quote) Range52() (high, low float64) {
	high = q.Week52High
	low = q.Week52Low
	if high <= 0 {
		high = q.Price * 1.2
	}
	if low <= 0 {
		low = q.Price * 0.8
	}
	return high, low
}

// OptionSide holds the per-side values of one strike row.
type OptionSide struct {
	LastPrice    float64 `json:"last_price"`
	OpenInterest int64   `json:"open_interest"`
	ChangeInOI   int64   `json:"change_in_oi"`
	ImpliedVol   float64 `json:"implied_volatility"`
}

// StrikeRow is one strike of an option chain with call and put sides.
type StrikeRow struct {
	Strike int        `json:"strike"`
	Expiry string     `json:"expiry"`
	CE     OptionSide `json:"ce"`
	PE     OptionSide `json:"pe"`
}

// ChainTotals are the pre-aggregated OI totals across near expiries.
// Upstream computes these; they are trusted as-is.
type ChainTotals struct {
	CallOI int64 `json:"call_oi"`
	PutOI  int64 `json:"put_oi"`
}

// OptionChainSnapshot is the normalized option chain for one symbol.
type OptionChainSnapshot struct {
	Symbol          string      `json:"symbol"`
	UnderlyingValue float64     `json:"underlying_value"`
	ExpiryDates     []string    `json:"expiry_dates"`
	Rows            []StrikeRow `json:"rows"`
	Totals          ChainTotals `json:"totals"`
}

// RowsForExpiry returns the strike rows belonging to one expiry,
// ascending by strike (upstream order is preserved).
func (s *OptionChainSnapshot) RowsForExpiry(expiry string) []StrikeRow {
	var rows []StrikeRow
	for _, r := range s.Rows {
		if r.Expiry == expiry {
			rows = append(rows, r)
		}
	}
	return rows
}

// PCR returns the put/call open-interest ratio from the filtered
// totals, 0 when call OI is 0.
func (s *OptionChainSnapshot) PCR() float64 {
	if s.Totals.CallOI == 0 {
		return 0
	}
	return float64(s.Totals.PutOI) / float64(s.Totals.CallOI)
}
