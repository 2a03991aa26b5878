package nse

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/optionsense/backend/internal/market"
)

// expiry date format used by the exchange, e.g. "26-Mar-2026"
const expiryLayout = "02-Jan-2006"

// wire shape of the option-chain payload
type chainPayload struct {
	Records struct {
		ExpiryDates     []string   `json:"expiryDates"`
		UnderlyingValue float64    `json:"underlyingValue"`
		Data            []chainRow `json:"data"`
	} `json:"records"`
	Filtered struct {
		CE struct {
			TotOI float64 `json:"totOI"`
		} `json:"CE"`
		PE struct {
			TotOI float64 `json:"totOI"`
		} `json:"PE"`
	} `json:"filtered"`
}

type chainRow struct {
	StrikePrice float64    `json:"strikePrice"`
	ExpiryDate  string     `json:"expiryDate"`
	CE          *chainSide `json:"CE"`
	PE          *chainSide `json:"PE"`
}

type chainSide struct {
	LastPrice            float64 `json:"lastPrice"`
	OpenInterest         float64 `json:"openInterest"`
	ChangeInOpenInterest float64 `json:"changeinOpenInterest"`
	ImpliedVolatility    float64 `json:"impliedVolatility"`
}

// FetchOptionChain fetches the option chain for a symbol. Indices and
// equities use separate endpoints. The filtered OI totals are
// pre-aggregated upstream and trusted as-is. Snapshots are cached per
// symbol for a minute.
func (c *Client) FetchOptionChain(ctx context.Context, symbol string) (*market.OptionChainSnapshot, error) {
	if snapshot, ok := c.chains.Get(symbol); ok {
		return snapshot, nil
	}

	var path string
	if market.IsIndex(symbol) {
		path = fmt.Sprintf("/api/option-chain-indices?symbol=%s", queryEscape(symbol))
	} else {
		path = fmt.Sprintf("/api/option-chain-equities?symbol=%s", queryEscape(symbol))
	}

	var payload chainPayload
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, market.ErrUnavailable
	}

	if len(payload.Records.Data) == 0 {
		c.logger.WithField("symbol", symbol).Debug("empty option chain")
		return nil, market.ErrUnavailable
	}

	snapshot := &market.OptionChainSnapshot{
		Symbol:          symbol,
		UnderlyingValue: payload.Records.UnderlyingValue,
		ExpiryDates:     payload.Records.ExpiryDates,
		Totals: market.ChainTotals{
			CallOI: int64(payload.Filtered.CE.TotOI),
			PutOI:  int64(payload.Filtered.PE.TotOI),
		},
	}

	for _, row := range payload.Records.Data {
		r := market.StrikeRow{
			Strike: int(row.StrikePrice),
			Expiry: row.ExpiryDate,
		}
		if row.CE != nil {
			r.CE = market.OptionSide{
				LastPrice:    row.CE.LastPrice,
				OpenInterest: int64(row.CE.OpenInterest),
				ChangeInOI:   int64(row.CE.ChangeInOpenInterest),
				ImpliedVol:   row.CE.ImpliedVolatility,
			}
		}
		if row.PE != nil {
			r.PE = market.OptionSide{
				LastPrice:    row.PE.LastPrice,
				OpenInterest: int64(row.PE.OpenInterest),
				ChangeInOI:   int64(row.PE.ChangeInOpenInterest),
				ImpliedVol:   row.PE.ImpliedVolatility,
			}
		}
		snapshot.Rows = append(snapshot.Rows, r)
	}

	c.chains.Set(symbol, snapshot)
	return snapshot, nil
}

// NearMonthExpiry picks the first expiry strictly after now, or the
// earliest expiry when all have passed. Unparseable dates are kept in
// payload order as a last resort.
func NearMonthExpiry(snapshot *market.OptionChainSnapshot, now time.Time) string {
	if snapshot == nil || len(snapshot.ExpiryDates) == 0 {
		return ""
	}

	type parsed struct {
		raw string
		at  time.Time
	}
	dates := make([]parsed, 0, len(snapshot.ExpiryDates))
	for _, raw := range snapshot.ExpiryDates {
		at, err := time.Parse(expiryLayout, raw)
		if err != nil {
			continue
		}
		dates = append(dates, parsed{raw: raw, at: at})
	}
	if len(dates) == 0 {
		return snapshot.ExpiryDates[0]
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].at.Before(dates[j].at) })

	for _, d := range dates {
		if d.at.After(now) {
			return d.raw
		}
	}
	return dates[0].raw
}
