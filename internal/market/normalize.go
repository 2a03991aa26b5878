package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Normalizer converts raw provider payloads into Quotes. Each provider
// shape has its own entry point; all of them substitute documented
// defaults for missing keys (0 for numbers, "Unknown"/"Various" for
// text) and fail with ErrMalformedPayload only when a present value
// cannot be interpreted. A missing price always maps to 0, never to an
// invented value.

// NormalizeNSEQuote builds a Quote from the exchange quote-equity
// payload (priceInfo/info/industryInfo sections).
func NormalizeNSEQuote(symbol string, raw map[string]interface{}) (Quote, error) {
	priceInfo := subMap(raw, "priceInfo")
	if priceInfo == nil {
		return Quote{}, fmt.Errorf("%w: missing priceInfo for %s", ErrMalformedPayload, symbol)
	}

	price, err := numField(priceInfo, "lastPrice")
	if err != nil {
		return Quote{}, err
	}
	change, err := numField(priceInfo, "change")
	if err != nil {
		return Quote{}, err
	}
	changePct, err := numField(priceInfo, "pChange")
	if err != nil {
		return Quote{}, err
	}
	open, _ := numField(priceInfo, "open")
	prevClose, _ := numField(priceInfo, "previousClose")

	intraday := subMap(priceInfo, "intraDayHighLow")
	high, _ := numField(intraday, "max")
	low, _ := numField(intraday, "min")

	weekRange := subMap(priceInfo, "weekHighLow")
	w52High, _ := numField(weekRange, "max")
	w52Low, _ := numField(weekRange, "min")

	name := strField(subMap(raw, "info"), "companyName", symbol)
	sector := strField(subMap(raw, "industryInfo"), "sector", "Unknown")

	volume, _ := numField(subMap(raw, "preOpenMarket"), "totalTradedVolume")

	return Quote{
		Symbol:     symbol,
		Name:       name,
		Price:      price,
		Change:     change,
		ChangePct:  changePct,
		Open:       open,
		High:       high,
		Low:        low,
		PrevClose:  prevClose,
		Volume:     int64(volume),
		Week52High: w52High,
		Week52Low:  w52Low,
		Sector:     sector,
		Source:     SourceNSE,
	}, nil
}

// NormalizeNSEIndexRow builds a Quote from one row of the exchange
// equity-stockIndices bulk payload.
func NormalizeNSEIndexRow(raw map[string]interface{}) (Quote, error) {
	symbol := strField(raw, "symbol", "")
	if symbol == "" {
		return Quote{}, fmt.Errorf("%w: index row without symbol", ErrMalformedPayload)
	}

	price, err := numField(raw, "lastPrice")
	if err != nil {
		return Quote{}, err
	}
	change, _ := numField(raw, "change")
	changePct, _ := numField(raw, "pChange")
	open, _ := numField(raw, "open")
	high, _ := numField(raw, "dayHigh")
	low, _ := numField(raw, "dayLow")
	prevClose, _ := numField(raw, "previousClose")
	volume, _ := numField(raw, "totalTradedVolume")
	w52High, _ := numField(raw, "yearHigh")
	w52Low, _ := numField(raw, "yearLow")

	meta := subMap(raw, "meta")
	name := strField(meta, "companyName", symbol)
	sector := strField(meta, "industry", "Various")

	return Quote{
		Symbol:     symbol,
		Name:       name,
		Price:      price,
		Change:     change,
		ChangePct:  changePct,
		Open:       open,
		High:       high,
		Low:        low,
		PrevClose:  prevClose,
		Volume:     int64(volume),
		Week52High: w52High,
		Week52Low:  w52Low,
		Sector:     sector,
		Source:     SourceNSE,
	}, nil
}

// NormalizeScraped builds a Quote from a scraped price pair. Change is
// derived from prevClose when available.
func NormalizeScraped(symbol string, price, prevClose float64, source string) Quote {
	q := Quote{
		Symbol:    symbol,
		Name:      symbol,
		Price:     price,
		PrevClose: prevClose,
		Sector:    "Various",
		Source:    source,
	}
	if info, ok := lookupStockInfo(symbol); ok {
		q.Name = info.Name
		q.Sector = info.Sector
	}
	if prevClose > 0 && price > 0 {
		q.Change = round2(price - prevClose)
		q.ChangePct = round2((price - prevClose) / prevClose * 100)
	}
	return q
}

func lookupStockInfo(symbol string) (StockInfo, bool) {
	for _, s := range ScreenerStocks {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return StockInfo{}, false
}

// subMap returns a nested map field, nil when absent or mistyped.
func subMap(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]interface{})
	return sub
}

// numField reads a numeric field. Missing or nil yields (0, nil); a
// present value that is neither a number nor a numeric string yields
// ErrMalformedPayload. NSE occasionally sends prices as strings with
// thousands separators or "-" placeholders.
func numField(m map[string]interface{}, key string) (float64, error) {
	if m == nil {
		return 0, nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, nil
		}
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" || s == "-" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: field %q value %q", ErrMalformedPayload, key, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: field %q has type %T", ErrMalformedPayload, key, v)
	}
}

func strField(m map[string]interface{}, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
