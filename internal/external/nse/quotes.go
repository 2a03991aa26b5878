package nse

import (
	"context"
	"errors"
	"fmt"

	"github.com/optionsense/backend/internal/market"
)

// FetchQuote fetches a live equity quote.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (market.Quote, error) {
	if !c.Covers(symbol) {
		return market.Quote{}, market.ErrUnavailable
	}

	var raw map[string]interface{}
	path := fmt.Sprintf("/api/quote-equity?symbol=%s", queryEscape(symbol))
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return market.Quote{}, market.ErrUnavailable
	}

	quote, err := market.NormalizeNSEQuote(symbol, raw)
	if err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("NSE quote normalize failed")
		return market.Quote{}, market.ErrUnavailable
	}
	return quote, nil
}

// FetchUniverse fetches the bulk symbol universe. It tries the broad
// NIFTY 500 index first and falls back to NIFTY 50. The first row of
// the payload is the index itself and is skipped.
func (c *Client) FetchUniverse(ctx context.Context) ([]market.Quote, error) {
	quotes, err := c.fetchIndexConstituents(ctx, "NIFTY 500")
	if err == nil && len(quotes) > 0 {
		return quotes, nil
	}

	quotes, err = c.fetchIndexConstituents(ctx, "NIFTY 50")
	if err != nil {
		return nil, market.ErrUnavailable
	}
	return quotes, nil
}

func (c *Client) fetchIndexConstituents(ctx context.Context, index string) ([]market.Quote, error) {
	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	path := fmt.Sprintf("/api/equity-stockIndices?index=%s", queryEscape(index))
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	if len(payload.Data) < 2 {
		return nil, market.ErrUnavailable
	}

	quotes := make([]market.Quote, 0, len(payload.Data)-1)
	for _, row := range payload.Data[1:] {
		quote, err := market.NormalizeNSEIndexRow(row)
		if err != nil {
			if errors.Is(err, market.ErrMalformedPayload) {
				c.logger.WithError(err).Debug("skipping malformed universe row")
				continue
			}
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
