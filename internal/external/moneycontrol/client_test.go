package moneycontrol

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/config"
	"github.com/optionsense/backend/pkg/logger"
)

const quotePage = `<html><body>
<div class="inprice1 nsecp" id="nsecp" data-numberanimate-value="2,456.75">2,456.75</div>
<div class="nsech" id="nsechange">12.40</div>
<table><tr><td id="n_prevclose">2,444.35</td></tr></table>
</body></html>`

const driftedPage = `<html><body>
<span id="nsecp" rel="x">1,234.50</span>
</body></html>`

const marketsPage = `<html><body>
<div class="advdec">
 <span>Advances</span> <strong>1482</strong>
 <span>Declines</span> <strong>612</strong>
</div>
</body></html>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(&config.Config{}, logger.NewNop())
	c.baseURL = srv.URL
	return c
}

func TestFetchQuoteParsesDOM(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/india/stockpricequote/refineries/relianceindustries/RI", r.URL.Path)
		w.Write([]byte(quotePage))
	})

	q, err := c.FetchQuote(context.Background(), "RELIANCE")
	require.NoError(t, err)

	assert.Equal(t, "RELIANCE", q.Symbol)
	assert.Equal(t, market.SourceMoneycontrol, q.Source)
	assert.InDelta(t, 2456.75, q.Price, 0.001)
	assert.InDelta(t, 2444.35, q.PrevClose, 0.001)
	assert.InDelta(t, 12.40, q.Change, 0.001)
}

func TestFetchQuoteRegexFallbackOnDrift(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(driftedPage))
	})

	q, err := c.FetchQuote(context.Background(), "TCS")
	require.NoError(t, err)
	assert.InDelta(t, 1234.50, q.Price, 0.001)
}

func TestFetchQuoteUnknownSymbolSkipsNetwork(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	assert.False(t, c.Covers("OBSCURESYM"))
	_, err := c.FetchQuote(context.Background(), "OBSCURESYM")
	assert.ErrorIs(t, err, market.ErrUnavailable)
	assert.False(t, called)
}

func TestFetchQuoteEmptyPageIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body></body></html>"))
	})

	_, err := c.FetchQuote(context.Background(), "NIFTY")
	assert.ErrorIs(t, err, market.ErrUnavailable)
}

func TestFetchBreadth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets/indian-indices/", r.URL.Path)
		w.Write([]byte(marketsPage))
	})

	adv, dec, err := c.FetchBreadth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1482, adv)
	assert.Equal(t, 612, dec)
}

func TestFetchBreadthMissingCountsIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>redesigned page</body></html>"))
	})

	_, _, err := c.FetchBreadth(context.Background())
	assert.ErrorIs(t, err, market.ErrUnavailable)
}
