package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optionsense/backend/internal/analysis"
	"github.com/optionsense/backend/internal/api/handlers"
	"github.com/optionsense/backend/internal/dashboard"
	"github.com/optionsense/backend/internal/premarket"
	"github.com/optionsense/backend/internal/screener"
	"github.com/optionsense/backend/internal/strategy"
	"github.com/optionsense/backend/pkg/logger"
)

type fakeDashboard struct {
	lastSymbol string
}

func (f *fakeDashboard) GetSnapshot(_ context.Context, symbol string) dashboard.Snapshot {
	f.lastSymbol = symbol
	return dashboard.Snapshot{Status: "SUCCESS", Symbol: symbol}
}

func (f *fakeDashboard) GetOIDetails(_ context.Context, symbol string) dashboard.OIDetails {
	f.lastSymbol = symbol
	return dashboard.OIDetails{Status: "SUCCESS", Symbol: symbol}
}

type fakeScreener struct {
	entry *screener.Entry
}

func (f *fakeScreener) GetScreenerData(_ context.Context, filter string) screener.Result {
	return screener.Result{Filter: filter, DataSource: screener.TierMock}
}

func (f *fakeScreener) GetStockDetails(_ context.Context, symbol string) *screener.Entry {
	if f.entry != nil && f.entry.Symbol == symbol {
		return f.entry
	}
	return nil
}

type fakeStrategy struct{}

func (fakeStrategy) GetRecommendation(_ context.Context, symbol string) strategy.Recommendation {
	return strategy.Recommendation{Status: strategy.StatusNoTrade, Symbol: symbol}
}

type fakeAnalysis struct{}

func (fakeAnalysis) GetProAnalysis(_ context.Context, symbol string) analysis.Report {
	return analysis.Report{Symbol: symbol}
}

type fakePremarket struct {
	panics bool
}

func (f *fakePremarket) GetReport(_ context.Context) premarket.Report {
	if f.panics {
		panic("premarket exploded")
	}
	return premarket.Report{Disclaimer: "test"}
}

func newTestRouter(dash *fakeDashboard, scr *fakeScreener, pre *fakePremarket) http.Handler {
	log := logger.NewNop()
	return NewRouter(
		handlers.NewDashboardHandler(dash, log),
		handlers.NewStockHandler(scr, fakeStrategy{}, log),
		handlers.NewInsightHandler(fakeAnalysis{}, pre, log),
		nil,
		log,
	)
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestDashboardSnapshotDefaultsToNifty(t *testing.T) {
	dash := &fakeDashboard{}
	router := newTestRouter(dash, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/dashboard-snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NIFTY", dash.lastSymbol)
}

func TestDashboardSnapshotLowercaseSymbol(t *testing.T) {
	dash := &fakeDashboard{}
	router := newTestRouter(dash, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/dashboard-snapshot?symbol=banknifty")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BANKNIFTY", dash.lastSymbol)
}

func TestDashboardSnapshotRejectsEquity(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/oi-details?symbol=RELIANCE")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenerRejectsUnknownFilter(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/stock-screener?filter=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenerPassesFilterThrough(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/stock-screener?filter=top_gainers")
	require.Equal(t, http.StatusOK, rec.Code)

	var body screener.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, screener.FilterTopGainers, body.Filter)
}

func TestStockLookup(t *testing.T) {
	scr := &fakeScreener{entry: &screener.Entry{Symbol: "RELIANCE", Price: 2456.75}}
	router := newTestRouter(&fakeDashboard{}, scr, &fakePremarket{})

	rec := get(t, router, "/stock/reliance")
	require.Equal(t, http.StatusOK, rec.Code)

	var entry screener.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "RELIANCE", entry.Symbol)
}

func TestStockLookupUnknownIs404(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/stock/GHOST")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptionStrategyEndpoint(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/stock/TCS/option-strategy")
	require.Equal(t, http.StatusOK, rec.Code)

	var body strategy.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TCS", body.Symbol)
}

func TestPreMarketEndpoint(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/pre-market")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProAnalysisEndpoint(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/pro-analysis?symbol=BANKNIFTY")
	require.Equal(t, http.StatusOK, rec.Code)

	var body analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BANKNIFTY", body.Symbol)
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{})

	rec := get(t, router, "/health")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest("OPTIONS", "/pre-market", nil)
	preflight := httptest.NewRecorder()
	router.ServeHTTP(preflight, req)
	assert.Equal(t, http.StatusNoContent, preflight.Code)
}

func TestRecoveryMiddlewareReturns500(t *testing.T) {
	router := newTestRouter(&fakeDashboard{}, &fakeScreener{}, &fakePremarket{panics: true})

	rec := get(t, router, "/pre-market")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
