package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/optionsense/backend/internal/dashboard"
	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/pkg/logger"
)

type dashboardService interface {
	GetSnapshot(ctx context.Context, symbol string) dashboard.Snapshot
	GetOIDetails(ctx context.Context, symbol string) dashboard.OIDetails
}

// DashboardHandler serves the index dashboard endpoints.
type DashboardHandler struct {
	dashboard dashboardService
	logger    *logger.Logger
}

func NewDashboardHandler(svc dashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: svc, logger: log}
}

// GetSnapshot serves GET /dashboard-snapshot?symbol=NIFTY.
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol, ok := indexSymbol(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "symbol must be an index")
		return
	}
	respondJSON(w, http.StatusOK, h.dashboard.GetSnapshot(r.Context(), symbol))
}

// GetOIDetails serves GET /oi-details?symbol=NIFTY.
func (h *DashboardHandler) GetOIDetails(w http.ResponseWriter, r *http.Request) {
	symbol, ok := indexSymbol(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "symbol must be an index")
		return
	}
	respondJSON(w, http.StatusOK, h.dashboard.GetOIDetails(r.Context(), symbol))
}

// indexSymbol reads the symbol query parameter, defaulting to NIFTY.
func indexSymbol(r *http.Request) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		symbol = "NIFTY"
	}
	if !market.IsIndex(symbol) {
		return "", false
	}
	return symbol, true
}
