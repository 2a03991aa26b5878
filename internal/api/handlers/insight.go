package handlers

import (
	"context"
	"net/http"

	"github.com/optionsense/backend/internal/analysis"
	"github.com/optionsense/backend/internal/premarket"
	"github.com/optionsense/backend/pkg/logger"
)

type proAnalysisService interface {
	GetProAnalysis(ctx context.Context, symbol string) analysis.Report
}

type premarketService interface {
	GetReport(ctx context.Context) premarket.Report
}

// InsightHandler serves the pro-trader and pre-market endpoints.
type InsightHandler struct {
	analysis  proAnalysisService
	premarket premarketService
	logger    *logger.Logger
}

func NewInsightHandler(pro proAnalysisService, pre premarketService, log *logger.Logger) *InsightHandler {
	return &InsightHandler{analysis: pro, premarket: pre, logger: log}
}

// GetProAnalysis serves GET /pro-analysis?symbol=NIFTY.
func (h *InsightHandler) GetProAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, ok := indexSymbol(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "symbol must be an index")
		return
	}
	respondJSON(w, http.StatusOK, h.analysis.GetProAnalysis(r.Context(), symbol))
}

// GetPreMarket serves GET /pre-market.
func (h *InsightHandler) GetPreMarket(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.premarket.GetReport(r.Context()))
}
