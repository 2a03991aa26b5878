package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/optionsense/backend/internal/screener"
	"github.com/optionsense/backend/internal/strategy"
	"github.com/optionsense/backend/pkg/logger"
)

type screenerService interface {
	GetScreenerData(ctx context.Context, filter string) screener.Result
	GetStockDetails(ctx context.Context, symbol string) *screener.Entry
}

type strategyService interface {
	GetRecommendation(ctx context.Context, symbol string) strategy.Recommendation
}

// StockHandler serves the stock screener and per-stock endpoints.
type StockHandler struct {
	screener screenerService
	strategy strategyService
	logger   *logger.Logger
}

func NewStockHandler(scr screenerService, str strategyService, log *logger.Logger) *StockHandler {
	return &StockHandler{screener: scr, strategy: str, logger: log}
}

// GetScreener serves GET /stock-screener?filter=all.
func (h *StockHandler) GetScreener(w http.ResponseWriter, r *http.Request) {
	filter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("filter")))
	if filter == "" {
		filter = screener.FilterAll
	}

	switch filter {
	case screener.FilterAll, screener.FilterBuy, screener.FilterSell,
		screener.FilterTopGainers, screener.FilterTopLosers:
	default:
		respondError(w, http.StatusBadRequest, "unknown filter: "+filter)
		return
	}

	respondJSON(w, http.StatusOK, h.screener.GetScreenerData(r.Context(), filter))
}

// GetStock serves GET /stock/{symbol}.
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	entry := h.screener.GetStockDetails(r.Context(), symbol)
	if entry == nil {
		respondError(w, http.StatusNotFound, "stock not found: "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// GetOptionStrategy serves GET /stock/{symbol}/option-strategy.
func (h *StockHandler) GetOptionStrategy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.strategy.GetRecommendation(r.Context(), pathSymbol(r)))
}

func pathSymbol(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
}
