package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/optionsense/backend/internal/api/handlers"
	"github.com/optionsense/backend/pkg/logger"
)

// NewRouter wires the endpoint handlers into the HTTP router.
func NewRouter(
	dashboardHandler *handlers.DashboardHandler,
	stockHandler *handlers.StockHandler,
	insightHandler *handlers.InsightHandler,
	ws http.HandlerFunc,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET", "OPTIONS")
	r.HandleFunc("/", rootHandler).Methods("GET", "OPTIONS")

	r.HandleFunc("/dashboard-snapshot", dashboardHandler.GetSnapshot).Methods("GET", "OPTIONS")
	r.HandleFunc("/oi-details", dashboardHandler.GetOIDetails).Methods("GET", "OPTIONS")

	r.HandleFunc("/stock-screener", stockHandler.GetScreener).Methods("GET", "OPTIONS")
	r.HandleFunc("/stock/{symbol}", stockHandler.GetStock).Methods("GET", "OPTIONS")
	r.HandleFunc("/stock/{symbol}/option-strategy", stockHandler.GetOptionStrategy).Methods("GET", "OPTIONS")

	r.HandleFunc("/pro-analysis", insightHandler.GetProAnalysis).Methods("GET", "OPTIONS")
	r.HandleFunc("/pre-market", insightHandler.GetPreMarket).Methods("GET", "OPTIONS")

	if ws != nil {
		r.HandleFunc("/ws/prices", ws)
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(corsMiddleware)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "optionsense-api",
		"status":  "running",
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "optionsense-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware allows any origin. The dashboard frontend is served
// from a different host and the API carries no credentials.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
