package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixly/repairdiag/internal/adapters/web/middleware"
)

func SetupRoutes(s *Server) http.Handler {
	mux := http.NewServeMux()

	// The diagnose endpoints carry the compute cost; bound them per client.
	diagnoseLimiter := middleware.NewRateLimiter(60, 1*time.Minute)
	limit := middleware.RateLimitMiddleware(diagnoseLimiter)

	mux.Handle("/api/diagnose", limit(http.HandlerFunc(s.DiagnoseHandler.HandleDiagnose)))
	mux.Handle("/api/quote/pdf", limit(http.HandlerFunc(s.QuoteHandler.HandleQuotePDF)))

	mux.HandleFunc("/api/catalog/status", s.CatalogHandler.HandleStatus)
	mux.HandleFunc("/api/catalog/reload", s.CatalogHandler.HandleReload)

	mux.HandleFunc("/api/health", handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestLogMiddleware(mux)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
