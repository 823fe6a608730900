package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fixly/repairdiag/internal/adapters/reporting"
	"github.com/fixly/repairdiag/internal/core/domain"
)

// QuoteHandler renders a printable PDF quote for a diagnostic request.
type QuoteHandler struct {
	Service  DiagnosticService
	Exporter *reporting.QuoteExporter
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(service DiagnosticService, exporter *reporting.QuoteExporter) *QuoteHandler {
	return &QuoteHandler{Service: service, Exporter: exporter}
}

// HandleQuotePDF diagnoses the request and streams the estimate as PDF.
// POST /api/quote/pdf {text, userAgent?, sessionId?}
func (h *QuoteHandler) HandleQuotePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DiagnosticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, domain.CodeInvalidInput, "invalid request body")
		return
	}

	result, err := h.Service.Diagnose(r.Context(), req)
	if err != nil {
		status, code, msg := mapError(err)
		WriteError(w, status, code, msg)
		return
	}

	pdf, err := h.Exporter.ExportQuote(result)
	if err != nil {
		slog.Error("Quote PDF generation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, domain.CodeInternal, "quote generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="repair-estimate.pdf"`)
	w.Write(pdf)
}
