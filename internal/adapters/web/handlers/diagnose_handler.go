package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fixly/repairdiag/internal/core/domain"
)

// DiagnosticService is the slice of the orchestrator the handler needs.
type DiagnosticService interface {
	Diagnose(ctx context.Context, req domain.DiagnosticRequest) (*domain.DiagnosticResult, error)
}

// DiagnoseHandler serves the diagnostic endpoint.
type DiagnoseHandler struct {
	Service DiagnosticService
}

// NewDiagnoseHandler creates a new DiagnoseHandler
func NewDiagnoseHandler(service DiagnosticService) *DiagnoseHandler {
	return &DiagnoseHandler{Service: service}
}

// HandleDiagnose runs the pipeline for one request.
// POST /api/diagnose {text, userAgent?, sessionId?}
func (h *DiagnoseHandler) HandleDiagnose(w http.ResponseWriter, r *http.Request) {
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
		if status >= http.StatusInternalServerError {
			slog.Error("Diagnose failed", "error", err)
		}
		WriteError(w, status, code, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// mapError translates typed domain errors into HTTP status codes.
func mapError(err error) (int, string, string) {
	var de *domain.DiagError
	if errors.As(err, &de) {
		switch de.Code {
		case domain.CodeInvalidInput:
			return http.StatusBadRequest, de.Code, de.Message
		case domain.CodeCatalogUnavailable:
			return http.StatusServiceUnavailable, de.Code, de.Message
		}
	}
	return http.StatusInternalServerError, domain.CodeInternal, "internal error"
}

// WriteError sends the standard {code, message} error body.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
