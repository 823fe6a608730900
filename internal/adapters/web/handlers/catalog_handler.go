package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fixly/repairdiag/internal/core/domain"
	"github.com/fixly/repairdiag/internal/core/services/catalog"
)

// CatalogHandler exposes snapshot status and manual reload.
type CatalogHandler struct {
	Manager *catalog.Manager
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(manager *catalog.Manager) *CatalogHandler {
	return &CatalogHandler{Manager: manager}
}

// HandleStatus returns the active snapshot epoch and device count.
// GET /api/catalog/status
func (h *CatalogHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := h.Manager.Current()
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, domain.CodeCatalogUnavailable, "no catalog snapshot loaded")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"epoch":     snap.Epoch,
		"devices":   snap.Len(),
		"loaded_at": snap.LoadedAt.Format(time.RFC3339),
	})
}

// HandleReload triggers an immediate snapshot reload.
// POST /api/catalog/reload
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.Manager.Reload(r.Context()); err != nil {
		slog.Error("Manual catalog reload failed", "error", err)
		WriteError(w, http.StatusServiceUnavailable, domain.CodeCatalogUnavailable, "reload failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "reloaded",
		"epoch":  h.Manager.Epoch(),
	})
}
