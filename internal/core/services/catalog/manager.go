package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixly/repairdiag/internal/core/domain"
	"github.com/fixly/repairdiag/internal/core/ports"
	"github.com/fixly/repairdiag/internal/telemetry"
)

// Manager owns the current catalog snapshot. The snapshot is replaced via a
// single atomic pointer swap; readers never observe a half-updated catalog.
type Manager struct {
	source ports.CatalogSource
	grace  time.Duration

	current atomic.Pointer[domain.CatalogSnapshot]

	mu       sync.Mutex // serializes reloads
	failedAt time.Time  // start of the current failure streak, zero when healthy
}

// NewManager creates a snapshot manager. grace bounds how long the
// last-known-good snapshot keeps being served after reloads start failing;
// zero or negative means no bound.
func NewManager(source ports.CatalogSource, grace time.Duration) *Manager {
	return &Manager{source: source, grace: grace}
}

// Reload fetches a fresh snapshot and swaps it in. On failure the previous
// snapshot stays in place and the failure streak starts (or continues).
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.source.GetSnapshot(ctx)
	if err != nil {
		if m.failedAt.IsZero() {
			m.failedAt = time.Now()
		}
		telemetry.SnapshotReloads.WithLabelValues("failed").Inc()
		slog.Error("Catalog reload failed", "error", err)
		return domain.NewDiagError(domain.CodeCatalogUnavailable, "snapshot load failed", err)
	}
	if snap.Len() == 0 {
		if m.failedAt.IsZero() {
			m.failedAt = time.Now()
		}
		telemetry.SnapshotReloads.WithLabelValues("failed").Inc()
		return domain.NewDiagError(domain.CodeCatalogUnavailable, "catalog source returned empty snapshot", nil)
	}

	m.current.Store(snap)
	m.failedAt = time.Time{}
	telemetry.SnapshotReloads.WithLabelValues("ok").Inc()
	telemetry.CatalogDevices.Set(float64(snap.Len()))
	slog.Info("Catalog snapshot loaded", "epoch", snap.Epoch, "devices", snap.Len())
	return nil
}

// Current returns the active snapshot. After reloads have been failing for
// longer than the grace window it fails instead of serving stale data.
func (m *Manager) Current() (*domain.CatalogSnapshot, error) {
	snap := m.current.Load()
	if snap == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	m.mu.Lock()
	failedAt := m.failedAt
	m.mu.Unlock()
	if m.grace > 0 && !failedAt.IsZero() && time.Since(failedAt) > m.grace {
		return nil, domain.ErrCatalogUnavailable
	}
	return snap, nil
}

// Epoch returns the active snapshot epoch, or 0 when none is loaded.
func (m *Manager) Epoch() int64 {
	if snap := m.current.Load(); snap != nil {
		return snap.Epoch
	}
	return 0
}

// Run reloads the catalog on a fixed cadence until the context is cancelled.
// An interval of 0 disables periodic reloads.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are already logged; the previous snapshot keeps serving.
			_ = m.Reload(ctx)
		}
	}
}
