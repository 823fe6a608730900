// Package detect wraps third-party user-agent parsing behind the narrow
// SignalExtractor port so fusion logic never depends on the library's shape.
package detect

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/fixly/repairdiag/internal/core/domain"
	"github.com/fixly/repairdiag/internal/telemetry"
)

// samsungModels maps the SM- model codes that appear in Android user agents
// to catalog model names. Codes missing here still yield a brand-only signal.
var samsungModels = map[string]string{
	"sm-s921": "galaxy s24",
	"sm-s926": "galaxy s24 plus",
	"sm-s928": "galaxy s24 ultra",
	"sm-s911": "galaxy s23",
	"sm-s901": "galaxy s22",
	"sm-g991": "galaxy s21",
	"sm-a546": "galaxy a54",
}

// Extractor implements ports.SignalExtractor on top of mileusna/useragent.
// Every call is bounded by a hard timeout; timeouts and unrecognized input
// degrade to ErrNoSignal, never to a request failure.
type Extractor struct {
	timeout time.Duration

	// parseFn is swappable in tests to simulate slow or failing parsers.
	parseFn func(ua string) *domain.DeviceSignal
}

// New creates an extractor with the given per-call timeout.
func New(timeout time.Duration) *Extractor {
	return &Extractor{timeout: timeout, parseFn: parseUserAgent}
}

// Extract parses the user agent into a structured device signal.
func (e *Extractor) Extract(ctx context.Context, userAgent string) (*domain.DeviceSignal, error) {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		telemetry.SignalExtractions.WithLabelValues("no_signal").Inc()
		return nil, domain.ErrNoSignal
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan *domain.DeviceSignal, 1)
	go func() {
		done <- e.parseFn(userAgent)
	}()

	select {
	case <-ctx.Done():
		telemetry.SignalExtractions.WithLabelValues("timeout").Inc()
		slog.Warn("User-agent extraction timed out", "timeout", e.timeout)
		return nil, domain.ErrNoSignal
	case sig := <-done:
		if sig == nil {
			telemetry.SignalExtractions.WithLabelValues("no_signal").Inc()
			return nil, domain.ErrNoSignal
		}
		telemetry.SignalExtractions.WithLabelValues("ok").Inc()
		return sig, nil
	}
}

// parseUserAgent combines the library's platform detection with brand/model
// heuristics over the raw string. Returns nil when nothing recognizable is
// present.
func parseUserAgent(raw string) *domain.DeviceSignal {
	ua := useragent.Parse(raw)
	lower := strings.ToLower(raw)

	deviceType := domain.CategoryNone
	switch {
	case ua.Tablet:
		deviceType = domain.CategoryTablet
	case ua.Mobile:
		deviceType = domain.CategoryPhone
	case ua.Desktop:
		deviceType = domain.CategoryLaptop
	}

	switch {
	case strings.Contains(lower, "iphone"):
		return &domain.DeviceSignal{Brand: "Apple", Model: "iphone", DeviceType: domain.CategoryPhone}
	case strings.Contains(lower, "ipad"):
		return &domain.DeviceSignal{Brand: "Apple", Model: "ipad", DeviceType: domain.CategoryTablet}
	case strings.Contains(lower, "macintosh"):
		return &domain.DeviceSignal{Brand: "Apple", Model: "macbook", DeviceType: domain.CategoryLaptop}
	case strings.Contains(lower, "sm-"):
		return &domain.DeviceSignal{Brand: "Samsung", Model: samsungModel(lower), DeviceType: orPhone(deviceType)}
	case strings.Contains(lower, "pixel"):
		return &domain.DeviceSignal{Brand: "Google", Model: pixelModel(lower), DeviceType: orPhone(deviceType)}
	case strings.Contains(lower, "huawei"):
		return &domain.DeviceSignal{Brand: "Huawei", DeviceType: orPhone(deviceType)}
	case strings.Contains(lower, "oneplus"):
		return &domain.DeviceSignal{Brand: "OnePlus", DeviceType: orPhone(deviceType)}
	case strings.Contains(lower, "xiaomi"), strings.Contains(lower, "redmi"):
		return &domain.DeviceSignal{Brand: "Xiaomi", DeviceType: orPhone(deviceType)}
	}

	// Platform without a brand is not a usable device signal.
	return nil
}

// samsungModel resolves an SM- code via the table; unknown codes give a
// brand-only signal.
func samsungModel(lower string) string {
	idx := strings.Index(lower, "sm-")
	if idx < 0 || idx+7 > len(lower) {
		return ""
	}
	return samsungModels[lower[idx:idx+7]]
}

// pixelModel extracts "pixel N" from the UA when present.
func pixelModel(lower string) string {
	idx := strings.Index(lower, "pixel")
	if idx < 0 {
		return ""
	}
	rest := lower[idx:]
	if end := strings.IndexAny(rest, ");"); end > 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func orPhone(c domain.DeviceCategory) domain.DeviceCategory {
	if c == domain.CategoryNone {
		return domain.CategoryPhone
	}
	return c
}
