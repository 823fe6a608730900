package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixly/repairdiag/internal/config"
	"github.com/fixly/repairdiag/internal/core/domain"
)

func TestEstimator_DevicePriceEntry(t *testing.T) {
	e := New(config.DefaultTuning())
	device := &domain.DeviceRecord{
		ID: "apple-iphone-14-pro", Brand: "Apple", Model: "iPhone 14 Pro",
		Category: domain.CategoryPhone,
		BasePrices: map[domain.ProblemCategory]float64{
			domain.ProblemScreen: 180,
		},
	}

	est := e.Estimate(device, domain.CategoryNone, domain.ProblemScreen, domain.SeverityHigh)

	// 180 * 1.2 (premium) * 1.3 (high) = 280.80
	assert.InDelta(t, 252.72, est.PriceRange.Low, 0.01)
	assert.InDelta(t, 336.96, est.PriceRange.High, 0.01)
	assert.False(t, est.Approximate)
	assert.Equal(t, "4-8 hours", est.Turnaround)
}

func TestEstimator_GenericFallbackIsApproximate(t *testing.T) {
	e := New(config.DefaultTuning())
	device := &domain.DeviceRecord{
		ID: "lenovo-thinkpad-x1", Brand: "Lenovo", Model: "ThinkPad X1 Carbon",
		Category: domain.CategoryLaptop,
	}

	est := e.Estimate(device, domain.CategoryNone, domain.ProblemBattery, domain.SeverityMedium)

	// Laptop battery generic base 150, standard brand, medium severity.
	assert.InDelta(t, 135.0, est.PriceRange.Low, 0.01)
	assert.InDelta(t, 180.0, est.PriceRange.High, 0.01)
	assert.True(t, est.Approximate)
}

func TestEstimator_NoDeviceUsesTextDerivedType(t *testing.T) {
	e := New(config.DefaultTuning())

	est := e.Estimate(nil, domain.CategoryLaptop, domain.ProblemNoPower, domain.SeverityHigh)

	// Laptop no-power generic base 200, high severity 1.3.
	assert.InDelta(t, 234.0, est.PriceRange.Low, 0.01)
	assert.InDelta(t, 312.0, est.PriceRange.High, 0.01)
	assert.True(t, est.Approximate)
	assert.Equal(t, "1-2 days", est.Turnaround)
}

func TestEstimator_NoDeviceNoTypeFallsBackToOther(t *testing.T) {
	e := New(config.DefaultTuning())

	est := e.Estimate(nil, domain.CategoryNone, domain.ProblemScreen, domain.SeverityMedium)

	// Other-category screen base 140.
	assert.InDelta(t, 126.0, est.PriceRange.Low, 0.01)
	assert.InDelta(t, 168.0, est.PriceRange.High, 0.01)
	assert.True(t, est.Approximate)
}

func TestEstimator_UnknownProblemReturnsSentinel(t *testing.T) {
	e := New(config.DefaultTuning())

	est := e.Estimate(nil, domain.CategoryPhone, domain.ProblemUnknown, domain.SeverityUnknown)

	assert.Equal(t, domain.TurnaroundAssessment, est.Turnaround)
	assert.True(t, est.Approximate)
	assert.Zero(t, est.PriceRange.Low)
	assert.Zero(t, est.PriceRange.High)
}

func TestEstimator_BrandMultipliers(t *testing.T) {
	e := New(config.DefaultTuning())

	tests := []struct {
		name  string
		brand string
		low   float64
	}{
		{"premium brand", "Apple", 129.6},   // 120 * 1.2 * 0.9
		{"mid tier brand", "Samsung", 118.8}, // 120 * 1.1 * 0.9
		{"standard brand", "Lenovo", 108.0},  // 120 * 1.0 * 0.9
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &domain.DeviceRecord{ID: "d", Brand: tt.brand, Category: domain.CategoryPhone}
			est := e.Estimate(device, domain.CategoryNone, domain.ProblemScreen, domain.SeverityMedium)
			assert.InDelta(t, tt.low, est.PriceRange.Low, 0.01)
		})
	}
}

func TestEstimator_SeverityMultipliers(t *testing.T) {
	e := New(config.DefaultTuning())
	device := &domain.DeviceRecord{ID: "d", Brand: "Lenovo", Category: domain.CategoryPhone}

	low := e.Estimate(device, domain.CategoryNone, domain.ProblemBattery, domain.SeverityLow)
	medium := e.Estimate(device, domain.CategoryNone, domain.ProblemBattery, domain.SeverityMedium)
	high := e.Estimate(device, domain.CategoryNone, domain.ProblemBattery, domain.SeverityHigh)

	assert.Less(t, low.PriceRange.Low, medium.PriceRange.Low)
	assert.Less(t, medium.PriceRange.Low, high.PriceRange.Low)
}

func TestEstimator_LowNeverExceedsHigh(t *testing.T) {
	e := New(config.DefaultTuning())

	for _, category := range []domain.ProblemCategory{
		domain.ProblemScreen, domain.ProblemBattery, domain.ProblemWaterDamage,
		domain.ProblemNoPower, domain.ProblemPerformance, domain.ProblemAudio,
		domain.ProblemConnectivity,
	} {
		for _, severity := range []domain.Severity{
			domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh,
		} {
			est := e.Estimate(nil, domain.CategoryTablet, category, severity)
			assert.LessOrEqual(t, est.PriceRange.Low, est.PriceRange.High,
				"category %s severity %s", category, severity)
		}
	}
}

func TestEstimator_UnknownSeverityTurnaroundDefaultsToMedium(t *testing.T) {
	e := New(config.DefaultTuning())
	device := &domain.DeviceRecord{ID: "d", Brand: "Sony", Category: domain.CategoryConsole}

	est := e.Estimate(device, domain.CategoryNone, domain.ProblemScreen, domain.SeverityUnknown)

	assert.Equal(t, "2-4 hours", est.Turnaround)
}
