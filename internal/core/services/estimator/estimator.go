package estimator

import (
	"strings"

	"github.com/fixly/repairdiag/internal/config"
	"github.com/fixly/repairdiag/internal/core/domain"
)

// genericBase is the category-level fallback price table, used whenever the
// matched device carries no price entry of its own. Values are workshop base
// prices before brand and severity multipliers.
var genericBase = map[domain.DeviceCategory]map[domain.ProblemCategory]float64{
	domain.CategoryPhone: {
		domain.ProblemScreen:       120,
		domain.ProblemBattery:      80,
		domain.ProblemWaterDamage:  150,
		domain.ProblemNoPower:      110,
		domain.ProblemPerformance:  60,
		domain.ProblemAudio:        90,
		domain.ProblemConnectivity: 70,
	},
	domain.CategoryTablet: {
		domain.ProblemScreen:       180,
		domain.ProblemBattery:      120,
		domain.ProblemWaterDamage:  200,
		domain.ProblemNoPower:      150,
		domain.ProblemPerformance:  80,
		domain.ProblemAudio:        100,
		domain.ProblemConnectivity: 90,
	},
	domain.CategoryLaptop: {
		domain.ProblemScreen:       250,
		domain.ProblemBattery:      150,
		domain.ProblemWaterDamage:  300,
		domain.ProblemNoPower:      200,
		domain.ProblemPerformance:  100,
		domain.ProblemAudio:        120,
		domain.ProblemConnectivity: 110,
	},
	domain.CategoryConsole: {
		domain.ProblemScreen:       160,
		domain.ProblemBattery:      90,
		domain.ProblemWaterDamage:  220,
		domain.ProblemNoPower:      160,
		domain.ProblemPerformance:  110,
		domain.ProblemAudio:        100,
		domain.ProblemConnectivity: 100,
	},
	domain.CategoryOther: {
		domain.ProblemScreen:       140,
		domain.ProblemBattery:      100,
		domain.ProblemWaterDamage:  180,
		domain.ProblemNoPower:      130,
		domain.ProblemPerformance:  90,
		domain.ProblemAudio:        90,
		domain.ProblemConnectivity: 90,
	},
}

// Brand tiers for the price multiplier. Everything else is standard tier.
var (
	premiumBrands = map[string]bool{"apple": true}
	midTierBrands = map[string]bool{"samsung": true, "google": true, "sony": true, "microsoft": true}
)

// turnarounds keyed by problem category, then severity.
var turnarounds = map[domain.ProblemCategory]map[domain.Severity]string{
	domain.ProblemScreen: {
		domain.SeverityLow:    "1-2 hours",
		domain.SeverityMedium: "2-4 hours",
		domain.SeverityHigh:   "4-8 hours",
	},
	domain.ProblemBattery: {
		domain.SeverityLow:    "1 hour",
		domain.SeverityMedium: "1-2 hours",
		domain.SeverityHigh:   "2-4 hours",
	},
	domain.ProblemWaterDamage: {
		domain.SeverityLow:    "24 hours",
		domain.SeverityMedium: "24-48 hours",
		domain.SeverityHigh:   "48-72 hours",
	},
	domain.ProblemNoPower: {
		domain.SeverityLow:    "2-4 hours",
		domain.SeverityMedium: "4-8 hours",
		domain.SeverityHigh:   "1-2 days",
	},
	domain.ProblemPerformance: {
		domain.SeverityLow:    "1 hour",
		domain.SeverityMedium: "1-2 hours",
		domain.SeverityHigh:   "2-4 hours",
	},
	domain.ProblemAudio: {
		domain.SeverityLow:    "1-2 hours",
		domain.SeverityMedium: "1-3 hours",
		domain.SeverityHigh:   "3-6 hours",
	},
	domain.ProblemConnectivity: {
		domain.SeverityLow:    "30 minutes",
		domain.SeverityMedium: "1-2 hours",
		domain.SeverityHigh:   "2-4 hours",
	},
}

// Estimate is a bounded price and turnaround derivation.
type Estimate struct {
	PriceRange  domain.PriceRange
	Turnaround  string
	Approximate bool
}

// Estimator derives price ranges deterministically from the matched device,
// problem category and severity.
type Estimator struct {
	tuning config.Tuning
}

func New(tuning config.Tuning) *Estimator {
	return &Estimator{tuning: tuning}
}

// Estimate computes the price range and turnaround. device may be nil when no
// confident match exists; deviceType then carries the text-derived hardware
// class (and may itself be empty). An UNKNOWN problem category returns the
// assessment sentinel instead of a fabricated number.
func (e *Estimator) Estimate(device *domain.DeviceRecord, deviceType domain.DeviceCategory, category domain.ProblemCategory, severity domain.Severity) Estimate {
	if category == domain.ProblemUnknown {
		return Estimate{Turnaround: domain.TurnaroundAssessment, Approximate: true}
	}

	base, approximate := e.basePrice(device, deviceType, category)
	if base == 0 {
		return Estimate{Turnaround: domain.TurnaroundAssessment, Approximate: true}
	}

	mul := e.brandMultiplier(device) * e.severityMultiplier(severity)
	low := base * mul * e.tuning.PriceLowFactor
	high := base * mul * e.tuning.PriceHighFactor

	return Estimate{
		PriceRange:  domain.PriceRange{Low: round2(low), High: round2(high)},
		Turnaround:  turnaroundFor(category, severity),
		Approximate: approximate,
	}
}

// basePrice prefers the device's own price entry and falls back to the
// category-level generic table, flagging the result approximate.
func (e *Estimator) basePrice(device *domain.DeviceRecord, deviceType domain.DeviceCategory, category domain.ProblemCategory) (float64, bool) {
	if device != nil {
		if p, ok := device.BasePrices[category]; ok && p > 0 {
			return p, false
		}
		deviceType = device.Category
	}
	if deviceType == domain.CategoryNone {
		deviceType = domain.CategoryOther
	}
	if table, ok := genericBase[deviceType]; ok {
		return table[category], true
	}
	return genericBase[domain.CategoryOther][category], true
}

func (e *Estimator) brandMultiplier(device *domain.DeviceRecord) float64 {
	if device == nil {
		return 1.0
	}
	brand := strings.ToLower(device.Brand)
	switch {
	case premiumBrands[brand]:
		return e.tuning.BrandPremiumMult
	case midTierBrands[brand]:
		return e.tuning.BrandMidMult
	default:
		return 1.0
	}
}

func (e *Estimator) severityMultiplier(severity domain.Severity) float64 {
	switch severity {
	case domain.SeverityLow:
		return e.tuning.SeverityLowMult
	case domain.SeverityHigh:
		return e.tuning.SeverityHighMult
	default:
		return 1.0
	}
}

func turnaroundFor(category domain.ProblemCategory, severity domain.Severity) string {
	table, ok := turnarounds[category]
	if !ok {
		return domain.TurnaroundAssessment
	}
	if t, ok := table[severity]; ok {
		return t
	}
	return table[domain.SeverityMedium]
}

// round2 keeps prices at cent precision.
func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
