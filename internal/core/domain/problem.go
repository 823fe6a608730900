package domain

// ProblemCategory classifies the reported fault.
type ProblemCategory string

const (
	ProblemWaterDamage  ProblemCategory = "WATER_DAMAGE"
	ProblemNoPower      ProblemCategory = "NO_POWER"
	ProblemScreen       ProblemCategory = "SCREEN"
	ProblemBattery      ProblemCategory = "BATTERY"
	ProblemPerformance  ProblemCategory = "PERFORMANCE"
	ProblemAudio        ProblemCategory = "AUDIO"
	ProblemConnectivity ProblemCategory = "CONNECTIVITY"
	ProblemUnknown      ProblemCategory = "UNKNOWN"
)

// Severity is the qualitative intensity of a reported problem. It drives the
// pricing multiplier and the turnaround lookup.
type Severity string

const (
	SeverityLow     Severity = "LOW"
	SeverityMedium  Severity = "MEDIUM"
	SeverityHigh    Severity = "HIGH"
	SeverityUnknown Severity = "UNKNOWN"
)
