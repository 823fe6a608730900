package domain

import "time"

// TurnaroundAssessment is the sentinel turnaround returned when the problem
// category is unknown and no numeric estimate can be justified.
const TurnaroundAssessment = "assessment required"

// DiagnosticRequest is the inbound payload from the dialogue layer.
type DiagnosticRequest struct {
	Text      string `json:"text"`
	UserAgent string `json:"userAgent,omitempty"`
	// SessionID is an opaque correlation id; generated when absent.
	SessionID string `json:"sessionId,omitempty"`
}

// PriceRange is a bounded repair price estimate. Low <= High always holds
// when the problem category is known.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// DiagnosticResult is the engine's single output value. It is always fully
// populated, including for UNKNOWN outcomes, so the caller can decide whether
// to ask clarifying questions.
type DiagnosticResult struct {
	BestMatch           *MatchCandidate  `json:"best_match,omitempty"`
	AlternativeMatches  []MatchCandidate `json:"alternative_matches,omitempty"`
	ProblemCategory     ProblemCategory  `json:"problem_category"`
	Severity            Severity         `json:"severity"`
	PriceRange          PriceRange       `json:"price_range"`
	EstimatedTurnaround string           `json:"estimated_turnaround"`
	// Approximate flags estimates derived from the category-level fallback
	// table rather than an exact device price entry.
	Approximate       bool      `json:"approximate"`
	OverallConfidence float64   `json:"overall_confidence"`
	Epoch             int64     `json:"-"`
	SessionID         string    `json:"session_id,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}
