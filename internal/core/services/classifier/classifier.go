package classifier

import (
	"strings"

	"github.com/fixly/repairdiag/internal/core/domain"
)

// rule is one prioritized category matcher. Keywords are substrings of
// normalized text; first rule with a hit wins.
type rule struct {
	category domain.ProblemCategory
	keywords []string
}

// rules are ordered by urgency: water damage masks every other symptom and a
// device that does not power on cannot show screen or battery symptoms.
var rules = []rule{
	{domain.ProblemWaterDamage, []string{
		"water", "liquid", "wet", "spill", "spilled", "moisture", "humidity", "corrosion",
	}},
	{domain.ProblemNoPower, []string{
		"wont turn on", "wont power on", "doesnt turn on", "not turning on",
		"wont start", "wont boot", "no power", "completely dead", "dead wont",
	}},
	{domain.ProblemScreen, []string{
		"screen", "display", "cracked", "shattered", "smashed", "touch", "glass",
		"flickering", "dead pixels", "lines on",
	}},
	{domain.ProblemBattery, []string{
		"battery", "charge", "charging", "charger", "drains", "drain", "draining",
		"overheating",
	}},
	{domain.ProblemPerformance, []string{
		"slow", "freez", "crash", "lag", "hangs", "hanging", "unresponsive",
		"storage full", "apps closing",
	}},
	{domain.ProblemAudio, []string{
		"sound", "speaker", "audio", "microphone", "volume", "muffled", "distorted",
	}},
	{domain.ProblemConnectivity, []string{
		"wifi", "bluetooth", "signal", "network", "cellular", "cant connect",
		"no internet", "hotspot",
	}},
}

// Totality markers push severity to HIGH, intermittency markers to LOW.
var (
	highMarkers = []string{
		"cracked", "shattered", "smashed", "broken", "dead", "completely",
		"totally", "wont", "doesnt", "urgent", "emergency", "critical",
		"not at all", "never",
	}
	lowMarkers = []string{
		"sometimes", "occasionally", "intermittent", "intermittently",
		"slightly", "a little", "minor", "once in a while", "now and then",
	}
)

// Classifier maps normalized text to a problem category and severity.
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify tests categories in fixed priority order; the first match wins.
// Text matching nothing yields UNKNOWN/UNKNOWN, which downstream treats as
// "needs human clarification" rather than a guessable default.
func (c *Classifier) Classify(normText string) (domain.ProblemCategory, domain.Severity) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(normText, kw) {
				return r.category, severityOf(normText)
			}
		}
	}
	return domain.ProblemUnknown, domain.SeverityUnknown
}

// Confidence reports how firmly the classification can be trusted. Matched
// categories with an explicit intensity marker score highest.
func (c *Classifier) Confidence(normText string, category domain.ProblemCategory) float64 {
	if category == domain.ProblemUnknown {
		return 0.1
	}
	if hasAny(normText, highMarkers) || hasAny(normText, lowMarkers) {
		return 0.9
	}
	return 0.75
}

// severityOf derives severity from intensity markers; totality wins over
// intermittency when both appear, absence of either means MEDIUM.
func severityOf(normText string) domain.Severity {
	if hasAny(normText, highMarkers) {
		return domain.SeverityHigh
	}
	if hasAny(normText, lowMarkers) {
		return domain.SeverityLow
	}
	return domain.SeverityMedium
}

func hasAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
