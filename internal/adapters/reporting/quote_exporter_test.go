package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fixly/repairdiag/internal/core/domain"
)

func TestQuoteExporter_FullResult(t *testing.T) {
	exporter := NewQuoteExporter()

	device := &domain.DeviceRecord{
		ID: "apple-iphone-14-pro", Brand: "Apple", Model: "iPhone 14 Pro",
		Category: domain.CategoryPhone,
	}
	result := &domain.DiagnosticResult{
		BestMatch: &domain.MatchCandidate{
			Device:     device,
			TextScore:  1.0,
			FusedScore: 0.96,
			Method:     domain.MatchMethodHybrid,
		},
		ProblemCategory:     domain.ProblemScreen,
		Severity:            domain.SeverityHigh,
		PriceRange:          domain.PriceRange{Low: 252.72, High: 336.96},
		EstimatedTurnaround: "4-8 hours",
		OverallConfidence:   0.93,
		SessionID:           "quote-test-1",
		Timestamp:           time.Now(),
	}

	data, err := exporter.ExportQuote(result)

	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
}

func TestQuoteExporter_UnknownOutcome(t *testing.T) {
	exporter := NewQuoteExporter()

	result := &domain.DiagnosticResult{
		ProblemCategory:     domain.ProblemUnknown,
		Severity:            domain.SeverityUnknown,
		EstimatedTurnaround: domain.TurnaroundAssessment,
		Approximate:         true,
		OverallConfidence:   0.05,
		SessionID:           "quote-test-2",
		Timestamp:           time.Now(),
	}

	data, err := exporter.ExportQuote(result)

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
