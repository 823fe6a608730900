package reporting

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/fixly/repairdiag/internal/core/domain"
)

// QuoteExporter renders a diagnostic result as a printable quote PDF for the
// downstream booking flows.
type QuoteExporter struct{}

// NewQuoteExporter creates a new quote exporter instance.
func NewQuoteExporter() *QuoteExporter {
	return &QuoteExporter{}
}

// ExportQuote generates a one-page PDF quote from a diagnostic result.
func (e *QuoteExporter) ExportQuote(result *domain.DiagnosticResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf)
	e.addDevice(pdf, result)
	e.addProblem(pdf, result)
	e.addEstimate(pdf, result)
	e.addFooter(pdf, result)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *QuoteExporter) addHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 14, "Repair Estimate", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Automated diagnostic quote - subject to bench inspection", "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (e *QuoteExporter) addDevice(pdf *gofpdf.Fpdf, result *domain.DiagnosticResult) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Device", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	if result.BestMatch != nil {
		d := result.BestMatch.Device
		pdf.CellFormat(0, 7, fmt.Sprintf("%s %s (%s)", d.Brand, d.Model, d.Category), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Match confidence: %.0f%%", result.BestMatch.FusedScore*100), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 7, "Not identified - please bring the device in for assessment", "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (e *QuoteExporter) addProblem(pdf *gofpdf.Fpdf, result *domain.DiagnosticResult) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Reported Problem", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Category: %s", result.ProblemCategory), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Severity: %s", result.Severity), "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func (e *QuoteExporter) addEstimate(pdf *gofpdf.Fpdf, result *domain.DiagnosticResult) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Estimate", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 102, 51)
	if result.EstimatedTurnaround == domain.TurnaroundAssessment {
		pdf.CellFormat(0, 10, "Assessment required", "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 10, fmt.Sprintf("GBP %.2f - %.2f", result.PriceRange.Low, result.PriceRange.High), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, fmt.Sprintf("Estimated turnaround: %s", result.EstimatedTurnaround), "", 1, "L", false, 0, "")
	if result.Approximate {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(0, 6, "Approximate estimate based on device category pricing", "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (e *QuoteExporter) addFooter(pdf *gofpdf.Fpdf, result *domain.DiagnosticResult) {
	pdf.SetY(-40)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s | Confidence %.0f%% | Ref %s",
		result.Timestamp.Format("2006-01-02 15:04"), result.OverallConfidence*100, result.SessionID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Prices include parts and labour. Final quote confirmed after inspection.", "", 1, "L", false, 0, "")
}
