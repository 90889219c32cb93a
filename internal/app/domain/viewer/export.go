package viewer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// formatINR renders an amount with Indian digit grouping (1,00,000) and no
// trailing zeros, matching toLocaleString('en-IN').
func formatINR(amount float64) string {
	return inrPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}

// ItineraryText renders the plan as shareable plain text. shareURL, when
// non-empty, is appended as a back-link to the interactive view.
func ItineraryText(it models.Itinerary, shareURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Trip: %s\n\nSummary: %s\n\n", it.Title, it.Summary)
	if it.EstimatedCost > 0 {
		fmt.Fprintf(&b, "Estimated Cost: ₹%s\n\n", formatINR(it.EstimatedCost))
	}
	for _, day := range it.DailyPlans {
		fmt.Fprintf(&b, "Day %d: %s\n", day.Day, day.Title)
		for _, activity := range day.Activities {
			fmt.Fprintf(&b, "- %s: %s", activity.Time, activity.Description)
			if activity.Location != nil {
				fmt.Fprintf(&b, " at %s", activity.Location.Name)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if shareURL != "" {
		fmt.Fprintf(&b, "\n\nView your full interactive itinerary online:\n%s", shareURL)
	}
	return b.String()
}

// ItineraryPDF renders the plan as an A4 PDF. The built-in Helvetica font has
// no rupee glyph, so the cost line uses "Rs." instead of the symbol.
func ItineraryPDF(it models.Itinerary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetY(15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	writeBlock := func(x float64, text string) {
		pdf.SetX(x)
		pdf.MultiCell(210-x-15, 6, tr(text), "", "L", false)
	}

	pdf.SetFont("Helvetica", "B", 18)
	writeBlock(10, it.Title)
	pdf.Ln(5)

	if it.EstimatedCost > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		writeBlock(10, fmt.Sprintf("Estimated Cost: Rs. %s", formatINR(it.EstimatedCost)))
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "", 12)
	writeBlock(10, fmt.Sprintf("Summary: %s", it.Summary))
	pdf.Ln(10)

	for _, day := range it.DailyPlans {
		pdf.SetFont("Helvetica", "B", 14)
		writeBlock(10, fmt.Sprintf("Day %d: %s", day.Day, day.Title))
		pdf.SetFont("Helvetica", "", 11)
		pdf.Ln(2)
		for _, activity := range day.Activities {
			line := fmt.Sprintf("- %s: %s", activity.Time, activity.Description)
			if activity.Location != nil {
				line += fmt.Sprintf(" at %s", activity.Location.Name)
			}
			writeBlock(15, line)
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render itinerary PDF: %w", err)
	}
	return buf.Bytes(), nil
}
