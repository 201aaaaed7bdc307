// Package report renders printable documents for calculator results.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"financetracker/internal/services/finance"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	rowHeight    = 6.0
)

// LoanParams describes the loan a schedule was computed for
type LoanParams struct {
	Principal  float64
	AnnualRate float64
	Years      float64
}

// LoanSchedulePDF renders the amortization schedule as an A4 document
func LoanSchedulePDF(params LoanParams, schedule finance.Schedule, f *finance.Formatter) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("Loan Amortization Schedule", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 12, "Loan Amortization Schedule", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Summary box
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, "Summary", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(50, 50, 50)
	summary := [][2]string{
		{"Principal", f.Currency(params.Principal)},
		{"Annual rate", f.Percentage(params.AnnualRate)},
		{"Term", fmt.Sprintf("%g years (%d payments)", params.Years, len(schedule.Rows))},
		{"Monthly payment", f.Currency(schedule.Payment)},
		{"Total interest", f.Currency(schedule.TotalInterest)},
		{"Total paid", f.Currency(schedule.TotalPaid)},
	}
	for _, line := range summary {
		pdf.CellFormat(contentWidth/2, 7, tr(line[0]), "L", 0, "L", true, 0, "")
		pdf.CellFormat(contentWidth/2, 7, tr(line[1]), "R", 1, "R", true, 0, "")
	}
	pdf.CellFormat(contentWidth, 1, "", "LRB", 1, "C", true, 0, "")
	pdf.Ln(8)

	// Schedule table
	widths := []float64{20, 40, 40, 40, 40}
	headers := []string{"Month", "Payment", "Interest", "Principal", "Balance"}

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(0, 51, 102)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], rowHeight+1, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(50, 50, 50)
	}
	pdf.SetHeaderFuncMode(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	}, true)
	header()

	for i, row := range schedule.Rows {
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(245, 247, 250)
		}
		cells := []string{
			fmt.Sprintf("%d", row.Month),
			f.Currency(row.Payment),
			f.Currency(row.Interest),
			f.Currency(row.Principal),
			f.Currency(row.Balance),
		}
		for j, c := range cells {
			align := "R"
			if j == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[j], rowHeight, tr(c), "LR", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.CellFormat(contentWidth, 0, "", "T", 1, "", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render loan schedule: %w", err)
	}
	return buf.Bytes(), nil
}
