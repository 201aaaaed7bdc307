package report

import (
	"bytes"
	"testing"

	"financetracker/internal/services/finance"
)

func TestLoanSchedulePDF(t *testing.T) {
	f, err := finance.NewFormatter("USD")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	params := LoanParams{Principal: 25000, AnnualRate: 0.04, Years: 5}
	schedule := finance.Amortize(params.Principal, params.AnnualRate, params.Years)

	data, err := LoanSchedulePDF(params, schedule, f)
	if err != nil {
		t.Fatalf("LoanSchedulePDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestLoanSchedulePDFNonDollarCurrency(t *testing.T) {
	f, _ := finance.NewFormatter("EUR")
	schedule := finance.Amortize(1200, 0, 1)

	if _, err := LoanSchedulePDF(LoanParams{1200, 0, 1}, schedule, f); err != nil {
		t.Fatalf("LoanSchedulePDF with EUR: %v", err)
	}
}
