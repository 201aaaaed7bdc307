package finance

import (
	"math"
	"testing"
)

func TestAmortize(t *testing.T) {
	s := Amortize(100000, 0.06, 30)

	if len(s.Rows) != 360 {
		t.Fatalf("got %d rows, want 360", len(s.Rows))
	}
	if !approx(s.Payment, 599.55) {
		t.Errorf("Payment = %v, want 599.55", s.Payment)
	}

	first := s.Rows[0]
	if !approx(first.Interest, 500) {
		t.Errorf("first month interest = %v, want 500", first.Interest)
	}
	if !approx(first.Principal, 99.55) {
		t.Errorf("first month principal = %v, want 99.55", first.Principal)
	}

	last := s.Rows[len(s.Rows)-1]
	if last.Balance != 0 {
		t.Errorf("final balance = %v, want 0", last.Balance)
	}

	// principal portions must sum back to the loan
	var principal float64
	for _, r := range s.Rows {
		principal += r.Principal
	}
	if math.Abs(principal-100000) > 1e-6 {
		t.Errorf("sum of principal = %v, want 100000", principal)
	}
	if math.Abs(s.TotalPaid-s.TotalInterest-100000) > 1e-6 {
		t.Errorf("TotalPaid - TotalInterest = %v, want 100000", s.TotalPaid-s.TotalInterest)
	}
	if !(s.TotalInterest > 115000 && s.TotalInterest < 116000) {
		t.Errorf("TotalInterest = %v, want about 115838", s.TotalInterest)
	}
}

func TestAmortizeZeroRate(t *testing.T) {
	s := Amortize(1200, 0, 1)

	if len(s.Rows) != 12 {
		t.Fatalf("got %d rows, want 12", len(s.Rows))
	}
	for _, r := range s.Rows {
		if r.Interest != 0 || r.Payment != 100 {
			t.Errorf("month %d: payment %v interest %v, want 100 and 0", r.Month, r.Payment, r.Interest)
		}
	}
	if s.TotalInterest != 0 {
		t.Errorf("TotalInterest = %v, want 0", s.TotalInterest)
	}
}

func TestAmortizeClampsTerm(t *testing.T) {
	tests := []struct {
		name  string
		years float64
		rows  int
	}{
		{"past the cap", 1e20, MaxLoanYears * 12},
		{"at the cap", MaxLoanYears, MaxLoanYears * 12},
		{"negative", -5, 0},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Amortize(1000, 0.05, tt.years).Rows); got != tt.rows {
				t.Errorf("got %d rows, want %d", got, tt.rows)
			}
		})
	}
}

func TestPayoffMonths(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		rate     float64
		payment  float64
		expected float64
	}{
		{"standard payment matches term", 100000, 0.06, LoanPayment(100000, 0.06, 30), 360},
		{"zero rate", 1200, 0, 100, 12},
		{"zero rate partial month", 1250, 0, 100, 13},
		{"paid off", 0, 0.05, 100, 0},
		{"payment below interest", 100000, 0.12, 900, math.Inf(1)},
		{"payment equals interest", 100000, 0.12, 1000, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PayoffMonths(tt.balance, tt.rate, tt.payment); got != tt.expected {
				t.Errorf("PayoffMonths = %v, want %v", got, tt.expected)
			}
		})
	}
}
