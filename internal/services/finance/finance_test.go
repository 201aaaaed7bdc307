package finance

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 0.005

func approx(got, want float64) bool {
	return math.Abs(got-want) < tolerance
}

func TestCompoundInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     float64
		compounds int
		expected  float64
	}{
		{"zero rate keeps principal", 5000, 0, 10, DefaultCompoundsPerYear, 5000},
		{"zero years keeps principal", 5000, 0.07, 0, DefaultCompoundsPerYear, 5000},
		{"annual compounding", 1000, 0.10, 2, 1, 1210},
		{"monthly 5% for 10 years", 10000, 0.05, 10, 12, 16470.095},
		{"quarterly", 1000, 0.08, 1, 4, 1082.43},
		{"zero principal", 0, 0.05, 30, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompoundInterest(tt.principal, tt.rate, tt.years, tt.compounds)
			if !approx(got, tt.expected) {
				t.Errorf("CompoundInterest(%v, %v, %v, %d) = %v, want %v",
					tt.principal, tt.rate, tt.years, tt.compounds, got, tt.expected)
			}
		})
	}
}

func TestCompoundInterestZeroRateIdentity(t *testing.T) {
	for _, p := range []float64{0, 1, 123.45, 1e6} {
		for _, years := range []float64{0, 0.5, 1, 40} {
			if got := CompoundInterest(p, 0, years, DefaultCompoundsPerYear); got != p {
				t.Errorf("CompoundInterest(%v, 0, %v) = %v, want %v", p, years, got, p)
			}
		}
	}
}

func TestLoanPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     float64
		expected  float64
	}{
		{"zero rate is straight division", 1200, 0, 1, 100},
		{"30 year mortgage at 6%", 100000, 0.06, 30, 599.55},
		{"5 year car loan at 4%", 25000, 0.04, 5, 460.41},
		{"15 year at 3.5%", 200000, 0.035, 15, 1429.765},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoanPayment(tt.principal, tt.rate, tt.years)
			if !approx(got, tt.expected) {
				t.Errorf("LoanPayment(%v, %v, %v) = %v, want %v",
					tt.principal, tt.rate, tt.years, got, tt.expected)
			}
		})
	}

	if got := LoanPayment(1200, 0, 1); got != 100 {
		t.Errorf("zero-rate payment should be exact, got %v", got)
	}
}

func TestLoanPaymentZeroTermNotFinite(t *testing.T) {
	if got := LoanPayment(1000, 0, 0); !math.IsInf(got, 1) {
		t.Errorf("LoanPayment with zero payments = %v, want +Inf", got)
	}
}

func TestTaxForIncome(t *testing.T) {
	brackets := []Bracket{
		{Limit: 10000, Rate: 0.10},
		{Limit: 40000, Rate: 0.20},
		{Limit: Unbounded, Rate: 0.30},
	}

	tests := []struct {
		income   float64
		expected float64
	}{
		{0, 0},
		{-500, 0},
		{5000, 500},
		{10000, 1000},
		{25000, 4000},
		{40000, 7000},
		{50000, 10000},
	}

	for _, tt := range tests {
		if got := TaxForIncome(tt.income, brackets); !approx(got, tt.expected) {
			t.Errorf("TaxForIncome(%v) = %v, want %v", tt.income, got, tt.expected)
		}
	}
}

// Income above a bounded top bracket is deliberately left untaxed.
func TestTaxForIncomeBoundedTopBracket(t *testing.T) {
	brackets := []Bracket{
		{Limit: 10000, Rate: 0.10},
		{Limit: 40000, Rate: 0.20},
	}

	got := TaxForIncome(100000, brackets)
	if got != 7000 {
		t.Errorf("TaxForIncome(100000) = %v, want exactly 7000", got)
	}
	if TopLimit(brackets) != 40000 {
		t.Errorf("TopLimit = %v, want 40000", TopLimit(brackets))
	}
	if TopLimit(nil) != 0 {
		t.Error("TopLimit of no brackets should be 0")
	}
}

func TestTaxForIncomeNoBrackets(t *testing.T) {
	if got := TaxForIncome(50000, nil); got != 0 {
		t.Errorf("TaxForIncome with no brackets = %v, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	invalidCases := map[string]error{
		"negative principal":   ValidateCompound(-1, 0.05, 1, 12),
		"zero compounds":       ValidateCompound(100, 0.05, 1, 0),
		"negative years":       ValidateCompound(100, 0.05, -1, 12),
		"nan rate":             ValidateCompound(100, math.NaN(), 1, 12),
		"zero loan principal":  ValidateLoan(0, 0.05, 1),
		"zero loan years":      ValidateLoan(1000, 0.05, 0),
		"negative loan rate":   ValidateLoan(1000, -0.01, 1),
		"infinite loan amount": ValidateLoan(math.Inf(1), 0.05, 1),
		"loan term too long":   ValidateLoan(1000, 0.05, MaxLoanYears+1),
		"huge loan term":       ValidateLoan(1000, 0.05, 1e20),
		"overflowing growth":   CheckResult(CompoundInterest(1, 1, 2000, 12)),
		"nan result":           CheckResult(1, math.NaN()),
		"no brackets":          ValidateBrackets(nil),
		"descending brackets":  ValidateBrackets([]Bracket{{40000, 0.2}, {10000, 0.1}}),
		"rate above one":       ValidateBrackets([]Bracket{{10000, 1.5}}),
		"zero limit":           ValidateBrackets([]Bracket{{0, 0.1}}),
	}
	for name, err := range invalidCases {
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: got %v, want ErrInvalidArgument", name, err)
		}
	}

	validCases := map[string]error{
		"compound":           ValidateCompound(1000, 0.05, 10, 12),
		"compound zero rate": ValidateCompound(1000, 0, 10, 12),
		"loan":               ValidateLoan(1000, 0, 1),
		"longest loan":       ValidateLoan(1000, 0.05, MaxLoanYears),
		"finite result":      CheckResult(CompoundInterest(1000, 0.05, 10, 12), 0),
		"brackets":           ValidateBrackets(FederalBrackets2024Single),
	}
	for name, err := range validCases {
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}
