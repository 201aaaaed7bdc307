// Package finance holds the calculators behind the loan, savings and tax
// forms. The functions are pure and never validate their input: a zero
// divisor yields NaN or Inf. Use the Validate helpers first when the input
// comes from a user.
package finance

import "math"

// DefaultCompoundsPerYear is monthly compounding
const DefaultCompoundsPerYear = 12

// Unbounded is the limit of a top tax bracket that covers all higher income
var Unbounded = math.Inf(1)

// Bracket taxes income between the previous bracket's limit and Limit at Rate
type Bracket struct {
	Limit float64 `json:"limit"`
	Rate  float64 `json:"rate"`
}

// CompoundInterest returns the future value of principal after years at
// annualRate (a decimal fraction) compounded compoundsPerYear times a year
func CompoundInterest(principal, annualRate, years float64, compoundsPerYear int) float64 {
	n := float64(compoundsPerYear)
	return principal * math.Pow(1+annualRate/n, n*years)
}

// LoanPayment returns the fixed monthly payment that amortizes principal
// over years at annualRate
func LoanPayment(principal, annualRate, years float64) float64 {
	monthlyRate := annualRate / 12
	payments := years * 12

	if annualRate == 0 {
		return principal / payments
	}

	growth := math.Pow(1+monthlyRate, payments)
	return principal * (monthlyRate * growth) / (growth - 1)
}

// TaxForIncome applies brackets, sorted ascending by Limit, progressively.
//
// Income above the last bracket's Limit is not taxed. Callers that want the
// top rate to apply to everything above must end with an Unbounded bracket.
func TaxForIncome(income float64, brackets []Bracket) float64 {
	var tax, previousLimit float64

	for _, b := range brackets {
		if income <= previousLimit {
			break
		}

		tax += (math.Min(income, b.Limit) - previousLimit) * b.Rate
		previousLimit = b.Limit

		if income <= b.Limit {
			break
		}
	}

	return tax
}

// TopLimit returns the limit of the last bracket, or 0 when there are none.
// Income above it is untaxed by TaxForIncome.
func TopLimit(brackets []Bracket) float64 {
	if len(brackets) == 0 {
		return 0
	}
	return brackets[len(brackets)-1].Limit
}
