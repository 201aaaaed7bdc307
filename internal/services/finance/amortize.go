package finance

import "math"

// ScheduleRow is one monthly payment of an amortized loan
type ScheduleRow struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// Schedule is the full repayment plan of a loan
type Schedule struct {
	Payment       float64       `json:"payment"`
	TotalPaid     float64       `json:"total_paid"`
	TotalInterest float64       `json:"total_interest"`
	Rows          []ScheduleRow `json:"rows"`
}

// balanceEpsilon absorbs float drift in the final payment
const balanceEpsilon = 1e-6

// scheduleMonths rounds years to whole months, clamped to [0, MaxLoanYears*12]
func scheduleMonths(years float64) int {
	m := math.Round(years * 12)
	switch {
	case math.IsNaN(m) || m <= 0:
		return 0
	case m > MaxLoanYears*12:
		return MaxLoanYears * 12
	}
	return int(m)
}

// Amortize builds the month-by-month schedule for LoanPayment's payment.
// years is rounded to whole months; terms past MaxLoanYears are cut short.
func Amortize(principal, annualRate, years float64) Schedule {
	payment := LoanPayment(principal, annualRate, years)
	months := scheduleMonths(years)
	monthlyRate := annualRate / 12

	s := Schedule{Payment: payment, Rows: make([]ScheduleRow, 0, months)}
	balance := principal

	for m := 1; m <= months; m++ {
		interest := balance * monthlyRate
		toPrincipal := payment - interest
		balance -= toPrincipal

		if m == months || math.Abs(balance) < balanceEpsilon {
			// the last payment settles whatever drift is left
			toPrincipal += balance
			balance = 0
		}

		row := ScheduleRow{
			Month:     m,
			Payment:   interest + toPrincipal,
			Interest:  interest,
			Principal: toPrincipal,
			Balance:   balance,
		}
		s.Rows = append(s.Rows, row)
		s.TotalPaid += row.Payment
		s.TotalInterest += interest

		if balance == 0 {
			break
		}
	}

	return s
}

// PayoffMonths returns how many monthly payments clear balance. It is +Inf
// when payment does not cover the first month's interest.
func PayoffMonths(balance, annualRate, payment float64) float64 {
	if balance <= 0 {
		return 0
	}
	if payment <= 0 {
		return math.Inf(1)
	}

	monthlyRate := annualRate / 12
	if monthlyRate == 0 {
		return math.Ceil(balance / payment)
	}
	if payment <= balance*monthlyRate {
		return math.Inf(1)
	}

	n := -math.Log(1-monthlyRate*balance/payment) / math.Log(1+monthlyRate)
	// guard against 359.9999999 becoming 360 months via Ceil
	return math.Ceil(n - balanceEpsilon)
}
