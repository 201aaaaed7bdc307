package finance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument marks input outside a calculator's preconditions
var ErrInvalidArgument = errors.New("invalid argument")

// MaxLoanYears is the longest loan term the calculators accept
const MaxLoanYears = 100

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("%s must be a finite number", name)
	}
	return nil
}

func allFinite(principal, annualRate, years float64) error {
	if err := finite("principal", principal); err != nil {
		return err
	}
	if err := finite("rate", annualRate); err != nil {
		return err
	}
	return finite("years", years)
}

// ValidateCompound checks the preconditions of CompoundInterest
func ValidateCompound(principal, annualRate, years float64, compoundsPerYear int) error {
	if err := allFinite(principal, annualRate, years); err != nil {
		return err
	}
	switch {
	case principal < 0:
		return invalid("principal must not be negative")
	case years < 0:
		return invalid("years must not be negative")
	case compoundsPerYear <= 0:
		return invalid("compounds per year must be positive")
	case annualRate/float64(compoundsPerYear) <= -1:
		return invalid("rate per period must be greater than -100%%")
	}
	return nil
}

// ValidateLoan checks the preconditions of LoanPayment
func ValidateLoan(principal, annualRate, years float64) error {
	if err := allFinite(principal, annualRate, years); err != nil {
		return err
	}
	switch {
	case principal <= 0:
		return invalid("principal must be positive")
	case years <= 0:
		return invalid("years must be positive")
	case years > MaxLoanYears:
		return invalid("years must not exceed %d", MaxLoanYears)
	case annualRate < 0:
		return invalid("rate must not be negative")
	}
	return nil
}

// ValidateBrackets checks that brackets are non-empty, strictly ascending by
// limit and have rates in [0, 1]
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return invalid("at least one bracket is required")
	}

	previous := 0.0
	for i, b := range brackets {
		if math.IsNaN(b.Limit) || math.IsNaN(b.Rate) {
			return invalid("bracket %d is not a number", i)
		}
		if b.Limit <= previous {
			return invalid("bracket %d limit %.2f must exceed %.2f", i, b.Limit, previous)
		}
		if b.Rate < 0 || b.Rate > 1 {
			return invalid("bracket %d rate %.4f must be between 0 and 1", i, b.Rate)
		}
		previous = b.Limit
	}
	return nil
}

// CheckResult rejects a calculation whose outputs left the float range
func CheckResult(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("result overflows")
		}
	}
	return nil
}
