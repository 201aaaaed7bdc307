package finance

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var symbols = map[currency.Unit]string{
	currency.USD: "$",
	currency.CAD: "CA$",
	currency.AUD: "A$",
	currency.EUR: "€",
	currency.GBP: "£",
	currency.JPY: "¥",
	currency.INR: "₹",
}

// Formatter renders amounts for display
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	scale   int
}

// NewFormatter returns a formatter for an ISO 4217 currency code. Numbers
// are grouped the en-US way.
func NewFormatter(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("unknown currency %q: %w", code, err)
	}

	sym, ok := symbols[unit]
	if !ok {
		sym = unit.String() + " "
	}
	scale, _ := currency.Standard.Rounding(unit)

	return &Formatter{
		printer: message.NewPrinter(language.AmericanEnglish),
		unit:    unit,
		symbol:  sym,
		scale:   scale,
	}, nil
}

// Unit returns the currency code the formatter was built for
func (f *Formatter) Unit() string {
	return f.unit.String()
}

// Currency formats amount as e.g. $1,234.56 or -$12.00
func (f *Formatter) Currency(amount float64) string {
	var b strings.Builder
	if amount < 0 && math.Round(amount*math.Pow10(f.scale)) != 0 {
		b.WriteByte('-')
	}
	b.WriteString(f.symbol)
	b.WriteString(f.printer.Sprint(number.Decimal(math.Abs(amount), number.Scale(f.scale))))
	return b.String()
}

// Number formats n with digit grouping and up to three decimals
func (f *Formatter) Number(n float64) string {
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

// Percentage formats a decimal fraction, 0.0525 becomes 5.25%
func (f *Formatter) Percentage(decimal float64) string {
	return fmt.Sprintf("%.2f%%", decimal*100)
}
