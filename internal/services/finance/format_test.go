package finance

import "testing"

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("USD")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	currencyCases := map[float64]string{
		0:          "$0.00",
		1234.56:    "$1,234.56",
		599.5505:   "$599.55",
		-12:        "-$12.00",
		1000000.25: "$1,000,000.25",
	}
	for in, want := range currencyCases {
		if got := f.Currency(in); got != want {
			t.Errorf("Currency(%v) = %q, want %q", in, got, want)
		}
	}

	if got := f.Number(1234.5); got != "1,234.5" {
		t.Errorf("Number(1234.5) = %q, want %q", got, "1,234.5")
	}
	if got := f.Percentage(0.0525); got != "5.25%" {
		t.Errorf("Percentage(0.0525) = %q, want %q", got, "5.25%")
	}
	if f.Unit() != "USD" {
		t.Errorf("Unit() = %q, want USD", f.Unit())
	}
}

func TestFormatterOtherCurrencies(t *testing.T) {
	eur, err := NewFormatter("EUR")
	if err != nil {
		t.Fatalf("NewFormatter(EUR): %v", err)
	}
	if got := eur.Currency(10); got != "€10.00" {
		t.Errorf("EUR Currency(10) = %q, want %q", got, "€10.00")
	}

	if _, err := NewFormatter("NOPE"); err == nil {
		t.Error("expected error for unknown currency")
	}
}
