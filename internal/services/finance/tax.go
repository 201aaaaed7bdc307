package finance

import "math"

// FederalBrackets2024Single are the 2024 US federal brackets for a single filer
var FederalBrackets2024Single = []Bracket{
	{Limit: 11000, Rate: 0.10},
	{Limit: 44725, Rate: 0.12},
	{Limit: 95375, Rate: 0.22},
	{Limit: 182050, Rate: 0.24},
	{Limit: 231250, Rate: 0.32},
	{Limit: 578125, Rate: 0.35},
	{Limit: Unbounded, Rate: 0.37},
}

const (
	StandardDeduction2024Single = 14600

	SocialSecurityRate     = 0.062
	SocialSecurityWageBase = 160200
	MedicareRate           = 0.0145
)

// FederalIncomeTax applies the standard deduction and the 2024 single
// brackets to gross income
func FederalIncomeTax(gross float64) float64 {
	taxable := math.Max(0, gross-StandardDeduction2024Single)
	return TaxForIncome(taxable, FederalBrackets2024Single)
}

// PayrollTax is the employee share of Social Security and Medicare on wages
func PayrollTax(wages float64) float64 {
	if wages <= 0 {
		return 0
	}
	ss := math.Min(wages, SocialSecurityWageBase) * SocialSecurityRate
	return ss + wages*MedicareRate
}

// TaxSummary is the federal picture for one gross income
type TaxSummary struct {
	Gross         float64 `json:"gross"`
	Taxable       float64 `json:"taxable"`
	IncomeTax     float64 `json:"income_tax"`
	PayrollTax    float64 `json:"payroll_tax"`
	TotalTax      float64 `json:"total_tax"`
	EffectiveRate float64 `json:"effective_rate"`
	MarginalRate  float64 `json:"marginal_rate"`
	NetIncome     float64 `json:"net_income"`
}

// Summarize computes income and payroll tax for gross wages
func Summarize(gross float64) TaxSummary {
	s := TaxSummary{
		Gross:      gross,
		Taxable:    math.Max(0, gross-StandardDeduction2024Single),
		IncomeTax:  FederalIncomeTax(gross),
		PayrollTax: PayrollTax(gross),
	}
	s.TotalTax = s.IncomeTax + s.PayrollTax
	s.NetIncome = gross - s.TotalTax
	s.MarginalRate = MarginalRate(s.Taxable, FederalBrackets2024Single)
	if gross > 0 {
		s.EffectiveRate = s.TotalTax / gross
	}
	return s
}

// MarginalRate is the rate applied to the next dollar above income. It is 0
// above a bounded top bracket.
func MarginalRate(income float64, brackets []Bracket) float64 {
	for _, b := range brackets {
		if income < b.Limit {
			return b.Rate
		}
	}
	return 0
}
