package calculators

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	httputil "financetracker/internal/http"
	"financetracker/internal/services/finance"
	"financetracker/internal/services/report"
)

var formatter *finance.Formatter

// Initialize sets up the calculators package with required dependencies
func Initialize(f *finance.Formatter) {
	formatter = f
}

// Routes mounts the calculator endpoints under /api/calc
func Routes(r chi.Router) {
	r.Get("/compound", HandleCompound)
	r.Get("/loan", HandleLoan)
	r.Get("/loan/schedule.pdf", HandleLoanSchedulePDF)
	r.Post("/tax", HandleTax)
	r.Get("/federal", HandleFederal)
}

// Amount is a raw value with its display form
type Amount struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

func money(v float64) Amount {
	return Amount{Value: v, Formatted: formatter.Currency(v)}
}

func percent(v float64) Amount {
	return Amount{Value: v, Formatted: formatter.Percentage(v)}
}

func badRequest(w http.ResponseWriter, err error) {
	httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
}

// HandleCompound computes the future value of a deposit
func HandleCompound(w http.ResponseWriter, r *http.Request) {
	principal, err := httputil.QueryFloat(r, "principal", 0, true)
	if err != nil {
		badRequest(w, err)
		return
	}
	rate, err := httputil.QueryFloat(r, "rate", 0, true)
	if err != nil {
		badRequest(w, err)
		return
	}
	years, err := httputil.QueryFloat(r, "years", 0, true)
	if err != nil {
		badRequest(w, err)
		return
	}
	compounds, err := httputil.QueryInt(r, "compounds", finance.DefaultCompoundsPerYear)
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := finance.ValidateCompound(principal, rate, years, compounds); err != nil {
		badRequest(w, err)
		return
	}

	amount := finance.CompoundInterest(principal, rate, years, compounds)
	if err := finance.CheckResult(amount); err != nil {
		badRequest(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"principal":          money(principal),
		"rate":               percent(rate),
		"years":              years,
		"compounds_per_year": compounds,
		"amount":             money(amount),
		"interest":           money(amount - principal),
	})
}

type loanInput struct {
	principal, rate, years float64
}

func parseLoan(r *http.Request) (loanInput, error) {
	var in loanInput
	var err error
	if in.principal, err = httputil.QueryFloat(r, "principal", 0, true); err != nil {
		return in, err
	}
	if in.rate, err = httputil.QueryFloat(r, "rate", 0, true); err != nil {
		return in, err
	}
	if in.years, err = httputil.QueryFloat(r, "years", 0, true); err != nil {
		return in, err
	}
	return in, finance.ValidateLoan(in.principal, in.rate, in.years)
}

// HandleLoan computes the monthly payment, optionally with the full schedule
func HandleLoan(w http.ResponseWriter, r *http.Request) {
	in, err := parseLoan(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	payment := finance.LoanPayment(in.principal, in.rate, in.years)
	schedule := finance.Amortize(in.principal, in.rate, in.years)
	if err := finance.CheckResult(payment, schedule.TotalPaid, schedule.TotalInterest); err != nil {
		badRequest(w, err)
		return
	}

	resp := map[string]interface{}{
		"principal":       money(in.principal),
		"rate":            percent(in.rate),
		"years":           in.years,
		"payments":        len(schedule.Rows),
		"monthly_payment": money(payment),
		"total_interest":  money(schedule.TotalInterest),
		"total_paid":      money(schedule.TotalPaid),
	}
	if httputil.QueryBool(r, "schedule") {
		resp["schedule"] = schedule.Rows
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleLoanSchedulePDF serves the amortization schedule as a PDF download
func HandleLoanSchedulePDF(w http.ResponseWriter, r *http.Request) {
	in, err := parseLoan(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	schedule := finance.Amortize(in.principal, in.rate, in.years)
	if err := finance.CheckResult(schedule.Payment, schedule.TotalPaid); err != nil {
		badRequest(w, err)
		return
	}
	data, err := report.LoanSchedulePDF(report.LoanParams{
		Principal:  in.principal,
		AnnualRate: in.rate,
		Years:      in.years,
	}, schedule, formatter)
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=loan_schedule.pdf")
	w.Write(data)
}

// bracketInput decodes [limit, rate] pairs; a null limit is unbounded
type bracketInput [2]*float64

type taxRequest struct {
	Income   *float64       `json:"income"`
	Brackets []bracketInput `json:"brackets"`
}

func (req taxRequest) brackets() ([]finance.Bracket, error) {
	out := make([]finance.Bracket, 0, len(req.Brackets))
	for i, b := range req.Brackets {
		if b[1] == nil {
			return nil, fmt.Errorf("%w: bracket %d has no rate", finance.ErrInvalidArgument, i)
		}
		limit := finance.Unbounded
		if b[0] != nil {
			limit = *b[0]
		}
		out = append(out, finance.Bracket{Limit: limit, Rate: *b[1]})
	}
	return out, nil
}

// HandleTax applies caller-supplied progressive brackets to an income
func HandleTax(w http.ResponseWriter, r *http.Request) {
	var req taxRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Income == nil {
		badRequest(w, errors.New("income is required"))
		return
	}
	income := *req.Income

	brackets, err := req.brackets()
	if err == nil {
		err = finance.ValidateBrackets(brackets)
	}
	if err != nil {
		badRequest(w, err)
		return
	}

	tax := finance.TaxForIncome(income, brackets)
	if err := finance.CheckResult(income, tax); err != nil {
		badRequest(w, err)
		return
	}
	resp := map[string]interface{}{
		"income":        money(income),
		"tax":           money(tax),
		"marginal_rate": percent(finance.MarginalRate(income, brackets)),
	}
	if income > 0 {
		resp["effective_rate"] = percent(tax / income)
	}

	// income above a bounded top bracket is not taxed; say so
	if top := finance.TopLimit(brackets); !math.IsInf(top, 1) && income > top {
		resp["untaxed_above"] = money(top)
		resp["untaxed_amount"] = money(income - top)
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleFederal summarizes 2024 federal income and payroll tax for a gross wage
func HandleFederal(w http.ResponseWriter, r *http.Request) {
	gross, err := httputil.QueryFloat(r, "gross", 0, true)
	if err != nil {
		badRequest(w, err)
		return
	}
	if gross < 0 {
		badRequest(w, fmt.Errorf("%w: gross must not be negative", finance.ErrInvalidArgument))
		return
	}

	s := finance.Summarize(gross)
	if err := finance.CheckResult(s.TotalTax, s.NetIncome, s.EffectiveRate); err != nil {
		badRequest(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"gross":              money(s.Gross),
		"standard_deduction": money(finance.StandardDeduction2024Single),
		"taxable":            money(s.Taxable),
		"income_tax":         money(s.IncomeTax),
		"payroll_tax":        money(s.PayrollTax),
		"total_tax":          money(s.TotalTax),
		"net_income":         money(s.NetIncome),
		"effective_rate":     percent(s.EffectiveRate),
		"marginal_rate":      percent(s.MarginalRate),
	})
}
