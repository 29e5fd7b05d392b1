package finance

import "math"

// LoanTerms describes a fixed-rate mortgage.
type LoanTerms struct {
	Principal          float64 `json:"principal"`
	AnnualRate         float64 `json:"annual_rate"` // fraction, e.g. 0.0675
	TermMonths         int     `json:"term_months"`
	InterestOnlyMonths int     `json:"interest_only_months,omitempty"` // optional IO window at the start
	BalloonMonths      int     `json:"balloon_months,omitempty"`       // optional early maturity, balance due
}

// Validate checks the terms against the valid parameter domain.
func (t LoanTerms) Validate() error {
	if t.Principal <= 0 {
		return invalidf("principal must be positive, got %.2f", t.Principal)
	}
	if t.Principal > MaxPrincipal {
		return invalidf("principal exceeds maximum of %.0f", MaxPrincipal)
	}
	if t.AnnualRate < 0 {
		return invalidf("annual rate must not be negative, got %.4f", t.AnnualRate)
	}
	if t.AnnualRate > 1 {
		return invalidf("annual rate must be a fraction between 0 and 1, got %.4f", t.AnnualRate)
	}
	if t.TermMonths <= 0 {
		return invalidf("term must be positive, got %d months", t.TermMonths)
	}
	if t.TermMonths > MaxTermMonths {
		return invalidf("term exceeds maximum of %d months", MaxTermMonths)
	}
	if t.InterestOnlyMonths < 0 || t.InterestOnlyMonths >= t.TermMonths {
		return invalidf("interest-only period must be shorter than the term")
	}
	if t.BalloonMonths < 0 || t.BalloonMonths > t.TermMonths {
		return invalidf("balloon month must fall within the term")
	}
	if t.BalloonMonths > 0 && t.BalloonMonths <= t.InterestOnlyMonths {
		return invalidf("balloon month must come after the interest-only period")
	}
	return nil
}

// MonthlyPayment computes the constant payment for a fully amortizing
// fixed-rate loan using the standard annuity formula. A zero rate is
// handled with straight-line principal division so the formula never
// divides by zero.
func MonthlyPayment(principal, annualRate float64, termMonths int) (float64, error) {
	t := LoanTerms{Principal: principal, AnnualRate: annualRate, TermMonths: termMonths}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	if annualRate == 0 {
		return principal / float64(termMonths), nil
	}

	r := annualRate / 12
	n := float64(termMonths)
	return principal * r / (1 - math.Pow(1+r, -n)), nil
}
