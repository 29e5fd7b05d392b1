package finance

// AmortizationRow is one period of a loan schedule. Rows are derived,
// immutable once computed, and ordered by period.
type AmortizationRow struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// BuildSchedule generates the full amortization schedule for the given
// terms. Interest-only months (if any) come first with a flat balance.
// The terminal row forces the balance to exactly zero to absorb
// floating-point drift; with a balloon, the schedule truncates at the
// balloon month and the outstanding balance is due in that payment.
func BuildSchedule(t LoanTerms) ([]AmortizationRow, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	r := t.AnnualRate / 12
	amortMonths := t.TermMonths - t.InterestOnlyMonths

	payment, err := MonthlyPayment(t.Principal, t.AnnualRate, amortMonths)
	if err != nil {
		return nil, err
	}

	last := t.TermMonths
	if t.BalloonMonths > 0 {
		last = t.BalloonMonths
	}

	rows := make([]AmortizationRow, 0, last)
	balance := t.Principal

	for period := 1; period <= last; period++ {
		interest := balance * r

		var principal, due float64
		switch {
		case period <= t.InterestOnlyMonths:
			// IO window: service interest only, balance unchanged.
			principal = 0
			due = interest
		case period == last:
			// Terminal period absorbs rounding drift (or the balloon):
			// whatever balance remains is paid off here.
			principal = balance
			due = interest + principal
		default:
			principal = payment - interest
			due = payment
		}

		balance -= principal
		rows = append(rows, AmortizationRow{
			Period:    period,
			Payment:   due,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}

	return rows, nil
}

// BalanceAt returns the remaining balance after the given period. Periods
// beyond the end of the schedule report zero.
func BalanceAt(rows []AmortizationRow, period int) float64 {
	if len(rows) == 0 || period <= 0 {
		return 0
	}
	if period > len(rows) {
		return 0
	}
	return rows[period-1].Balance
}
