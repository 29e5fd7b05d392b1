package finance_test

import (
	"errors"
	"math"
	"testing"

	"deal_evaluation/pkg/core/finance"
)

const tol = 1e-6

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestMonthlyPayment_KnownValue(t *testing.T) {
	// 300k at 6% over 30 years is the textbook case.
	payment, err := finance.MonthlyPayment(300000, 0.06, 360)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(payment, 1798.65, 0.01) {
		t.Errorf("expected payment ~1798.65, got %.4f", payment)
	}
}

func TestMonthlyPayment_ZeroRate(t *testing.T) {
	payment, err := finance.MonthlyPayment(1200, 0, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(payment, 100, tol) {
		t.Errorf("expected straight-line payment 100, got %.6f", payment)
	}
}

func TestMonthlyPayment_InvalidInput(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"zero principal", 0, 0.06, 360},
		{"negative principal", -100, 0.06, 360},
		{"negative rate", 300000, -0.01, 360},
		{"rate above one", 300000, 6.0, 360},
		{"zero term", 300000, 0.06, 0},
		{"term too long", 300000, 0.06, 1200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := finance.MonthlyPayment(tc.principal, tc.rate, tc.term)
			if !errors.Is(err, finance.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildSchedule_Invariants(t *testing.T) {
	terms := finance.LoanTerms{Principal: 1732500, AnnualRate: 0.0675, TermMonths: 300}
	rows, err := finance.BuildSchedule(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 300 {
		t.Fatalf("expected 300 rows, got %d", len(rows))
	}

	prevBalance := terms.Principal
	for _, row := range rows {
		// Interest + principal must equal the payment.
		if !almostEqual(row.Interest+row.Principal, row.Payment, tol) {
			t.Fatalf("period %d: interest %.6f + principal %.6f != payment %.6f",
				row.Period, row.Interest, row.Principal, row.Payment)
		}
		// Balance strictly decreases until payoff.
		if row.Balance >= prevBalance {
			t.Fatalf("period %d: balance %.6f did not decrease from %.6f",
				row.Period, row.Balance, prevBalance)
		}
		prevBalance = row.Balance
	}

	final := rows[len(rows)-1]
	if !almostEqual(final.Balance, 0, finance.BalanceTolerance) {
		t.Errorf("final balance should be exactly zero, got %.10f", final.Balance)
	}
	if final.Balance != 0 {
		t.Errorf("terminal row must force balance to zero, got %v", final.Balance)
	}
}

func TestBuildSchedule_ZeroRate(t *testing.T) {
	rows, err := finance.BuildSchedule(finance.LoanTerms{Principal: 1200, AnnualRate: 0, TermMonths: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, row := range rows {
		if !almostEqual(row.Principal, 100, tol) {
			t.Errorf("period %d: expected principal 100, got %.6f", row.Period, row.Principal)
		}
		if row.Interest != 0 {
			t.Errorf("period %d: expected zero interest, got %.6f", row.Period, row.Interest)
		}
	}
	if rows[len(rows)-1].Balance != 0 {
		t.Errorf("expected zero final balance, got %.6f", rows[len(rows)-1].Balance)
	}
}

func TestBuildSchedule_InterestOnlyWindow(t *testing.T) {
	terms := finance.LoanTerms{
		Principal:          500000,
		AnnualRate:         0.06,
		TermMonths:         120,
		InterestOnlyMonths: 24,
	}
	rows, err := finance.BuildSchedule(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	monthlyInterest := 500000 * 0.06 / 12
	for _, row := range rows[:24] {
		if row.Principal != 0 {
			t.Fatalf("period %d: IO period must not amortize, principal=%.6f", row.Period, row.Principal)
		}
		if !almostEqual(row.Payment, monthlyInterest, tol) {
			t.Fatalf("period %d: IO payment should be %.6f, got %.6f", row.Period, monthlyInterest, row.Payment)
		}
		if !almostEqual(row.Balance, 500000, tol) {
			t.Fatalf("period %d: balance must stay flat during IO window", row.Period)
		}
	}

	// After the window the loan amortizes over the remaining 96 months.
	if rows[24].Principal <= 0 {
		t.Errorf("first amortizing period should reduce principal")
	}
	if rows[len(rows)-1].Balance != 0 {
		t.Errorf("expected zero final balance, got %.6f", rows[len(rows)-1].Balance)
	}
}

func TestBuildSchedule_Balloon(t *testing.T) {
	terms := finance.LoanTerms{
		Principal:     1000000,
		AnnualRate:    0.0675,
		TermMonths:    300,
		BalloonMonths: 60,
	}
	rows, err := finance.BuildSchedule(terms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 60 {
		t.Fatalf("balloon schedule should stop at month 60, got %d rows", len(rows))
	}

	final := rows[len(rows)-1]
	if final.Balance != 0 {
		t.Errorf("balloon payment must retire the loan, balance=%.6f", final.Balance)
	}
	// The balloon payment dwarfs the regular one: most of the principal
	// is still outstanding after five years of a 25-year schedule.
	if final.Payment < 800000 {
		t.Errorf("expected a large balloon payment, got %.2f", final.Payment)
	}
	if !almostEqual(final.Interest+final.Principal, final.Payment, tol) {
		t.Errorf("balloon row must still split into interest + principal")
	}
}

func TestBuildSchedule_InvalidTerms(t *testing.T) {
	invalid := []finance.LoanTerms{
		{Principal: 100000, AnnualRate: 0.06, TermMonths: 120, InterestOnlyMonths: 120},
		{Principal: 100000, AnnualRate: 0.06, TermMonths: 120, BalloonMonths: 121},
		{Principal: 100000, AnnualRate: 0.06, TermMonths: 120, InterestOnlyMonths: 24, BalloonMonths: 12},
	}
	for i, terms := range invalid {
		if _, err := finance.BuildSchedule(terms); !errors.Is(err, finance.ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestBalanceAt(t *testing.T) {
	rows, err := finance.BuildSchedule(finance.LoanTerms{Principal: 1200, AnnualRate: 0, TermMonths: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := finance.BalanceAt(rows, 6); !almostEqual(got, 600, tol) {
		t.Errorf("expected balance 600 after 6 periods, got %.6f", got)
	}
	if got := finance.BalanceAt(rows, 240); got != 0 {
		t.Errorf("periods past maturity should report zero, got %.6f", got)
	}
}
