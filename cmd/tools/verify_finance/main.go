// Command verify_finance sanity-checks the calculator against hand-
// computed figures. Run it after touching the finance package.
package main

import (
	"fmt"
	"math"
	"os"

	"deal_evaluation/pkg/core/finance"
)

var failures int

func check(name string, got, want, tol float64) {
	if math.Abs(got-want) <= tol {
		fmt.Printf("PASS  %-40s got=%.4f\n", name, got)
		return
	}
	fmt.Printf("FAIL  %-40s got=%.4f want=%.4f\n", name, got, want)
	failures++
}

func main() {
	// Known annuity: 300k at 6% over 30 years.
	payment, err := finance.MonthlyPayment(300000, 0.06, 360)
	if err != nil {
		fmt.Printf("FAIL  monthly payment errored: %v\n", err)
		os.Exit(1)
	}
	check("monthly payment 300k@6%x360", payment, 1798.65, 0.01)

	// Zero-rate loans amortize straight-line.
	payment, _ = finance.MonthlyPayment(12000, 0, 120)
	check("zero-rate straight line", payment, 100, 1e-9)

	// Schedule must retire the loan exactly.
	schedule, err := finance.BuildSchedule(finance.LoanTerms{
		Principal:  300000,
		AnnualRate: 0.06,
		TermMonths: 360,
	})
	if err != nil {
		fmt.Printf("FAIL  schedule build errored: %v\n", err)
		os.Exit(1)
	}
	check("terminal balance", schedule[len(schedule)-1].Balance, 0, 1e-9)

	var totalPrincipal float64
	for _, row := range schedule {
		totalPrincipal += row.Principal
	}
	check("principal sums to loan", totalPrincipal, 300000, 0.01)

	// Base scenario against the hand-computed worksheet.
	inputs := finance.DealInputs{
		PurchasePrice:         2475000,
		ClosingCosts:          49500,
		RehabBudget:           0,
		InterestRate:          0.065,
		MonthlyRent:           24750,
		VacancyRate:           0.05,
		OperatingExpenseRatio: 0.35,
		AppreciationRate:      0.03,
		RentGrowthRate:        0.025,
		ExpenseGrowthRate:     0.02,
		HoldYears:             5,
	}
	results, err := finance.RunScenarios(inputs, nil)
	if err != nil {
		fmt.Printf("FAIL  scenario run errored: %v\n", err)
		os.Exit(1)
	}
	base := results[0].Metrics
	check("base down payment", base.DownPayment, 742500, 0.01)
	check("base loan amount", base.LoanAmount, 1732500, 0.01)
	check("base gross rent", base.GrossRentIncome, 297000, 0.01)
	check("base EGI", base.EffectiveGrossIncome, 282150, 0.01)
	check("base NOI", base.NOI, 183397.50, 0.01)

	if results[1].Metrics.TotalReturn <= base.TotalReturn {
		fmt.Println("FAIL  optimistic total return should exceed base")
		failures++
	} else {
		fmt.Println("PASS  optimistic total return exceeds base")
	}
	if results[3].Metrics.TotalReturn >= base.TotalReturn {
		fmt.Println("FAIL  stress total return should trail base")
		failures++
	} else {
		fmt.Println("PASS  stress total return trails base")
	}

	if failures > 0 {
		fmt.Printf("\n%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed")
}
