package finance_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"deal_evaluation/pkg/core/finance"
)

func sampleDeal() finance.DealInputs {
	return finance.DealInputs{
		PurchasePrice: 2475000,
		ClosingCosts:  24750,
		InterestRate:  0.0675,
		MonthlyRent:   17956,
		OtherIncome:   1200,
		VacancyRate:   0.05,
		Expenses: &finance.OperatingExpenses{
			PropertyTaxes:      9900,
			Insurance:          4950,
			RepairsMaintenance: 8250,
			PropertyManagement: 6600,
			Utilities:          2200,
		},
		AppreciationRate:  0.03,
		RentGrowthRate:    0.025,
		ExpenseGrowthRate: 0.02,
		HoldYears:         5,
	}
}

func TestRunScenario_BaseMetrics(t *testing.T) {
	deal := sampleDeal()
	base := finance.DefaultScenarios()[0]

	res, err := finance.RunScenario(deal, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.Metrics

	if !almostEqual(m.DownPayment, 742500, 0.01) {
		t.Errorf("down payment: expected 742500, got %.2f", m.DownPayment)
	}
	if !almostEqual(m.LoanAmount, 1732500, 0.01) {
		t.Errorf("loan amount: expected 1732500, got %.2f", m.LoanAmount)
	}

	// Income statement built from the original deal sheet.
	grossRent := 17956.0 * 12
	egi := grossRent - grossRent*0.05 + 1200
	opex := 9900.0 + 4950 + 8250 + 6600 + 2200
	noi := egi - opex
	if !almostEqual(m.NOI, noi, 0.01) {
		t.Errorf("NOI: expected %.2f, got %.2f", noi, m.NOI)
	}
	if !almostEqual(m.CapRate, noi/2475000, tol) {
		t.Errorf("cap rate: expected %.6f, got %.6f", noi/2475000, m.CapRate)
	}
	if !almostEqual(m.CashFlow, noi-m.AnnualDebtService, 0.01) {
		t.Errorf("cash flow should be NOI minus debt service")
	}
	if !almostEqual(m.CashOnCashReturn, m.CashFlow/m.TotalCashInvested, tol) {
		t.Errorf("cash-on-cash should be cash flow over cash invested")
	}
	if m.DSCR <= 0 {
		t.Errorf("DSCR should be positive, got %.4f", m.DSCR)
	}
	if len(res.Schedule) != 300 {
		t.Errorf("base scenario should carry a 25-year schedule, got %d rows", len(res.Schedule))
	}
}

func TestRunScenario_ExpenseRatioFallback(t *testing.T) {
	deal := sampleDeal()
	deal.Expenses = nil
	deal.OperatingExpenseRatio = 0.35

	res, err := finance.RunScenario(deal, finance.DefaultScenarios()[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.Metrics
	if !almostEqual(m.OperatingExpenses, m.EffectiveGrossIncome*0.35, 0.01) {
		t.Errorf("expected ratio-derived expenses, got %.2f of EGI %.2f",
			m.OperatingExpenses, m.EffectiveGrossIncome)
	}
}

func TestRunScenarios_SharedBaseline(t *testing.T) {
	deal := sampleDeal()
	results, err := finance.RunScenarios(deal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(results))
	}

	// Year-one figures that ignore financing and growth must be shared:
	// every scenario derives from the same baseline.
	for _, res := range results[1:] {
		if !almostEqual(res.Metrics.NOI, results[0].Metrics.NOI, tol) {
			t.Errorf("%s: NOI diverged from baseline", res.Scenario.Name)
		}
		if !almostEqual(res.Metrics.GrossRentIncome, results[0].Metrics.GrossRentIncome, tol) {
			t.Errorf("%s: gross rent diverged from baseline", res.Scenario.Name)
		}
	}

	// The adjusted outcomes must spread: optimistic beats base beats stress.
	byName := map[string]finance.Metrics{}
	for _, res := range results {
		byName[res.Scenario.Name] = res.Metrics
	}
	if byName["Optimistic"].TotalReturn <= byName["Base"].TotalReturn {
		t.Errorf("optimistic total return %.4f should exceed base %.4f",
			byName["Optimistic"].TotalReturn, byName["Base"].TotalReturn)
	}
	if byName["Stress"].TotalReturn >= byName["Base"].TotalReturn {
		t.Errorf("stress total return %.4f should trail base %.4f",
			byName["Stress"].TotalReturn, byName["Base"].TotalReturn)
	}
	if byName["Stress"].ExitCapRate <= byName["Base"].ExitCapRate {
		t.Errorf("stress exit cap should be wider than base")
	}
}

func TestRunScenarios_Idempotent(t *testing.T) {
	deal := sampleDeal()
	first, err := finance.RunScenarios(deal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := finance.RunScenarios(deal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs must produce identical output")
	}
}

func TestRunScenario_InvalidBaseline(t *testing.T) {
	deal := sampleDeal()
	deal.PurchasePrice = 0
	if _, err := finance.RunScenario(deal, finance.DefaultScenarios()[0]); !errors.Is(err, finance.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero purchase price, got %v", err)
	}

	deal = sampleDeal()
	deal.VacancyRate = 1.5
	if _, err := finance.RunScenario(deal, finance.DefaultScenarios()[0]); !errors.Is(err, finance.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for vacancy above 100%%, got %v", err)
	}
}

func TestRunScenario_InvalidScenario(t *testing.T) {
	deal := sampleDeal()
	bad := finance.Scenario{Name: "AllDebt", DownPaymentPct: 1.0, LoanTermYears: 25}
	if _, err := finance.RunScenario(deal, bad); !errors.Is(err, finance.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for 100%% down, got %v", err)
	}

	bad = finance.Scenario{Name: "NoTerm", DownPaymentPct: 0.3}
	if _, err := finance.RunScenario(deal, bad); !errors.Is(err, finance.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero term, got %v", err)
	}
}

func TestRunScenario_ExitValueUsesIncomeApproach(t *testing.T) {
	deal := sampleDeal()
	res, err := finance.RunScenario(deal, finance.DefaultScenarios()[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.Metrics

	// Exit value should capitalize the final-year NOI at the adjusted cap,
	// not fall back to the appreciation curve.
	apprValue := 2475000 * math.Pow(1.03, 5)
	if almostEqual(m.ProjectedExitValue, apprValue, 0.01) {
		t.Errorf("exit value should come from the income approach when a cap rate exists")
	}
	if m.ProjectedExitValue <= 0 {
		t.Errorf("exit value should be positive, got %.2f", m.ProjectedExitValue)
	}
}
