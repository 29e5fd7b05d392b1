package finance

import "math"

// OperatingExpenses itemizes annual property operating costs. When
// present it overrides the flat operating-expense ratio.
type OperatingExpenses struct {
	PropertyTaxes      float64 `json:"property_taxes"`
	Insurance          float64 `json:"insurance"`
	RepairsMaintenance float64 `json:"repairs_maintenance"`
	PropertyManagement float64 `json:"property_management"`
	Utilities          float64 `json:"utilities"`
	CAMCharges         float64 `json:"cam_charges"`
}

// Total sums the itemized expenses.
func (e OperatingExpenses) Total() float64 {
	return e.PropertyTaxes + e.Insurance + e.RepairsMaintenance +
		e.PropertyManagement + e.Utilities + e.CAMCharges
}

// DealInputs is the shared baseline every scenario derives from. Rates
// are fractions (0.05 == 5%).
type DealInputs struct {
	PurchasePrice float64 `json:"purchase_price"`
	ClosingCosts  float64 `json:"closing_costs"`
	RehabBudget   float64 `json:"rehab_budget"`
	InterestRate  float64 `json:"interest_rate"`

	MonthlyRent float64 `json:"monthly_rent"`
	OtherIncome float64 `json:"other_income"` // annual
	VacancyRate float64 `json:"vacancy_rate"`

	// OperatingExpenseRatio applies to effective gross income unless
	// itemized expenses are provided.
	OperatingExpenseRatio float64            `json:"operating_expense_ratio"`
	Expenses              *OperatingExpenses `json:"expenses,omitempty"`

	AppreciationRate  float64 `json:"appreciation_rate"`
	RentGrowthRate    float64 `json:"rent_growth_rate"`
	ExpenseGrowthRate float64 `json:"expense_growth_rate"`
	HoldYears         int     `json:"hold_years"`
}

// Validate checks the baseline against the valid parameter domain.
func (d DealInputs) Validate() error {
	if d.PurchasePrice <= 0 {
		return invalidf("purchase price must be positive, got %.2f", d.PurchasePrice)
	}
	if d.ClosingCosts < 0 || d.RehabBudget < 0 || d.MonthlyRent < 0 || d.OtherIncome < 0 {
		return invalidf("deal amounts must not be negative")
	}
	if d.InterestRate < 0 || d.InterestRate > 1 {
		return invalidf("interest rate must be a fraction between 0 and 1, got %.4f", d.InterestRate)
	}
	if d.VacancyRate < 0 || d.VacancyRate > 1 {
		return invalidf("vacancy rate must be a fraction between 0 and 1, got %.4f", d.VacancyRate)
	}
	if d.OperatingExpenseRatio < 0 || d.OperatingExpenseRatio > 1 {
		return invalidf("operating expense ratio must be a fraction between 0 and 1")
	}
	if d.HoldYears < 0 {
		return invalidf("hold period must not be negative, got %d years", d.HoldYears)
	}
	return nil
}

// Scenario is a named variant of the baseline. Financing fields replace
// the baseline financing; the multipliers adjust rent growth, expense
// growth and the exit cap rate relative to the baseline.
type Scenario struct {
	Name           string  `json:"name"`
	DownPaymentPct float64 `json:"down_payment_pct"` // fraction of purchase price
	LoanTermYears  int     `json:"loan_term_years"`
	BalloonYears   int     `json:"balloon_years,omitempty"`

	RentGrowthMult    float64 `json:"rent_growth_mult"`
	ExpenseGrowthMult float64 `json:"expense_growth_mult"`
	ExitCapMult       float64 `json:"exit_cap_mult"`
}

// DefaultScenarios returns the four standard presets. Financing terms
// follow the classic 4-scenario grid (30/35% down, 20/25 year terms);
// the multipliers spread the outcome band around the base case.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "Base", DownPaymentPct: 0.30, LoanTermYears: 25, RentGrowthMult: 1.00, ExpenseGrowthMult: 1.00, ExitCapMult: 1.00},
		{Name: "Optimistic", DownPaymentPct: 0.30, LoanTermYears: 25, RentGrowthMult: 1.10, ExpenseGrowthMult: 0.95, ExitCapMult: 0.90},
		{Name: "Pessimistic", DownPaymentPct: 0.35, LoanTermYears: 20, RentGrowthMult: 0.95, ExpenseGrowthMult: 1.05, ExitCapMult: 1.10},
		{Name: "Stress", DownPaymentPct: 0.35, LoanTermYears: 20, RentGrowthMult: 0.85, ExpenseGrowthMult: 1.15, ExitCapMult: 1.25},
	}
}

// Metrics holds the summary outcome of one scenario. Ratios are
// fractions; dollar figures are annual unless noted.
type Metrics struct {
	DownPayment          float64 `json:"down_payment"`
	LoanAmount           float64 `json:"loan_amount"`
	MonthlyPayment       float64 `json:"monthly_payment"`
	AnnualDebtService    float64 `json:"annual_debt_service"`
	GrossRentIncome      float64 `json:"gross_rent_income"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
	CashFlow             float64 `json:"cash_flow"`
	TotalCashInvested    float64 `json:"total_cash_invested"`
	CashOnCashReturn     float64 `json:"cash_on_cash_return"`
	CapRate              float64 `json:"cap_rate"`
	DSCR                 float64 `json:"dscr"`
	ExitCapRate          float64 `json:"exit_cap_rate"`
	ProjectedExitValue   float64 `json:"projected_exit_value"`
	CumulativeCashFlow   float64 `json:"cumulative_cash_flow"`
	TotalReturn          float64 `json:"total_return"` // over the hold period, as a fraction of cash invested
}

// ScenarioResult pairs a scenario with its schedule and metrics.
type ScenarioResult struct {
	Scenario Scenario          `json:"scenario"`
	Metrics  Metrics           `json:"metrics"`
	Schedule []AmortizationRow `json:"schedule"`
}

// RunScenario evaluates a single scenario against the baseline.
func RunScenario(d DealInputs, s Scenario) (ScenarioResult, error) {
	if err := d.Validate(); err != nil {
		return ScenarioResult{}, err
	}
	if s.DownPaymentPct < 0 || s.DownPaymentPct >= 1 {
		return ScenarioResult{}, invalidf("down payment must be a fraction between 0 and 1, got %.4f", s.DownPaymentPct)
	}
	if s.LoanTermYears <= 0 {
		return ScenarioResult{}, invalidf("loan term must be positive, got %d years", s.LoanTermYears)
	}

	downPayment := d.PurchasePrice * s.DownPaymentPct
	loanAmount := d.PurchasePrice - downPayment

	terms := LoanTerms{
		Principal:     loanAmount,
		AnnualRate:    d.InterestRate,
		TermMonths:    s.LoanTermYears * 12,
		BalloonMonths: s.BalloonYears * 12,
	}
	schedule, err := BuildSchedule(terms)
	if err != nil {
		return ScenarioResult{}, err
	}

	monthlyPayment, err := MonthlyPayment(loanAmount, d.InterestRate, terms.TermMonths)
	if err != nil {
		return ScenarioResult{}, err
	}
	annualDebtService := monthlyPayment * 12

	// 1. Year-one income statement.
	grossRent := d.MonthlyRent * 12
	vacancyLoss := grossRent * d.VacancyRate
	egi := grossRent - vacancyLoss + d.OtherIncome

	var opex float64
	if d.Expenses != nil {
		opex = d.Expenses.Total()
	} else {
		opex = egi * d.OperatingExpenseRatio
	}

	noi := egi - opex
	cashFlow := noi - annualDebtService
	totalCashInvested := downPayment + d.ClosingCosts + d.RehabBudget

	// 2. Point-in-time ratios.
	capRate := noi / d.PurchasePrice
	var coc, dscr float64
	if totalCashInvested > 0 {
		coc = cashFlow / totalCashInvested
	}
	if annualDebtService > 0 {
		dscr = noi / annualDebtService
	}

	// 3. Hold-period projection with scenario-adjusted growth.
	rentGrowth := d.RentGrowthRate * s.RentGrowthMult
	expenseGrowth := d.ExpenseGrowthRate * s.ExpenseGrowthMult
	exitCap := capRate * s.ExitCapMult

	cumCashFlow := 0.0
	yearEGI, yearOpex := egi, opex
	for year := 1; year <= d.HoldYears; year++ {
		if year > 1 {
			yearEGI *= 1 + rentGrowth
			yearOpex *= 1 + expenseGrowth
		}
		cumCashFlow += (yearEGI - yearOpex) - annualDebtService
	}

	exitNOI := yearEGI - yearOpex
	exitValue := d.PurchasePrice * math.Pow(1+d.AppreciationRate, float64(d.HoldYears))
	if exitCap > 0 && d.HoldYears > 0 {
		// Income approach takes precedence when a cap rate exists.
		exitValue = exitNOI / exitCap
	}

	totalReturn := 0.0
	if d.HoldYears > 0 && totalCashInvested > 0 {
		exitBalance := BalanceAt(schedule, d.HoldYears*12)
		equityAtExit := exitValue - exitBalance
		totalReturn = (cumCashFlow + equityAtExit - totalCashInvested) / totalCashInvested
	}

	return ScenarioResult{
		Scenario: s,
		Metrics: Metrics{
			DownPayment:          downPayment,
			LoanAmount:           loanAmount,
			MonthlyPayment:       monthlyPayment,
			AnnualDebtService:    annualDebtService,
			GrossRentIncome:      grossRent,
			EffectiveGrossIncome: egi,
			OperatingExpenses:    opex,
			NOI:                  noi,
			CashFlow:             cashFlow,
			TotalCashInvested:    totalCashInvested,
			CashOnCashReturn:     coc,
			CapRate:              capRate,
			DSCR:                 dscr,
			ExitCapRate:          exitCap,
			ProjectedExitValue:   exitValue,
			CumulativeCashFlow:   cumCashFlow,
			TotalReturn:          totalReturn,
		},
		Schedule: schedule,
	}, nil
}

// RunScenarios evaluates every scenario against the one shared baseline.
// An empty scenario list runs the four default presets.
func RunScenarios(d DealInputs, scenarios []Scenario) ([]ScenarioResult, error) {
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios()
	}

	results := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := RunScenario(d, s)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
