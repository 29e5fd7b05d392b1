// Package calculator exposes the scenario and amortization endpoints.
package calculator

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"go.uber.org/zap"

	"deal_evaluation/pkg/core/export"
	"deal_evaluation/pkg/core/finance"
)

// Handler holds dependencies for calculator endpoints.
type Handler struct {
	log *zap.Logger
}

// NewHandler creates a calculator handler.
func NewHandler(log *zap.Logger) *Handler {
	return &Handler{log: log}
}

// DealInputsRequest carries the shared baseline. Rates arrive as
// percentages (6.0 == 6%) and are converted at this boundary.
type DealInputsRequest struct {
	PurchasePrice float64 `json:"purchase_price"`
	ClosingCosts  float64 `json:"closing_costs"`
	RehabBudget   float64 `json:"rehab_budget"`
	InterestRate  float64 `json:"interest_rate"`

	MonthlyRent float64 `json:"monthly_rent"`
	OtherIncome float64 `json:"other_income"`
	VacancyRate float64 `json:"vacancy_rate"`

	OperatingExpenseRatio float64                    `json:"operating_expense_ratio"`
	Expenses              *finance.OperatingExpenses `json:"expenses,omitempty"`

	AppreciationRate  float64 `json:"appreciation_rate"`
	RentGrowthRate    float64 `json:"rent_growth_rate"`
	ExpenseGrowthRate float64 `json:"expense_growth_rate"`
	HoldYears         int     `json:"hold_years"`
}

// ToInputs converts API percentages into core fractions.
func (r DealInputsRequest) ToInputs() finance.DealInputs {
	return finance.DealInputs{
		PurchasePrice:         r.PurchasePrice,
		ClosingCosts:          r.ClosingCosts,
		RehabBudget:           r.RehabBudget,
		InterestRate:          r.InterestRate / 100,
		MonthlyRent:           r.MonthlyRent,
		OtherIncome:           r.OtherIncome,
		VacancyRate:           r.VacancyRate / 100,
		OperatingExpenseRatio: r.OperatingExpenseRatio / 100,
		Expenses:              r.Expenses,
		AppreciationRate:      r.AppreciationRate / 100,
		RentGrowthRate:        r.RentGrowthRate / 100,
		ExpenseGrowthRate:     r.ExpenseGrowthRate / 100,
		HoldYears:             r.HoldYears,
	}
}

// ScenarioRequest is one scenario override. Zero multipliers default to
// 1.0 so callers can specify only the financing terms.
type ScenarioRequest struct {
	Name              string  `json:"name"`
	DownPaymentPct    float64 `json:"down_payment_pct"` // percent
	LoanTermYears     int     `json:"loan_term_years"`
	BalloonYears      int     `json:"balloon_years,omitempty"`
	RentGrowthMult    float64 `json:"rent_growth_mult,omitempty"`
	ExpenseGrowthMult float64 `json:"expense_growth_mult,omitempty"`
	ExitCapMult       float64 `json:"exit_cap_mult,omitempty"`
}

func (r ScenarioRequest) toScenario() finance.Scenario {
	s := finance.Scenario{
		Name:              r.Name,
		DownPaymentPct:    r.DownPaymentPct / 100,
		LoanTermYears:     r.LoanTermYears,
		BalloonYears:      r.BalloonYears,
		RentGrowthMult:    r.RentGrowthMult,
		ExpenseGrowthMult: r.ExpenseGrowthMult,
		ExitCapMult:       r.ExitCapMult,
	}
	if s.RentGrowthMult == 0 {
		s.RentGrowthMult = 1
	}
	if s.ExpenseGrowthMult == 0 {
		s.ExpenseGrowthMult = 1
	}
	if s.ExitCapMult == 0 {
		s.ExitCapMult = 1
	}
	return s
}

// ScenariosRequest runs a scenario set against one baseline. An empty
// scenario list runs the four default presets.
type ScenariosRequest struct {
	Inputs    DealInputsRequest `json:"inputs"`
	Scenarios []ScenarioRequest `json:"scenarios,omitempty"`
}

// MetricsResponse is the API rendering of scenario metrics: dollars
// rounded to cents, ratios as percentages.
type MetricsResponse struct {
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
	CashOnCashReturn     float64 `json:"cash_on_cash_return_pct"`
	CapRate              float64 `json:"cap_rate_pct"`
	DSCR                 float64 `json:"dscr"`
	ExitCapRate          float64 `json:"exit_cap_rate_pct"`
	ProjectedExitValue   float64 `json:"projected_exit_value"`
	CumulativeCashFlow   float64 `json:"cumulative_cash_flow"`
	TotalReturn          float64 `json:"total_return_pct"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RenderMetrics converts core metrics into the API shape.
func RenderMetrics(m finance.Metrics) MetricsResponse {
	return MetricsResponse{
		DownPayment:          round2(m.DownPayment),
		LoanAmount:           round2(m.LoanAmount),
		MonthlyPayment:       round2(m.MonthlyPayment),
		AnnualDebtService:    round2(m.AnnualDebtService),
		GrossRentIncome:      round2(m.GrossRentIncome),
		EffectiveGrossIncome: round2(m.EffectiveGrossIncome),
		OperatingExpenses:    round2(m.OperatingExpenses),
		NOI:                  round2(m.NOI),
		CashFlow:             round2(m.CashFlow),
		TotalCashInvested:    round2(m.TotalCashInvested),
		CashOnCashReturn:     round2(m.CashOnCashReturn * 100),
		CapRate:              round2(m.CapRate * 100),
		DSCR:                 round2(m.DSCR),
		ExitCapRate:          round2(m.ExitCapRate * 100),
		ProjectedExitValue:   round2(m.ProjectedExitValue),
		CumulativeCashFlow:   round2(m.CumulativeCashFlow),
		TotalReturn:          round2(m.TotalReturn * 100),
	}
}

// ScenarioOutcome is one scenario's row in the comparison table. The
// full schedule is served by the amortization endpoint; here only its
// length travels so the UI can link out.
type ScenarioOutcome struct {
	Scenario       finance.Scenario `json:"scenario"`
	Metrics        MetricsResponse  `json:"metrics"`
	ScheduleMonths int              `json:"schedule_months"`
}

// ScenariosResponse is the comparison table for one baseline.
type ScenariosResponse struct {
	Results []ScenarioOutcome `json:"results"`
}

// HandleScenarios runs the scenario comparison.
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req ScenariosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	scenarios := make([]finance.Scenario, 0, len(req.Scenarios))
	for _, s := range req.Scenarios {
		scenarios = append(scenarios, s.toScenario())
	}

	results, err := finance.RunScenarios(req.Inputs.ToInputs(), scenarios)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("scenario run failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := ScenariosResponse{Results: make([]ScenarioOutcome, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, ScenarioOutcome{
			Scenario:       res.Scenario,
			Metrics:        RenderMetrics(res.Metrics),
			ScheduleMonths: len(res.Schedule),
		})
	}

	h.log.Info("scenario comparison served",
		zap.Int("scenarios", len(resp.Results)),
		zap.Float64("purchase_price", req.Inputs.PurchasePrice))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// AmortizationRequest describes one loan. The rate is a percentage.
type AmortizationRequest struct {
	Principal          float64 `json:"principal"`
	AnnualRate         float64 `json:"annual_rate"`
	TermMonths         int     `json:"term_months"`
	InterestOnlyMonths int     `json:"interest_only_months,omitempty"`
	BalloonMonths      int     `json:"balloon_months,omitempty"`
}

// AmortizationResponse carries the schedule with its headline figures.
type AmortizationResponse struct {
	MonthlyPayment float64                   `json:"monthly_payment"`
	TotalPaid      float64                   `json:"total_paid"`
	TotalInterest  float64                   `json:"total_interest"`
	Schedule       []finance.AmortizationRow `json:"schedule"`
}

// HandleAmortization builds a schedule. ?format=csv streams the
// schedule as a download instead of JSON.
func (h *Handler) HandleAmortization(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req AmortizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	terms := finance.LoanTerms{
		Principal:          req.Principal,
		AnnualRate:         req.AnnualRate / 100,
		TermMonths:         req.TermMonths,
		InterestOnlyMonths: req.InterestOnlyMonths,
		BalloonMonths:      req.BalloonMonths,
	}

	schedule, err := finance.BuildSchedule(terms)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("schedule build failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="amortization_schedule.csv"`)
		if err := export.NewCSVExporter(w).WriteSchedule(schedule); err != nil {
			h.log.Error("schedule csv export failed", zap.Error(err))
		}
		return
	}

	var totalPaid, totalInterest float64
	for _, row := range schedule {
		totalPaid += row.Payment
		totalInterest += row.Interest
	}
	monthly, _ := finance.MonthlyPayment(terms.Principal, terms.AnnualRate, terms.TermMonths-terms.InterestOnlyMonths)

	resp := AmortizationResponse{
		MonthlyPayment: round2(monthly),
		TotalPaid:      round2(totalPaid),
		TotalInterest:  round2(totalInterest),
		Schedule:       schedule,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
