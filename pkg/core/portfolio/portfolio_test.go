package portfolio_test

import (
	"math"
	"testing"
	"time"

	"deal_evaluation/pkg/core/deal"
	"deal_evaluation/pkg/core/finance"
	"deal_evaluation/pkg/core/portfolio"
)

func snapshot(name string, ptype deal.PropertyType, status deal.Status, price, coc, dscr float64, created time.Time) portfolio.DealSnapshot {
	d := deal.New(name, "Austin, TX", ptype, finance.DealInputs{PurchasePrice: price, InterestRate: 0.06})
	d.Status = status
	d.CreatedAt = created
	return portfolio.DealSnapshot{
		Deal:    d,
		Metrics: finance.Metrics{CashOnCashReturn: coc, DSCR: dscr, CapRate: 0.065},
	}
}

func TestSummarize(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	snaps := []portfolio.DealSnapshot{
		snapshot("Sunset Apartments", deal.TypeMultifamily, deal.StatusAnalyzing, 2450000, 0.085, 1.45, jan),
		snapshot("Downtown Office Complex", deal.TypeOffice, deal.StatusPending, 8950000, 0.073, 1.40, jan),
		snapshot("Industrial Warehouse", deal.TypeIndustrial, deal.StatusCompleted, 3200000, 0.091, 1.50, feb),
		snapshot("Old Retail Strip", deal.TypeRetail, deal.StatusArchived, 1000000, 0.02, 0.9, feb),
	}

	s := portfolio.Summarize(snaps)
	if s.ActiveDeals != 3 {
		t.Errorf("archived deals must not count as active, got %d", s.ActiveDeals)
	}
	if s.PendingAnalysis != 2 {
		t.Errorf("expected 2 deals pending analysis, got %d", s.PendingAnalysis)
	}
	if s.TotalValue != 2450000+8950000+3200000 {
		t.Errorf("unexpected total value %.0f", s.TotalValue)
	}
	wantCoC := (0.085 + 0.073 + 0.091) / 3
	if math.Abs(s.AvgCashOnCash-wantCoC) > 1e-9 {
		t.Errorf("expected avg CoC %.4f, got %.4f", wantCoC, s.AvgCashOnCash)
	}
	// Three property types and DSCR well above 1.35 reads as low risk.
	if s.Risk != portfolio.RiskLow {
		t.Errorf("expected low risk, got %s", s.Risk)
	}
	if s.TypeBreakdown["multifamily"] != 1 || s.TypeBreakdown["office"] != 1 {
		t.Errorf("unexpected type breakdown %+v", s.TypeBreakdown)
	}
}

func TestSummarize_RiskBands(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	// Concentrated in one type: never low risk, whatever the coverage.
	concentrated := []portfolio.DealSnapshot{
		snapshot("A", deal.TypeOffice, deal.StatusCompleted, 1e6, 0.08, 1.6, jan),
		snapshot("B", deal.TypeOffice, deal.StatusCompleted, 1e6, 0.08, 1.6, jan),
	}
	if got := portfolio.Summarize(concentrated).Risk; got != portfolio.RiskModerate {
		t.Errorf("concentrated portfolio should be moderate, got %s", got)
	}

	thin := []portfolio.DealSnapshot{
		snapshot("C", deal.TypeOffice, deal.StatusCompleted, 1e6, 0.01, 1.0, jan),
	}
	if got := portfolio.Summarize(thin).Risk; got != portfolio.RiskHigh {
		t.Errorf("thin coverage should be high risk, got %s", got)
	}
}

func TestHistory_Cumulative(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	snaps := []portfolio.DealSnapshot{
		snapshot("A", deal.TypeOffice, deal.StatusCompleted, 1000000, 0.08, 1.4, mar),
		snapshot("B", deal.TypeRetail, deal.StatusCompleted, 500000, 0.07, 1.3, jan),
	}

	points := portfolio.History(snaps)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Month != "2024-01" || points[0].Value != 500000 {
		t.Errorf("expected Jan first at 500000, got %+v", points[0])
	}
	if points[1].Month != "2024-03" || points[1].Value != 1500000 {
		t.Errorf("history must accumulate, got %+v", points[1])
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := portfolio.Summarize(nil)
	if s.ActiveDeals != 0 || s.TotalValue != 0 {
		t.Errorf("empty portfolio should be zero, got %+v", s)
	}
	if s.Risk != portfolio.RiskLow {
		t.Errorf("empty portfolio defaults to low risk, got %s", s.Risk)
	}
}
