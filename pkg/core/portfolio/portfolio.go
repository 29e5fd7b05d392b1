// Package portfolio aggregates stored deals into the dashboard rollup.
package portfolio

import (
	"sort"
	"time"

	"deal_evaluation/pkg/core/deal"
	"deal_evaluation/pkg/core/finance"
)

// RiskBand is the coarse portfolio risk classification shown on the
// dashboard.
type RiskBand string

const (
	RiskLow      RiskBand = "low"
	RiskModerate RiskBand = "moderate"
	RiskHigh     RiskBand = "high"
)

// DealSnapshot pairs a deal with its base-scenario metrics.
type DealSnapshot struct {
	Deal    *deal.Deal      `json:"deal"`
	Metrics finance.Metrics `json:"metrics"`
}

// Summary is the dashboard headline block.
type Summary struct {
	TotalValue      float64        `json:"total_value"`
	ActiveDeals     int            `json:"active_deals"`
	PendingAnalysis int            `json:"pending_analysis"`
	AvgCashOnCash   float64        `json:"avg_cash_on_cash"`
	AvgCapRate      float64        `json:"avg_cap_rate"`
	Risk            RiskBand       `json:"risk"`
	TypeBreakdown   map[string]int `json:"type_breakdown"`
	History         []ValuePoint   `json:"history"`
}

// ValuePoint is one month of cumulative portfolio value.
type ValuePoint struct {
	Month string  `json:"month"` // YYYY-MM
	Value float64 `json:"value"`
}

// Summarize rolls the portfolio up. Archived deals are excluded from
// the headline figures but still count toward the value history.
func Summarize(snapshots []DealSnapshot) Summary {
	s := Summary{TypeBreakdown: map[string]int{}}

	var cocSum, capSum, dscrSum float64
	var counted int
	for _, snap := range snapshots {
		if snap.Deal.Status == deal.StatusArchived {
			continue
		}
		s.ActiveDeals++
		if snap.Deal.Status == deal.StatusAnalyzing || snap.Deal.Status == deal.StatusPending {
			s.PendingAnalysis++
		}
		s.TotalValue += snap.Deal.Inputs.PurchasePrice
		s.TypeBreakdown[string(snap.Deal.PropertyType)]++

		cocSum += snap.Metrics.CashOnCashReturn
		capSum += snap.Metrics.CapRate
		dscrSum += snap.Metrics.DSCR
		counted++
	}

	if counted > 0 {
		s.AvgCashOnCash = cocSum / float64(counted)
		s.AvgCapRate = capSum / float64(counted)
		s.Risk = classifyRisk(dscrSum/float64(counted), len(s.TypeBreakdown))
	} else {
		s.Risk = RiskLow
	}

	s.History = History(snapshots)
	return s
}

// classifyRisk bands the portfolio from average debt coverage and how
// many property types it spans.
func classifyRisk(avgDSCR float64, typeCount int) RiskBand {
	switch {
	case avgDSCR >= 1.35 && typeCount >= 3:
		return RiskLow
	case avgDSCR >= 1.15:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// History builds the cumulative acquisition-value series by month.
func History(snapshots []DealSnapshot) []ValuePoint {
	if len(snapshots) == 0 {
		return nil
	}

	byMonth := map[string]float64{}
	for _, snap := range snapshots {
		month := snap.Deal.CreatedAt.In(time.UTC).Format("2006-01")
		byMonth[month] += snap.Deal.Inputs.PurchasePrice
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	points := make([]ValuePoint, 0, len(months))
	running := 0.0
	for _, m := range months {
		running += byMonth[m]
		points = append(points, ValuePoint{Month: m, Value: running})
	}
	return points
}
