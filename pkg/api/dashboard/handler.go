// Package dashboard serves the portfolio rollup.
package dashboard

import (
	"encoding/json"
	"math"
	"net/http"

	"go.uber.org/zap"

	"deal_evaluation/pkg/core/portfolio"
	"deal_evaluation/pkg/core/store"
)

// Handler holds dependencies for the dashboard endpoint.
type Handler struct {
	deals *store.DealRepo
	cache *store.AnalysisCache
	log   *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(deals *store.DealRepo, cache *store.AnalysisCache, log *zap.Logger) *Handler {
	return &Handler{deals: deals, cache: cache, log: log}
}

// Response is the dashboard payload. Average ratios are percentages.
type Response struct {
	TotalValue      float64                  `json:"total_value"`
	ActiveDeals     int                      `json:"active_deals"`
	PendingAnalysis int                      `json:"pending_analysis"`
	AvgCashOnCash   float64                  `json:"avg_cash_on_cash_pct"`
	AvgCapRate      float64                  `json:"avg_cap_rate_pct"`
	Risk            portfolio.RiskBand       `json:"risk"`
	TypeBreakdown   map[string]int           `json:"type_breakdown"`
	History         []portfolio.ValuePoint   `json:"history"`
	Deals           []portfolio.DealSnapshot `json:"deals"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HandleDashboard rolls every stored deal and its cached base-scenario
// metrics into the portfolio summary.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	deals, err := h.deals.List(r.Context())
	if err != nil {
		h.log.Error("dashboard deal list failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snapshots := make([]portfolio.DealSnapshot, 0, len(deals))
	for _, d := range deals {
		snap := portfolio.DealSnapshot{Deal: d}
		// Deals without a cached run still appear, with zero metrics.
		if results, err := h.cache.Get(r.Context(), d.ID); err == nil && len(results) > 0 {
			snap.Metrics = results[0].Metrics
		}
		snapshots = append(snapshots, snap)
	}

	summary := portfolio.Summarize(snapshots)
	resp := Response{
		TotalValue:      round2(summary.TotalValue),
		ActiveDeals:     summary.ActiveDeals,
		PendingAnalysis: summary.PendingAnalysis,
		AvgCashOnCash:   round2(summary.AvgCashOnCash * 100),
		AvgCapRate:      round2(summary.AvgCapRate * 100),
		Risk:            summary.Risk,
		TypeBreakdown:   summary.TypeBreakdown,
		History:         summary.History,
		Deals:           snapshots,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
