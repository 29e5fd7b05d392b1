// Package market exposes the market intelligence endpoints: comps
// snapshot, trend series and AI insights.
package market

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	coremarket "deal_evaluation/pkg/core/market"
	"deal_evaluation/pkg/core/store"
)

// Handler holds dependencies for market endpoints.
type Handler struct {
	parser   *coremarket.CompsParser
	cache    *store.MarketCache // nil when redis is not configured
	insights *coremarket.InsightsAgent
	log      *zap.Logger
}

// NewHandler creates a market handler. cache may be nil.
func NewHandler(parser *coremarket.CompsParser, cache *store.MarketCache, insights *coremarket.InsightsAgent, log *zap.Logger) *Handler {
	return &Handler{parser: parser, cache: cache, insights: insights, log: log}
}

// snapshot fetches (or serves from redis) the comp snapshot for a
// market. The comps source URL comes from MARKET_COMPS_URL.
func (h *Handler) snapshot(ctx context.Context, marketName, propertyType string, daysOnMarket int) (*coremarket.Snapshot, error) {
	cacheKey := marketName + ":" + propertyType

	if h.cache != nil {
		if snap, err := h.cache.GetSnapshot(ctx, cacheKey); err == nil && snap != nil {
			h.log.Info("market snapshot served from cache", zap.String("market", marketName))
			return snap, nil
		}
	}

	sourceURL := os.Getenv("MARKET_COMPS_URL")
	comps, err := h.parser.FetchComparables(sourceURL)
	if err != nil {
		return nil, err
	}

	snap := coremarket.BuildSnapshot(marketName, propertyType, daysOnMarket, comps)
	if h.cache != nil {
		if err := h.cache.SetSnapshot(ctx, cacheKey, &snap); err != nil {
			h.log.Warn("market snapshot cache write failed", zap.Error(err))
		}
	}
	return &snap, nil
}

func snapshotParams(r *http.Request) (string, string, int) {
	marketName := r.URL.Query().Get("market")
	if marketName == "" {
		marketName = "default"
	}
	propertyType := r.URL.Query().Get("property_type")
	daysOnMarket, _ := strconv.Atoi(r.URL.Query().Get("days_on_market"))
	return marketName, propertyType, daysOnMarket
}

// HandleSnapshot serves the comp snapshot for ?market=&property_type=.
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	marketName, propertyType, daysOnMarket := snapshotParams(r)
	snap, err := h.snapshot(r.Context(), marketName, propertyType, daysOnMarket)
	if err != nil {
		h.log.Error("market snapshot failed", zap.Error(err), zap.String("market", marketName))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// HandleTrends serves the monthly trend series for a market.
func (h *Handler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	marketName, propertyType, daysOnMarket := snapshotParams(r)
	snap, err := h.snapshot(r.Context(), marketName, propertyType, daysOnMarket)
	if err != nil {
		h.log.Error("market trends failed", zap.Error(err), zap.String("market", marketName))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"market": snap.Market,
		"trends": coremarket.TrendSeries(snap.Comparables),
	})
}

// InsightsRequest asks the model to read a market.
type InsightsRequest struct {
	Market       string `json:"market"`
	PropertyType string `json:"property_type"`
	DaysOnMarket int    `json:"days_on_market,omitempty"`
}

// HandleInsights generates AI insights from the current snapshot.
func (h *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req InsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Market == "" {
		req.Market = "default"
	}

	snap, err := h.snapshot(r.Context(), req.Market, req.PropertyType, req.DaysOnMarket)
	if err != nil {
		h.log.Error("market insights snapshot failed", zap.Error(err), zap.String("market", req.Market))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	insights, err := h.insights.Generate(ctx, *snap)
	if err != nil {
		h.log.Error("insight generation failed", zap.Error(err), zap.String("market", req.Market))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.log.Info("market insights generated",
		zap.String("market", req.Market), zap.Int("insights", len(insights)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"market":   snap.Market,
		"as_of":    snap.AsOf,
		"insights": insights,
	})
}
