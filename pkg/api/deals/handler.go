// Package deals exposes the deal pipeline endpoints: CRUD, rent roll,
// expense log and the per-deal scenario analysis.
package deals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deal_evaluation/pkg/api/calculator"
	"deal_evaluation/pkg/core/deal"
	"deal_evaluation/pkg/core/export"
	"deal_evaluation/pkg/core/finance"
	"deal_evaluation/pkg/core/store"
)

// Handler holds dependencies for deal endpoints.
type Handler struct {
	deals    *store.DealRepo
	rentRoll *store.RentRollRepo
	expenses *store.ExpenseRepo
	cache    *store.AnalysisCache
	log      *zap.Logger
}

// NewHandler creates a deals handler.
func NewHandler(deals *store.DealRepo, rentRoll *store.RentRollRepo, expenses *store.ExpenseRepo, cache *store.AnalysisCache, log *zap.Logger) *Handler {
	return &Handler{deals: deals, rentRoll: rentRoll, expenses: expenses, cache: cache, log: log}
}

// CreateDealRequest registers a property for evaluation. The baseline
// uses the calculator's percentage convention.
type CreateDealRequest struct {
	PropertyName string                       `json:"property_name"`
	Location     string                       `json:"location"`
	PropertyType deal.PropertyType            `json:"property_type"`
	Inputs       calculator.DealInputsRequest `json:"inputs"`
}

// HandleDeals serves the collection: GET lists (or fetches ?id=), POST
// creates, DELETE removes ?id=.
func (h *Handler) HandleDeals(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			d, err := h.deals.Get(r.Context(), id)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(d)
			return
		}
		list, err := h.deals.List(r.Context())
		if err != nil {
			h.log.Error("deal list failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)

	case http.MethodPost:
		var req CreateDealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		d := deal.New(strings.TrimSpace(req.PropertyName), req.Location, req.PropertyType, req.Inputs.ToInputs())
		if err := d.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.deals.Save(r.Context(), d); err != nil {
			h.log.Error("deal save failed", zap.Error(err), zap.String("deal", d.ID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.log.Info("deal created", zap.String("deal", d.ID), zap.String("property", d.PropertyName))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(d)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id query parameter required", http.StatusBadRequest)
			return
		}
		if err := h.deals.Delete(r.Context(), id); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err := h.cache.Invalidate(r.Context(), id); err != nil {
			h.log.Warn("analysis cache invalidation failed", zap.Error(err), zap.String("deal", id))
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// UpdateRequest replaces a deal's baseline. The cached analysis is
// invalidated because it no longer reflects the inputs.
type UpdateRequest struct {
	ID     string                       `json:"id"`
	Inputs calculator.DealInputsRequest `json:"inputs"`
}

// HandleUpdate replaces a deal's financial baseline.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d, err := h.deals.Get(r.Context(), req.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	d.Inputs = req.Inputs.ToInputs()
	if err := d.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.deals.Save(r.Context(), d); err != nil {
		h.log.Error("deal update failed", zap.Error(err), zap.String("deal", d.ID))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.cache.Invalidate(r.Context(), d.ID); err != nil {
		h.log.Warn("analysis cache invalidation failed", zap.Error(err), zap.String("deal", d.ID))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

// StatusRequest moves a deal through the funnel.
type StatusRequest struct {
	ID     string      `json:"id"`
	Status deal.Status `json:"status"`
}

// HandleStatus updates a deal's pipeline status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Status {
	case deal.StatusAnalyzing, deal.StatusPending, deal.StatusCompleted, deal.StatusArchived:
	default:
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	if err := h.deals.UpdateStatus(r.Context(), req.ID, req.Status); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AnalyzeRequest runs the stored baseline through the scenario grid.
type AnalyzeRequest struct {
	DealID  string `json:"deal_id"`
	Refresh bool   `json:"refresh,omitempty"`
}

// HandleAnalyze runs (or serves the cached) scenario comparison for a
// stored deal.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !req.Refresh {
		if cached, err := h.cache.Get(r.Context(), req.DealID); err == nil && cached != nil {
			h.log.Info("analysis served from cache", zap.String("deal", req.DealID))
			respondResults(w, cached)
			return
		}
	}

	d, err := h.deals.Get(r.Context(), req.DealID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	results, err := finance.RunScenarios(d.Inputs, nil)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("deal analysis failed", zap.Error(err), zap.String("deal", d.ID))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.cache.Save(r.Context(), d.ID, results); err != nil {
		h.log.Warn("analysis cache save failed", zap.Error(err), zap.String("deal", d.ID))
	}
	h.log.Info("deal analyzed", zap.String("deal", d.ID), zap.Int("scenarios", len(results)))
	respondResults(w, results)
}

func respondResults(w http.ResponseWriter, results []finance.ScenarioResult) {
	resp := calculator.ScenariosResponse{Results: make([]calculator.ScenarioOutcome, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, calculator.ScenarioOutcome{
			Scenario:       res.Scenario,
			Metrics:        calculator.RenderMetrics(res.Metrics),
			ScheduleMonths: len(res.Schedule),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RentRollRequest replaces a deal's rent roll.
type RentRollRequest struct {
	DealID  string               `json:"deal_id"`
	Entries []deal.RentRollEntry `json:"entries"`
}

// HandleRentRoll serves the rent roll tracker: GET returns the roll and
// its summary, POST replaces the roll.
func (h *Handler) HandleRentRoll(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		dealID := r.URL.Query().Get("deal_id")
		if dealID == "" {
			http.Error(w, "deal_id query parameter required", http.StatusBadRequest)
			return
		}
		entries, err := h.rentRoll.List(r.Context(), dealID)
		if err != nil {
			h.log.Error("rent roll list failed", zap.Error(err), zap.String("deal", dealID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entries": entries,
			"summary": deal.SummarizeRentRoll(entries),
		})

	case http.MethodPost:
		var req RentRollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.DealID == "" {
			http.Error(w, "deal_id required", http.StatusBadRequest)
			return
		}
		for i := range req.Entries {
			if req.Entries[i].ID == "" {
				req.Entries[i].ID = uuid.NewString()
			}
			req.Entries[i].DealID = req.DealID
		}
		if err := h.rentRoll.Replace(r.Context(), req.DealID, req.Entries); err != nil {
			h.log.Error("rent roll replace failed", zap.Error(err), zap.String("deal", req.DealID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(deal.SummarizeRentRoll(req.Entries))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ExpenseRequest logs one expense against a deal.
type ExpenseRequest struct {
	DealID string            `json:"deal_id"`
	Entry  deal.ExpenseEntry `json:"entry"`
}

// HandleExpenses serves the expense log: GET lists entries with the
// category breakdown (?format=csv downloads the log), POST appends.
func (h *Handler) HandleExpenses(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		dealID := r.URL.Query().Get("deal_id")
		if dealID == "" {
			http.Error(w, "deal_id query parameter required", http.StatusBadRequest)
			return
		}
		entries, err := h.expenses.List(r.Context(), dealID)
		if err != nil {
			h.log.Error("expense list failed", zap.Error(err), zap.String("deal", dealID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="expense_log.csv"`)
			if err := export.NewCSVExporter(w).WriteExpenses(entries); err != nil {
				h.log.Error("expense csv export failed", zap.Error(err))
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entries":   entries,
			"breakdown": deal.SummarizeExpenses(entries),
		})

	case http.MethodPost:
		var req ExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		entry := req.Entry
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.DealID = req.DealID
		if err := entry.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.expenses.Add(r.Context(), &entry); err != nil {
			h.log.Error("expense save failed", zap.Error(err), zap.String("deal", req.DealID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entry)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
