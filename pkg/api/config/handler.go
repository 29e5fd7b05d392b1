// Package config exposes the model provider configuration endpoints.
package config

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"deal_evaluation/pkg/core/agent"
)

// Handler holds dependencies for config endpoints.
type Handler struct {
	mgr *agent.Manager
	log *zap.Logger
}

// NewHandler creates a config handler.
func NewHandler(mgr *agent.Manager, log *zap.Logger) *Handler {
	return &Handler{mgr: mgr, log: log}
}

// ProvidersResponse reports the active model provider and the others
// the deployment can switch to.
type ProvidersResponse struct {
	ActiveProvider string   `json:"active_provider"`
	Available      []string `json:"available"`
}

// HandleConfig returns the provider configuration.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProvidersResponse{
		ActiveProvider: h.mgr.GetActiveProvider(),
		Available:      h.mgr.Providers(),
	})
}

// SwitchRequest changes the active provider for all agents.
type SwitchRequest struct {
	Provider string `json:"provider"`
}

// HandleSwitch moves every agent onto the requested provider.
func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.mgr.SetGlobalProvider(req.Provider); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.log.Info("provider switched", zap.String("provider", req.Provider))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProvidersResponse{
		ActiveProvider: h.mgr.GetActiveProvider(),
		Available:      h.mgr.Providers(),
	})
}
