// Package collab exposes the partner collaboration endpoints.
package collab

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"deal_evaluation/pkg/core/collab"
	"deal_evaluation/pkg/core/finance"
	"deal_evaluation/pkg/core/store"
)

// Handler holds dependencies for collaboration endpoints.
type Handler struct {
	repo *store.CollabRepo
	log  *zap.Logger
}

// NewHandler creates a collaboration handler.
func NewHandler(repo *store.CollabRepo, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// InviteRequest grants a partner access to deals.
type InviteRequest struct {
	Email   string      `json:"email"`
	Role    collab.Role `json:"role"`
	DealIDs []string    `json:"deal_ids"`
}

// HandleInvite creates an invitation (POST) or lists them (GET).
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
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
		invs, err := h.repo.ListInvitations(r.Context())
		if err != nil {
			h.log.Error("invitation list failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(invs)

	case http.MethodPost:
		var req InviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		inv, err := collab.NewInvitation(req.Email, req.Role, req.DealIDs)
		if err != nil {
			if errors.Is(err, finance.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := h.repo.SaveInvitation(r.Context(), inv); err != nil {
			h.log.Error("invitation save failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.log.Info("partner invited",
			zap.String("email", inv.Email),
			zap.String("role", string(inv.Role)),
			zap.Int("deals", len(inv.DealIDs)))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(inv)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// MessageRequest posts to a deal's thread.
type MessageRequest struct {
	DealID string `json:"deal_id"`
	Sender string `json:"sender"`
	Body   string `json:"body"`
}

// HandleMessages reads a thread (GET ?deal_id=) or appends to it (POST).
func (h *Handler) HandleMessages(w http.ResponseWriter, r *http.Request) {
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
		msgs, err := h.repo.ListMessages(r.Context(), dealID)
		if err != nil {
			h.log.Error("message list failed", zap.Error(err), zap.String("deal", dealID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		collab.SortNewestFirst(msgs)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(msgs)

	case http.MethodPost:
		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		msg, err := collab.NewMessage(req.DealID, req.Sender, req.Body)
		if err != nil {
			if errors.Is(err, finance.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := h.repo.SaveMessage(r.Context(), msg); err != nil {
			h.log.Error("message save failed", zap.Error(err), zap.String("deal", req.DealID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(msg)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSharedDeals lists the deal IDs a partner email can access.
func (h *Handler) HandleSharedDeals(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter required", http.StatusBadRequest)
		return
	}

	ids, err := h.repo.SharedDealIDs(r.Context(), email)
	if err != nil {
		h.log.Error("shared deals lookup failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"email":    email,
		"deal_ids": ids,
	})
}
