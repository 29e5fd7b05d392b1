// Package documents exposes the document center endpoints: the library
// and the AI contract review.
package documents

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"deal_evaluation/pkg/core/document"
)

// Store is the persistence the document center depends on, satisfied
// by store.DocumentRepo.
type Store interface {
	Save(ctx context.Context, d *document.Document) error
	Get(ctx context.Context, id string) (*document.Document, error)
	List(ctx context.Context, dealID string) ([]*document.Document, error)
	UpdateStatus(ctx context.Context, id string, status document.ReviewStatus) error
	SaveReview(ctx context.Context, rev *document.Review) error
	GetReview(ctx context.Context, documentID string) (*document.Review, error)
}

// Handler holds dependencies for document endpoints.
type Handler struct {
	docs     Store
	reviewer *document.Reviewer
	log      *zap.Logger
}

// NewHandler creates a documents handler.
func NewHandler(docs Store, reviewer *document.Reviewer, log *zap.Logger) *Handler {
	return &Handler{docs: docs, reviewer: reviewer, log: log}
}

// RegisterRequest adds a document to the library pending review.
type RegisterRequest struct {
	DealID    string        `json:"deal_id"`
	Name      string        `json:"name"`
	Type      document.Type `json:"type"`
	SizeBytes int64         `json:"size_bytes"`
}

// HandleDocuments serves the library: GET lists (?deal_id= filters),
// POST registers a new document.
func (h *Handler) HandleDocuments(w http.ResponseWriter, r *http.Request) {
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
		docs, err := h.docs.List(r.Context(), r.URL.Query().Get("deal_id"))
		if err != nil {
			h.log.Error("document list failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(docs)

	case http.MethodPost:
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "document name required", http.StatusBadRequest)
			return
		}
		switch req.Type {
		case document.TypeContract, document.TypeLOI, document.TypePartnership, document.TypeReport:
		default:
			http.Error(w, "unknown document type", http.StatusBadRequest)
			return
		}

		doc := document.New(req.DealID, req.Name, req.Type, req.SizeBytes)
		if err := h.docs.Save(r.Context(), doc); err != nil {
			h.log.Error("document save failed", zap.Error(err), zap.String("document", doc.ID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.log.Info("document registered",
			zap.String("document", doc.ID), zap.String("name", doc.Name))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(doc)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ReviewRequest runs the AI review over a document's text.
type ReviewRequest struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
}

// HandleReview runs the review (POST) or returns a stored one
// (GET ?document_id=).
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
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
		docID := r.URL.Query().Get("document_id")
		if docID == "" {
			http.Error(w, "document_id query parameter required", http.StatusBadRequest)
			return
		}
		rev, err := h.docs.GetReview(r.Context(), docID)
		if err != nil {
			h.log.Error("review load failed", zap.Error(err), zap.String("document", docID))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if rev == nil {
			http.Error(w, "no review for document", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rev)

	case http.MethodPost:
		if h.reviewer == nil {
			http.Error(w, "document review is not configured", http.StatusServiceUnavailable)
			return
		}
		var req ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Content == "" {
			http.Error(w, "document content required", http.StatusBadRequest)
			return
		}

		doc, err := h.docs.Get(r.Context(), req.DocumentID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		if err := h.docs.UpdateStatus(r.Context(), doc.ID, document.ReviewProcessing); err != nil {
			h.log.Warn("status transition failed", zap.Error(err), zap.String("document", doc.ID))
		}

		// The model round-trip runs in the background; clients poll the
		// GET side of this endpoint until the status settles.
		go h.runReview(doc, req.Content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"document_id": doc.ID,
			"status":      document.ReviewProcessing,
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// runReview drives one review to completion. It uses its own context:
// the request that kicked it off has already been answered.
func (h *Handler) runReview(doc *document.Document, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	rev, err := h.reviewer.Review(ctx, doc, content)
	if err != nil {
		h.log.Error("review failed", zap.Error(err), zap.String("document", doc.ID))
		if err := h.docs.UpdateStatus(ctx, doc.ID, document.ReviewFailed); err != nil {
			h.log.Warn("status transition failed", zap.Error(err), zap.String("document", doc.ID))
		}
		return
	}

	if err := h.docs.SaveReview(ctx, rev); err != nil {
		h.log.Error("review save failed", zap.Error(err), zap.String("document", doc.ID))
		if err := h.docs.UpdateStatus(ctx, doc.ID, document.ReviewFailed); err != nil {
			h.log.Warn("status transition failed", zap.Error(err), zap.String("document", doc.ID))
		}
		return
	}

	status := document.StatusFor(rev)
	if err := h.docs.UpdateStatus(ctx, doc.ID, status); err != nil {
		h.log.Warn("status transition failed", zap.Error(err), zap.String("document", doc.ID))
	}
	h.log.Info("document reviewed",
		zap.String("document", doc.ID),
		zap.String("status", string(status)),
		zap.Int("findings", len(rev.Findings)))
}

// HandleReport renders the review as an HTML report (?document_id=).
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	docID := r.URL.Query().Get("document_id")
	if docID == "" {
		http.Error(w, "document_id query parameter required", http.StatusBadRequest)
		return
	}

	doc, err := h.docs.Get(r.Context(), docID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	rev, err := h.docs.GetReview(r.Context(), docID)
	if err != nil {
		h.log.Error("review load failed", zap.Error(err), zap.String("document", docID))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rev == nil {
		http.Error(w, "no review for document", http.StatusNotFound)
		return
	}

	html, err := document.ReportHTML(doc, rev)
	if err != nil {
		h.log.Error("report render failed", zap.Error(err), zap.String("document", docID))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
