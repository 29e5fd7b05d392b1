package documents_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"deal_evaluation/pkg/api/documents"
	"deal_evaluation/pkg/core/document"
	"deal_evaluation/pkg/core/logger"
)

// memStore keeps documents and reviews in maps.
type memStore struct {
	mu      sync.Mutex
	docs    map[string]*document.Document
	reviews map[string]*document.Review
}

func newMemStore() *memStore {
	return &memStore{
		docs:    map[string]*document.Document{},
		reviews: map[string]*document.Review{},
	}
}

func (s *memStore) Save(_ context.Context, d *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[d.ID] = d
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, fmt.Errorf("document not found: %s", id)
}

func (s *memStore) List(_ context.Context, dealID string) ([]*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*document.Document
	for _, d := range s.docs {
		if dealID == "" || d.DealID == dealID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, status document.ReviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("document not found: %s", id)
	}
	d.Status = status
	return nil
}

func (s *memStore) SaveReview(_ context.Context, rev *document.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[rev.DocumentID] = rev
	return nil
}

func (s *memStore) GetReview(_ context.Context, documentID string) (*document.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviews[documentID], nil
}

func (s *memStore) status(id string) document.ReviewStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id].Status
}

// cannedGenerator returns a fixed model reply.
type cannedGenerator struct {
	reply string
	err   error
}

func (g *cannedGenerator) Name() string { return "canned" }

func (g *cannedGenerator) Generate(context.Context, string, string) (string, error) {
	return g.reply, g.err
}

func waitForSettled(t *testing.T, s *memStore, id string) document.ReviewStatus {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := s.status(id); st != document.ReviewProcessing {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("review never left processing")
	return ""
}

func TestHandleReview_AsyncLifecycle(t *testing.T) {
	s := newMemStore()
	gen := &cannedGenerator{reply: `{"findings": [{"severity": "ok", "title": "Disclosures Present", "detail": "All statements found."}]}`}
	h := documents.NewHandler(s, document.NewReviewer(gen), logger.Nop())

	doc := document.New("deal-1", "Purchase Agreement.pdf", document.TypeContract, 2400000)
	s.Save(context.Background(), doc)

	body := fmt.Sprintf(`{"document_id": %q, "content": "contract text"}`, doc.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleReview(rec, req)

	// The POST answers immediately with the processing state.
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DocumentID string                `json:"document_id"`
		Status     document.ReviewStatus `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if resp.Status != document.ReviewProcessing {
		t.Errorf("expected processing, got %s", resp.Status)
	}

	if st := waitForSettled(t, s, doc.ID); st != document.ReviewDone {
		t.Errorf("ok-only review should settle on reviewed, got %s", st)
	}

	// The stored review is now pollable.
	getReq := httptest.NewRequest(http.MethodGet, "/api/documents/review?document_id="+doc.ID, nil)
	getRec := httptest.NewRecorder()
	h.HandleReview(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on poll, got %d", getRec.Code)
	}
	var rev document.Review
	if err := json.Unmarshal(getRec.Body.Bytes(), &rev); err != nil {
		t.Fatalf("review not valid JSON: %v", err)
	}
	if len(rev.Findings) != 1 {
		t.Errorf("expected 1 finding, got %d", len(rev.Findings))
	}
}

func TestHandleReview_IssuesFound(t *testing.T) {
	s := newMemStore()
	gen := &cannedGenerator{reply: `{"findings": [{"severity": "high", "title": "Uncapped Indemnity", "detail": "Not limited to purchase price."}]}`}
	h := documents.NewHandler(s, document.NewReviewer(gen), logger.Nop())

	doc := document.New("deal-1", "LOI.pdf", document.TypeLOI, 100)
	s.Save(context.Background(), doc)

	body := fmt.Sprintf(`{"document_id": %q, "content": "loi text"}`, doc.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleReview(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if st := waitForSettled(t, s, doc.ID); st != document.ReviewIssues {
		t.Errorf("high finding should settle on issues_found, got %s", st)
	}
}

func TestHandleReview_FailureMarksDocument(t *testing.T) {
	s := newMemStore()
	gen := &cannedGenerator{err: fmt.Errorf("model unavailable")}
	h := documents.NewHandler(s, document.NewReviewer(gen), logger.Nop())

	doc := document.New("deal-1", "LOI.pdf", document.TypeLOI, 100)
	s.Save(context.Background(), doc)

	body := fmt.Sprintf(`{"document_id": %q, "content": "loi text"}`, doc.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleReview(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if st := waitForSettled(t, s, doc.ID); st != document.ReviewFailed {
		t.Errorf("generation error should settle on failed, got %s", st)
	}

	// No review row was written, so polling reports none.
	getReq := httptest.NewRequest(http.MethodGet, "/api/documents/review?document_id="+doc.ID, nil)
	getRec := httptest.NewRecorder()
	h.HandleReview(getRec, getReq)
	if getRec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing review, got %d", getRec.Code)
	}
}
