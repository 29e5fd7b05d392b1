// Package document implements the document center: the registry of
// deal documents and the AI contract review pipeline.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies an uploaded document.
type Type string

const (
	TypeContract    Type = "contract"
	TypeLOI         Type = "loi"
	TypePartnership Type = "partnership"
	TypeReport      Type = "report"
)

// ReviewStatus tracks the AI review lifecycle.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending"
	ReviewProcessing ReviewStatus = "processing"
	ReviewDone       ReviewStatus = "reviewed"
	ReviewIssues     ReviewStatus = "issues_found"
	ReviewFailed     ReviewStatus = "failed"
)

// Document is one entry in the library.
type Document struct {
	ID         string       `json:"id"`
	DealID     string       `json:"deal_id"`
	Name       string       `json:"name"`
	Type       Type         `json:"type"`
	SizeBytes  int64        `json:"size_bytes"`
	UploadedAt time.Time    `json:"uploaded_at"`
	Status     ReviewStatus `json:"status"`
}

// New registers a document pending review.
func New(dealID, name string, docType Type, size int64) *Document {
	return &Document{
		ID:         uuid.NewString(),
		DealID:     dealID,
		Name:       name,
		Type:       docType,
		SizeBytes:  size,
		UploadedAt: time.Now().UTC(),
		Status:     ReviewPending,
	}
}

// Severity grades a review finding.
type Severity string

const (
	SeverityHigh    Severity = "high"
	SeverityWarning Severity = "warning"
	SeverityOK      Severity = "ok"
)

// Finding is one observation from the contract review.
type Finding struct {
	Severity  Severity `json:"severity"`
	Title     string   `json:"title"`
	Detail    string   `json:"detail"`
	ClauseRef string   `json:"clause_ref,omitempty"`
}

// Review is the stored outcome of one review run.
type Review struct {
	DocumentID string    `json:"document_id"`
	Findings   []Finding `json:"findings"`
	ReviewedAt time.Time `json:"reviewed_at"`
	Provider   string    `json:"provider"`
}

// HasIssues reports whether any finding needs attention.
func (r *Review) HasIssues() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityHigh || f.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
