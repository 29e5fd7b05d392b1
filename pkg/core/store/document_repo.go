package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deal_evaluation/pkg/core/document"
)

// DocumentRepo stores registered documents and their review outcomes.
// Findings are kept as JSONB alongside the document row.
type DocumentRepo struct {
	pool *pgxpool.Pool
}

// NewDocumentRepo creates a document repository.
func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

// Save upserts a document row.
func (r *DocumentRepo) Save(ctx context.Context, d *document.Document) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	query := `
		INSERT INTO documents (id, deal_id, name, doc_type, size_bytes, uploaded_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			doc_type = EXCLUDED.doc_type,
			size_bytes = EXCLUDED.size_bytes,
			status = EXCLUDED.status;
	`
	_, err := r.pool.Exec(ctx, query, d.ID, d.DealID, d.Name, d.Type, d.SizeBytes, d.UploadedAt, d.Status)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Get loads one document.
func (r *DocumentRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, deal_id, name, doc_type, size_bytes, uploaded_at, status
		FROM documents WHERE id = $1
	`
	var d document.Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.DealID, &d.Name, &d.Type, &d.SizeBytes, &d.UploadedAt, &d.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("document not found: %s", id)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return &d, nil
}

// List returns documents, optionally filtered by deal, newest first.
func (r *DocumentRepo) List(ctx context.Context, dealID string) ([]*document.Document, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, deal_id, name, doc_type, size_bytes, uploaded_at, status
		FROM documents
		WHERE ($1 = '' OR deal_id = $1)
		ORDER BY uploaded_at DESC
	`

	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		var d document.Document
		if err := rows.Scan(&d.ID, &d.DealID, &d.Name, &d.Type, &d.SizeBytes, &d.UploadedAt, &d.Status); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// UpdateStatus records a review lifecycle transition.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id string, status document.ReviewStatus) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	tag, err := r.pool.Exec(ctx, `UPDATE documents SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

// SaveReview stores the outcome of a review run, one row per document.
func (r *DocumentRepo) SaveReview(ctx context.Context, rev *document.Review) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	findingsJSON, err := json.Marshal(rev.Findings)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}

	query := `
		INSERT INTO document_reviews (document_id, findings, reviewed_at, llm_provider)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id)
		DO UPDATE SET
			findings = EXCLUDED.findings,
			reviewed_at = EXCLUDED.reviewed_at,
			llm_provider = EXCLUDED.llm_provider;
	`
	_, err = r.pool.Exec(ctx, query, rev.DocumentID, findingsJSON, rev.ReviewedAt, rev.Provider)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// GetReview loads the latest review for a document, nil when none ran.
func (r *DocumentRepo) GetReview(ctx context.Context, documentID string) (*document.Review, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT document_id, findings, reviewed_at, llm_provider
		FROM document_reviews WHERE document_id = $1
	`
	var rev document.Review
	var findingsJSON []byte
	err := r.pool.QueryRow(ctx, query, documentID).Scan(
		&rev.DocumentID, &findingsJSON, &rev.ReviewedAt, &rev.Provider)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	if len(findingsJSON) > 0 {
		if err := json.Unmarshal(findingsJSON, &rev.Findings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal findings: %w", err)
		}
	}
	return &rev, nil
}
