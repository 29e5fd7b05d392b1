package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deal_evaluation/pkg/core/deal"
)

// DealRepo stores deals. The financial baseline lives in a JSONB column
// so input fields can evolve without migrations.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS deals (
//	  id TEXT PRIMARY KEY,
//	  property_name TEXT NOT NULL,
//	  location TEXT,
//	  property_type TEXT,
//	  status TEXT,
//	  inputs_json JSONB,
//	  created_at TIMESTAMPTZ,
//	  updated_at TIMESTAMPTZ
//	);
type DealRepo struct {
	pool *pgxpool.Pool
}

// NewDealRepo creates a repository over the pool.
func NewDealRepo(pool *pgxpool.Pool) *DealRepo {
	return &DealRepo{pool: pool}
}

// Save upserts a deal by ID.
func (r *DealRepo) Save(ctx context.Context, d *deal.Deal) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	inputsJSON, err := json.Marshal(d.Inputs)
	if err != nil {
		return fmt.Errorf("failed to marshal deal inputs: %w", err)
	}

	query := `
		INSERT INTO deals (id, property_name, location, property_type, status, inputs_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			property_name = EXCLUDED.property_name,
			location = EXCLUDED.location,
			property_type = EXCLUDED.property_type,
			status = EXCLUDED.status,
			inputs_json = EXCLUDED.inputs_json,
			updated_at = EXCLUDED.updated_at;
	`

	d.UpdatedAt = time.Now().UTC()
	_, err = r.pool.Exec(ctx, query,
		d.ID, d.PropertyName, d.Location, d.PropertyType, d.Status,
		inputsJSON, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save deal: %w", err)
	}
	return nil
}

// Get loads one deal by ID.
func (r *DealRepo) Get(ctx context.Context, id string) (*deal.Deal, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, property_name, location, property_type, status, inputs_json, created_at, updated_at
		FROM deals WHERE id = $1
	`

	var d deal.Deal
	var inputsJSON []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.PropertyName, &d.Location, &d.PropertyType, &d.Status,
		&inputsJSON, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("deal not found: %s", id)
		}
		return nil, fmt.Errorf("failed to load deal: %w", err)
	}

	if err := json.Unmarshal(inputsJSON, &d.Inputs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deal inputs: %w", err)
	}
	return &d, nil
}

// List returns all deals, newest first.
func (r *DealRepo) List(ctx context.Context) ([]*deal.Deal, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, property_name, location, property_type, status, inputs_json, created_at, updated_at
		FROM deals ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []*deal.Deal
	for rows.Next() {
		var d deal.Deal
		var inputsJSON []byte
		if err := rows.Scan(&d.ID, &d.PropertyName, &d.Location, &d.PropertyType, &d.Status,
			&inputsJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deal row: %w", err)
		}
		if err := json.Unmarshal(inputsJSON, &d.Inputs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deal inputs: %w", err)
		}
		deals = append(deals, &d)
	}
	return deals, rows.Err()
}

// Delete removes a deal.
func (r *DealRepo) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deal not found: %s", id)
	}
	return nil
}

// UpdateStatus moves a deal through the evaluation funnel.
func (r *DealRepo) UpdateStatus(ctx context.Context, id string, status deal.Status) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE deals SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update deal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deal not found: %s", id)
	}
	return nil
}
