package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"deal_evaluation/pkg/core/deal"
)

// RentRollRepo stores per-suite lease records.
type RentRollRepo struct {
	pool *pgxpool.Pool
}

// NewRentRollRepo creates a rent roll repository.
func NewRentRollRepo(pool *pgxpool.Pool) *RentRollRepo {
	return &RentRollRepo{pool: pool}
}

// Replace swaps the full rent roll for a deal. Suites are replaced as a
// unit so a partial upload never leaves a mixed roll behind.
func (r *RentRollRepo) Replace(ctx context.Context, dealID string, entries []deal.RentRollEntry) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rent roll transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rent_roll WHERE deal_id = $1`, dealID); err != nil {
		return fmt.Errorf("failed to clear rent roll: %w", err)
	}

	query := `
		INSERT INTO rent_roll (id, deal_id, suite, tenant, square_feet, rate_per_sf, monthly_rent, lease_start, lease_end, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, e := range entries {
		if _, err := tx.Exec(ctx, query,
			e.ID, dealID, e.Suite, e.Tenant, e.SquareFeet, e.RatePerSF,
			e.MonthlyRent, e.LeaseStart, e.LeaseEnd, e.Status); err != nil {
			return fmt.Errorf("failed to insert rent roll entry %s: %w", e.Suite, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rent roll: %w", err)
	}
	return nil
}

// List returns the rent roll for a deal ordered by suite.
func (r *RentRollRepo) List(ctx context.Context, dealID string) ([]deal.RentRollEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, deal_id, suite, tenant, square_feet, rate_per_sf, monthly_rent, lease_start, lease_end, status
		FROM rent_roll WHERE deal_id = $1 ORDER BY suite
	`

	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rent roll: %w", err)
	}
	defer rows.Close()

	var entries []deal.RentRollEntry
	for rows.Next() {
		var e deal.RentRollEntry
		if err := rows.Scan(&e.ID, &e.DealID, &e.Suite, &e.Tenant, &e.SquareFeet, &e.RatePerSF,
			&e.MonthlyRent, &e.LeaseStart, &e.LeaseEnd, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan rent roll row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
