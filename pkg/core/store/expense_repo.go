package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"deal_evaluation/pkg/core/deal"
)

// ExpenseRepo stores operating expense log entries.
type ExpenseRepo struct {
	pool *pgxpool.Pool
}

// NewExpenseRepo creates an expense repository.
func NewExpenseRepo(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

// Add appends one expense entry.
func (r *ExpenseRepo) Add(ctx context.Context, e *deal.ExpenseEntry) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if err := e.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO expenses (id, deal_id, date, category, amount, description, vendor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			date = EXCLUDED.date,
			category = EXCLUDED.category,
			amount = EXCLUDED.amount,
			description = EXCLUDED.description,
			vendor = EXCLUDED.vendor;
	`
	_, err := r.pool.Exec(ctx, query, e.ID, e.DealID, e.Date, e.Category, e.Amount, e.Description, e.Vendor)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

// List returns a deal's expenses, most recent first.
func (r *ExpenseRepo) List(ctx context.Context, dealID string) ([]deal.ExpenseEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, deal_id, date, category, amount, description, vendor
		FROM expenses WHERE deal_id = $1 ORDER BY date DESC
	`

	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var entries []deal.ExpenseEntry
	for rows.Next() {
		var e deal.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.DealID, &e.Date, &e.Category, &e.Amount, &e.Description, &e.Vendor); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
