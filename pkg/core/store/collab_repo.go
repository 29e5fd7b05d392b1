package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"deal_evaluation/pkg/core/collab"
)

// CollabRepo stores partner invitations and per-deal message threads.
type CollabRepo struct {
	pool *pgxpool.Pool
}

// NewCollabRepo creates a collaboration repository.
func NewCollabRepo(pool *pgxpool.Pool) *CollabRepo {
	return &CollabRepo{pool: pool}
}

// SaveInvitation upserts an invitation. Deal grants are stored as a
// text array so revoking access is a single row update.
func (r *CollabRepo) SaveInvitation(ctx context.Context, inv *collab.Invitation) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	query := `
		INSERT INTO invitations (id, email, role, deal_ids, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			role = EXCLUDED.role,
			deal_ids = EXCLUDED.deal_ids,
			status = EXCLUDED.status;
	`
	_, err := r.pool.Exec(ctx, query, inv.ID, inv.Email, inv.Role, inv.DealIDs, inv.Status, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save invitation: %w", err)
	}
	return nil
}

// ListInvitations returns all invitations, newest first.
func (r *CollabRepo) ListInvitations(ctx context.Context) ([]*collab.Invitation, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, email, role, deal_ids, status, created_at
		FROM invitations ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invs []*collab.Invitation
	for rows.Next() {
		var inv collab.Invitation
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Role, &inv.DealIDs, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation row: %w", err)
		}
		invs = append(invs, &inv)
	}
	return invs, rows.Err()
}

// SharedDealIDs returns the deals a partner email can see.
func (r *CollabRepo) SharedDealIDs(ctx context.Context, email string) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT deal_ids FROM invitations
		WHERE email = $1 AND status IN ('pending', 'accepted')
	`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared deals: %w", err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	var ids []string
	for rows.Next() {
		var grant []string
		if err := rows.Scan(&grant); err != nil {
			return nil, fmt.Errorf("failed to scan deal grants: %w", err)
		}
		for _, id := range grant {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, rows.Err()
}

// SaveMessage appends a message to a deal's thread.
func (r *CollabRepo) SaveMessage(ctx context.Context, msg *collab.Message) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	query := `
		INSERT INTO messages (id, deal_id, sender, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, msg.ID, msg.DealID, msg.Sender, msg.Body, msg.SentAt)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// ListMessages returns a deal's thread, newest message first.
func (r *CollabRepo) ListMessages(ctx context.Context, dealID string) ([]*collab.Message, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT id, deal_id, sender, body, sent_at
		FROM messages WHERE deal_id = $1 ORDER BY sent_at DESC
	`
	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []*collab.Message
	for rows.Next() {
		var m collab.Message
		if err := rows.Scan(&m.ID, &m.DealID, &m.Sender, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
