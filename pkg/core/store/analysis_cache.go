package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"deal_evaluation/pkg/core/finance"
)

// AnalysisCache stores computed scenario runs per deal.
// Hybrid vault: DB when a pool is configured, file system otherwise,
// so local runs work without Postgres.
type AnalysisCache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewAnalysisCache creates a cache. With a nil pool and empty dir it
// defaults to a local .cache directory.
func NewAnalysisCache(pool *pgxpool.Pool, dir string) *AnalysisCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "analysis")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check AnalysisCache dir: %v\n", err)
		}
	}
	return &AnalysisCache{pool: pool, fileDir: dir}
}

// analysisEntry is the file cache wrapper.
type analysisEntry struct {
	DealID     string                   `json:"deal_id"`
	Results    []finance.ScenarioResult `json:"results"`
	ComputedAt time.Time                `json:"computed_at"`
}

// Get returns the cached scenario run for a deal, nil on a miss.
func (c *AnalysisCache) Get(ctx context.Context, dealID string) ([]finance.ScenarioResult, error) {
	if c.pool != nil {
		query := `
			SELECT results FROM scenario_runs
			WHERE deal_id = $1
			ORDER BY computed_at DESC
			LIMIT 1
		`
		var resultsJSON []byte
		if err := c.pool.QueryRow(ctx, query, dealID).Scan(&resultsJSON); err != nil {
			return nil, nil // cache miss
		}
		var results []finance.ScenarioResult
		if err := json.Unmarshal(resultsJSON, &results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached scenario run: %w", err)
		}
		return results, nil
	}

	if c.fileDir != "" {
		data, err := os.ReadFile(c.dealPath(dealID))
		if err != nil {
			return nil, nil // not found
		}
		var entry analysisEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal file cached scenario run: %w", err)
		}
		return entry.Results, nil
	}

	return nil, nil
}

// Save stores a scenario run for a deal, replacing any previous run.
func (c *AnalysisCache) Save(ctx context.Context, dealID string, results []finance.ScenarioResult) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario run: %w", err)
	}

	if c.pool != nil {
		query := `
			INSERT INTO scenario_runs (deal_id, results, computed_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (deal_id)
			DO UPDATE SET
				results = EXCLUDED.results,
				computed_at = NOW();
		`
		if _, err := c.pool.Exec(ctx, query, dealID, resultsJSON); err != nil {
			return fmt.Errorf("failed to save scenario run to db cache: %w", err)
		}
	}

	if c.fileDir != "" {
		entry := analysisEntry{
			DealID:     dealID,
			Results:    results,
			ComputedAt: time.Now().UTC(),
		}
		fileBytes, _ := json.MarshalIndent(entry, "", "  ")
		if err := os.WriteFile(c.dealPath(dealID), fileBytes, 0644); err != nil {
			return fmt.Errorf("failed to save scenario run to file cache: %w", err)
		}
	}

	return nil
}

// Invalidate drops the cached run after a deal's baseline changes.
func (c *AnalysisCache) Invalidate(ctx context.Context, dealID string) error {
	if c.pool != nil {
		if _, err := c.pool.Exec(ctx, `DELETE FROM scenario_runs WHERE deal_id = $1`, dealID); err != nil {
			return fmt.Errorf("failed to invalidate db cache: %w", err)
		}
	}
	if c.fileDir != "" {
		if err := os.Remove(c.dealPath(dealID)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to invalidate file cache: %w", err)
		}
	}
	return nil
}

func (c *AnalysisCache) dealPath(dealID string) string {
	return filepath.Join(c.fileDir, dealID+".json")
}
