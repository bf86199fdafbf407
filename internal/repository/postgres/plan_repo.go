package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spookygames/captain/internal/model"
)

// PlanRepo handles plan-log database operations (grounded on
// phase_repo.go's CRUD shape, scoped to one attack-phase computation
// instead of a full turn).
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo creates a PlanRepo.
func NewPlanRepo(db *sql.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

// SavePlan inserts a plan-log row.
func (r *PlanRepo) SavePlan(ctx context.Context, rec *model.PlanRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO plans (id, board_hash, side, actions, compute_ms, cache_hit)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.BoardHash, rec.Side, strings.Join(rec.Actions, ";"), rec.ComputeMS, rec.CacheHit,
	)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// PlanByID returns a single plan-log row.
func (r *PlanRepo) PlanByID(ctx context.Context, id string) (*model.PlanRecord, error) {
	var rec model.PlanRecord
	var actions string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, board_hash, side, actions, compute_ms, cache_hit, created_at
		 FROM plans WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.BoardHash, &rec.Side, &actions, &rec.ComputeMS, &rec.CacheHit, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("plan by id: %w", err)
	}
	rec.Actions = splitActions(actions)
	return &rec, nil
}

// RecentPlans returns the most recent plan-log rows for side, newest
// first.
func (r *PlanRepo) RecentPlans(ctx context.Context, side string, limit int) ([]model.PlanRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, board_hash, side, actions, compute_ms, cache_hit, created_at
		 FROM plans WHERE side = $1 ORDER BY created_at DESC LIMIT $2`, side, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent plans: %w", err)
	}
	defer rows.Close()

	var out []model.PlanRecord
	for rows.Next() {
		var rec model.PlanRecord
		var actions string
		if err := rows.Scan(&rec.ID, &rec.BoardHash, &rec.Side, &actions, &rec.ComputeMS, &rec.CacheHit, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		rec.Actions = splitActions(actions)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func splitActions(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ";")
}
