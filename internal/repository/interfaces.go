package repository

import (
	"context"

	"github.com/spookygames/captain/internal/model"
)

// PlanRepository defines durable plan-log data operations (spec.md's
// planning service ambient stack, grounded on the teacher's
// PhaseRepository shape).
type PlanRepository interface {
	SavePlan(ctx context.Context, rec *model.PlanRecord) error
	PlanByID(ctx context.Context, id string) (*model.PlanRecord, error)
	RecentPlans(ctx context.Context, side string, limit int) ([]model.PlanRecord, error)
}

// PlanCache defines the live plan-result cache (Redis), keyed by a hash of
// the board+side the plan was computed for.
type PlanCache interface {
	SetPlan(ctx context.Context, boardHash string, actions []string) error
	GetPlan(ctx context.Context, boardHash string) ([]string, bool, error)
	InvalidatePlan(ctx context.Context, boardHash string) error
}
