// Package model holds the persisted record types for the planning
// service, mirroring the teacher's phase/order row shapes but scoped to
// one attack-phase computation instead of a full Diplomacy turn.
package model

import "time"

// PlanRecord is one row of the plan log: a request to plan side's attack
// phase on a given board, and the ordered action list the planner
// returned for it.
type PlanRecord struct {
	ID        string
	BoardHash string
	Side      string
	Actions   []string // wire-form Action.String() values, in order
	ComputeMS int64
	CreatedAt time.Time
	CacheHit  bool
}
