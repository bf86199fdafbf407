// Package captain implements the attack-phase tactical planner: given a
// read-only board snapshot and the side to move, it synthesizes an ordered
// list of move/attack/blink actions that respects movement, range,
// lumbering, blink, unsummon, deathtouch, and persistence rules, resolving
// positional conflicts between a side's own units along the way.
package captain

import (
	"context"

	"github.com/spookygames/captain/board"
)

// Plan computes the attack-phase action list for side to move on b. b is
// read-only; Plan never mutates it. Scorer is optional — pass nil for the
// pure heuristic death prophet.
//
// Plan returns ErrInvalidInput if side has no pieces on b, ErrNoPlan if
// the generator could not converge on a static-constraint-satisfying
// assignment within its backtracking budget, and ErrModelExtractionFailed
// if a converged assignment unexpectedly fails its own static checks.
func Plan(ctx context.Context, b *board.Board, side board.Side, scorer CostModel) ([]Action, error) {
	gen := &Generator{Scorer: scorer}
	return gen.Generate(ctx, b, side)
}
