package captain

import (
	"errors"
	"math"

	"github.com/spookygames/captain/board"
)

// ErrAssignmentInfeasible is returned when no destination set can be found
// that gives every mover a distinct hex (spec.md §4.5, "Assignment
// matcher").
var ErrAssignmentInfeasible = errors.New("captain: assignment infeasible")

// infeasibleCost stands in for an unusable (mover, hex) pairing inside the
// cost matrix. It is finite so the potential-based algorithm below stays
// well-defined; MatchMovers treats any assigned cell whose cost is at
// least infeasibleCost/2 as an infeasible outcome.
const infeasibleCost = 1e12

// solveAssignment finds a minimum-cost perfect assignment of rows to
// columns for a rectangular cost matrix with n <= m, using the classic
// shortest-augmenting-path formulation of the assignment problem (the
// Jonker-Volgenant / Kuhn-Munkres family). assignment[i] is the column
// assigned to row i. Hand-written: the pack carries no Hungarian/JV
// dependency, so this follows the tie-break-by-index discipline
// katalvlaran-lvlath's matching code uses rather than a borrowed library.
func solveAssignment(cost [][]float64) (assignment []int) {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])

	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1) // p[j] = 1-indexed row currently assigned to column j
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		used := make([]bool, m+1)
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := -1
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assignment = make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			assignment[p[j]-1] = j - 1
		}
	}
	return assignment
}

// MatchMovers assigns each entry of movers to a distinct hex drawn from
// its own candidates map, minimizing total cost, per spec.md §4.5: "the
// assignment matcher resolves which committed attacker gets which
// contested destination." It returns ErrAssignmentInfeasible if any mover
// would have to land on a hex outside its candidate set.
func MatchMovers(movers []board.Loc, candidates map[board.Loc]map[board.Loc]float64) (map[board.Loc]board.Loc, error) {
	if len(movers) == 0 {
		return nil, nil
	}
	hexSet := make(map[board.Loc]bool)
	for _, c := range candidates {
		for h := range c {
			hexSet[h] = true
		}
	}
	hexes := make([]board.Loc, 0, len(hexSet))
	for h := range hexSet {
		hexes = append(hexes, h)
	}
	sortLocsByIdx(hexes)
	if len(hexes) < len(movers) {
		return nil, ErrAssignmentInfeasible
	}

	cost := make([][]float64, len(movers))
	for i, a := range movers {
		row := make([]float64, len(hexes))
		for j, h := range hexes {
			if c, ok := candidates[a][h]; ok {
				row[j] = c
			} else {
				row[j] = infeasibleCost
			}
		}
		cost[i] = row
	}

	assignment := solveAssignment(cost)
	out := make(map[board.Loc]board.Loc, len(movers))
	for i, a := range movers {
		j := assignment[i]
		if j < 0 || j >= len(hexes) || cost[i][j] >= infeasibleCost/2 {
			return nil, ErrAssignmentInfeasible
		}
		out[a] = hexes[j]
	}
	return out, nil
}

func sortLocsByIdx(locs []board.Loc) {
	for i := 1; i < len(locs); i++ {
		for j := i; j > 0 && locs[j-1].Idx() > locs[j].Idx(); j-- {
			locs[j-1], locs[j] = locs[j], locs[j-1]
		}
	}
}
