package captain

import "github.com/spookygames/captain/board"

// timeEdge records that the event at from must be ordered no later than
// the event at to ("from happens no later than to").
type timeEdge struct{ from, to board.Loc }

// buildTimingGraph derives the happens-before edges implied by the
// committed assignment (spec.md §4.3's attack_time/removal_time ordering):
// an attack causes its target's removal no earlier than the attack itself,
// and a move along a path that depends on a defender's prior removal may
// not happen before that removal completes. requiredPaths maps an attacker
// that moved to the defenders its chosen path's removal conjunction names
// (supplied by the generator after it commits to one DNF disjunct).
func buildTimingGraph(vs *VarStore, requiredPaths map[board.Loc][]board.Loc) []timeEdge {
	var edges []timeEdge
	for key, pv := range vs.Pairs {
		if pv.Attacked {
			edges = append(edges, timeEdge{key.Attacker, key.Defender})
		}
	}
	for a, reqs := range requiredPaths {
		for _, d := range reqs {
			edges = append(edges, timeEdge{d, a})
		}
	}
	return edges
}

// topoOrderKahn computes a dependency-first ordering of nodes given edges
// (from before to), in the style of a standard Kahn's-algorithm
// topological sort. If a cycle exists, ok is false and cycle holds the
// nodes that could not be ordered — the candidates for unsat-core blame,
// mirroring how a DFS-based cycle finder (e.g. lvlath's dfs cycle
// detector) reports the back-edge's participants rather than the whole
// graph.
func topoOrderKahn(nodes []board.Loc, edges []timeEdge) (order []board.Loc, cycle []board.Loc, ok bool) {
	indeg := make(map[board.Loc]int, len(nodes))
	adj := make(map[board.Loc][]board.Loc, len(nodes))
	present := make(map[board.Loc]bool, len(nodes))
	for _, n := range nodes {
		indeg[n] = 0
		present[n] = true
	}
	for _, e := range edges {
		if !present[e.from] || !present[e.to] {
			continue
		}
		adj[e.from] = append(adj[e.from], e.to)
		indeg[e.to]++
	}

	var queue []board.Loc
	for _, n := range nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	seen := make(map[board.Loc]bool, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		seen[n] = true
		order = append(order, n)
		for _, m := range adj[n] {
			indeg[m]--
			if indeg[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	if len(order) == len(nodes) {
		return order, nil, true
	}
	for _, n := range nodes {
		if !seen[n] {
			cycle = append(cycle, n)
		}
	}
	return order, cycle, false
}

// assignTimes walks a dependency-first order and assigns each node the
// smallest tick strictly greater than every predecessor it depends on,
// clamped to MaxTime (spec.md §4.3's 4-bit tick range). Attack times land
// on AttackerVars.AttackTime, removal times on DefenderVars.RemovalTime.
func assignTimes(vs *VarStore, order []board.Loc, edges []timeEdge) {
	preds := make(map[board.Loc][]board.Loc, len(order))
	for _, e := range edges {
		preds[e.to] = append(preds[e.to], e.from)
	}
	time := make(map[board.Loc]int, len(order))
	for _, n := range order {
		t := 0
		for _, p := range preds[n] {
			if pt := time[p] + 1; pt > t {
				t = pt
			}
		}
		if t > MaxTime {
			t = MaxTime
		}
		time[n] = t
		if av, ok := vs.Attackers[n]; ok {
			av.AttackTime = t
		}
		if dv, ok := vs.Defenders[n]; ok {
			dv.RemovalTime = t
		}
	}
}
