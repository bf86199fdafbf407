package captain

import "github.com/spookygames/captain/board"

// CombatTriple is (attacker, defender, attackHexes): attackHexes is the
// non-empty set of hexes the attacker can stand on this turn and from
// which it can strike the defender.
type CombatTriple struct {
	Attacker    board.Loc
	Defender    board.Loc
	AttackHexes board.Bitmask
}

// Graph is the combat graph for one attack-phase invocation (spec.md §3,
// "Combat graph"), owned exclusively by the planner for the duration of
// one Plan call — the arena-scoped scratch structure the teacher builds
// fresh per resolver invocation (pkg/diplomacy/resolve.go's `resolver`).
type Graph struct {
	Triples  []CombatTriple
	Friends  []board.Loc
	Defenders []board.Loc

	AttackerToDefenders map[board.Loc][]board.Loc
	DefenderToAttackers map[board.Loc][]board.Loc
	AttackHexMap        map[board.Loc]board.Bitmask
	MoveHexMap           map[board.Loc]map[board.Loc]DNF

	Board *board.Board
	Side  board.Side
}

// maxPathSteps bounds the depth of path enumeration in computeRemovalDNF;
// unit speeds are small (<=3 on the stock roster) so this never truncates
// a real reachable path.
const maxPathSteps = 6

// BuildGraph constructs the combat graph for side to move on b, per
// spec.md §4.2.
func BuildGraph(b *board.Board, side board.Side) *Graph {
	g := &Graph{
		Board:               b,
		Side:                side,
		AttackerToDefenders: make(map[board.Loc][]board.Loc),
		DefenderToAttackers: make(map[board.Loc][]board.Loc),
		AttackHexMap:        make(map[board.Loc]board.Bitmask),
		MoveHexMap:          make(map[board.Loc]map[board.Loc]DNF),
	}

	friends := b.PiecesOf(side)
	enemies := b.PiecesOf(side.Opponent())
	for _, p := range friends {
		g.Friends = append(g.Friends, p.Loc)
	}

	enemySet := make(map[board.Loc]bool, len(enemies))
	for _, e := range enemies {
		enemySet[e.Loc] = true
	}

	for _, attacker := range friends {
		moveSet := theoreticalMoveSet(b, attacker)
		g.MoveHexMap[attacker.Loc] = computeRemovalDNFs(b, attacker, moveSet, enemySet)

		if attacker.AttacksRemaining() <= 0 {
			continue
		}
		var attackHexes board.Bitmask
		hasAny := false
		for _, enemy := range enemies {
			hexes := attackHexesFor(attacker, moveSet, enemy.Loc)
			if hexes.Empty() {
				continue
			}
			hasAny = true
			attackHexes = attackHexes.Or(hexes)
			g.Triples = append(g.Triples, CombatTriple{
				Attacker:    attacker.Loc,
				Defender:    enemy.Loc,
				AttackHexes: hexes,
			})
			g.AttackerToDefenders[attacker.Loc] = append(g.AttackerToDefenders[attacker.Loc], enemy.Loc)
			g.DefenderToAttackers[enemy.Loc] = append(g.DefenderToAttackers[enemy.Loc], attacker.Loc)
			if !containsLoc(g.Defenders, enemy.Loc) {
				g.Defenders = append(g.Defenders, enemy.Loc)
			}
		}
		if hasAny {
			g.AttackHexMap[attacker.Loc] = attackHexes
		}
	}
	return g
}

func containsLoc(s []board.Loc, l board.Loc) bool {
	for _, x := range s {
		if x == l {
			return true
		}
	}
	return false
}

// theoreticalMoveSet is the speed-limited flood-fill reachability of a
// piece, ignoring piece blockers but honoring terrain rules (spec.md §4.2
// step 2).
func theoreticalMoveSet(b *board.Board, p *board.Piece) board.Bitmask {
	propMask := board.Full100
	if !p.Stats().Flying {
		propMask = b.GroundPropagationMask()
	}
	return board.AllMovements(p.Loc, p.Stats().Speed, propMask, propMask)
}

// attackHexesFor filters a theoretical move set down to the hexes within
// range of defender (spec.md §4.2 step 3).
func attackHexesFor(attacker *board.Piece, moveSet board.Bitmask, defender board.Loc) board.Bitmask {
	var out board.Bitmask
	rng := attacker.Stats().Range
	for _, l := range moveSet.Locs() {
		if board.Dist(l, defender) <= rng {
			out = out.Set(l)
		}
	}
	// A piece may also attack from its current position without moving.
	if board.Dist(attacker.Loc, defender) <= rng {
		out = out.Set(attacker.Loc)
	}
	return out
}

// computeRemovalDNFs enumerates, for every theoretically reachable
// destination, the RemovalDNF described in spec.md §4.2 step 4.
func computeRemovalDNFs(b *board.Board, p *board.Piece, moveSet board.Bitmask, enemySet map[board.Loc]bool) map[board.Loc]DNF {
	out := make(map[board.Loc]DNF)
	// A self-move is always free.
	out[p.Loc] = freeDNF()

	if p.Stats().Flying {
		for _, dest := range moveSet.Locs() {
			if dest == p.Loc {
				continue
			}
			if enemySet[dest] {
				out[dest] = DNF{Conjunctions: [][]board.Loc{{dest}}}
			} else {
				out[dest] = freeDNF()
			}
		}
		return out
	}

	propMask := b.GroundPropagationMask()
	visited := map[board.Loc]bool{p.Loc: true}
	speed := p.Stats().Speed
	if speed > maxPathSteps {
		speed = maxPathSteps
	}
	walkPaths(p.Loc, speed, propMask, enemySet, visited, nil, out)
	return out
}

// walkPaths performs a bounded DFS over simple paths from the current hex,
// recording the enemy-location conjunction encountered along each path
// into out[dest] for every hex visited.
func walkPaths(cur board.Loc, stepsLeft int, propMask board.Bitmask, enemySet map[board.Loc]bool, visited map[board.Loc]bool, conj []board.Loc, out map[board.Loc]DNF) {
	if stepsLeft <= 0 {
		return
	}
	for _, n := range cur.Neighbors() {
		if !propMask.Test(n) {
			continue
		}
		if visited[n] {
			continue
		}
		nextConj := conj
		if enemySet[n] {
			nextConj = append(append([]board.Loc{}, conj...), n)
		}
		out[n] = out[n].addConjunction(nextConj)

		visited[n] = true
		walkPaths(n, stepsLeft-1, propMask, enemySet, visited, nextConj, out)
		delete(visited, n)
	}
}
