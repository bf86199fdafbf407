package captain

import (
	"sort"

	"github.com/spookygames/captain/board"
)

// ExtractActions turns a fully-assigned VarStore into the ordered action
// list a player (or the game engine) executes (spec.md §4.8, "Action
// extractor"). assignment maps every friendly unit's original location to
// the hex it ends this turn standing on, as produced by MatchMovers.
func ExtractActions(g *Graph, vs *VarStore, assignment map[board.Loc]board.Loc) []Action {
	var actions []Action

	order, cycles := decomposeMoves(g.Friends, assignment)
	tick := 0
	for _, a := range order {
		dest := assignment[a]
		if dest == a {
			continue
		}
		actions = append(actions, Action{Kind: Move, From: a, To: dest, Time: tick})
		tick++
	}
	for _, cyc := range cycles {
		actions = append(actions, Action{Kind: MoveCyclic, Cycle: cyc, Time: tick})
		tick++
	}

	attackerLocs := make([]board.Loc, 0, len(vs.Attackers))
	for loc := range vs.Attackers {
		attackerLocs = append(attackerLocs, loc)
	}
	sortLocsByIdx(attackerLocs)

	for _, loc := range attackerLocs {
		av := vs.Attackers[loc]
		if av.Passive || !av.HasAttackHex {
			continue
		}
		dest := assignment[loc]
		if av.Blink && av.AttackHex != dest {
			actions = append(actions, Action{Kind: Blink, From: dest, To: av.AttackHex, Time: av.AttackTime})
		}
	}

	actions = append(actions, extractAttacks(g, vs)...)

	for _, loc := range attackerLocs {
		av := vs.Attackers[loc]
		if av.Passive || !av.HasAttackHex {
			continue
		}
		dest := assignment[loc]
		if av.Blink && av.AttackHex != dest {
			t := av.AttackTime + 1
			if t > MaxTime {
				t = MaxTime
			}
			actions = append(actions, Action{Kind: Blink, From: av.AttackHex, To: dest, Time: t})
		}
	}

	// Time alone does not uniquely order actions (several share the same
	// tick); break ties by kind then location so the extracted list is
	// byte-for-byte identical across runs (spec.md §5, "Determinism").
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Time != actions[j].Time {
			return actions[i].Time < actions[j].Time
		}
		if actions[i].Kind != actions[j].Kind {
			return actions[i].Kind < actions[j].Kind
		}
		if actions[i].From != actions[j].From {
			return actions[i].From.Idx() < actions[j].From.Idx()
		}
		return actions[i].Defender.Idx() < actions[j].Defender.Idx()
	})
	return actions
}

// extractAttacks emits one Attack action per committed hit, in time
// order, clamping at lethal damage: once a defender's simulated remaining
// defense reaches zero no further attacks against it are emitted (spec.md
// §4.8/§9, "no overkill").
func extractAttacks(g *Graph, vs *VarStore) []Action {
	type hit struct {
		attacker, defender board.Loc
		time               int
	}
	pairKeys := make([]PairKey, 0, len(vs.Pairs))
	for key := range vs.Pairs {
		pairKeys = append(pairKeys, key)
	}
	sort.SliceStable(pairKeys, func(i, j int) bool {
		if pairKeys[i].Attacker.Idx() != pairKeys[j].Attacker.Idx() {
			return pairKeys[i].Attacker.Idx() < pairKeys[j].Attacker.Idx()
		}
		return pairKeys[i].Defender.Idx() < pairKeys[j].Defender.Idx()
	})

	var hits []hit
	for _, key := range pairKeys {
		pv := vs.Pairs[key]
		if !pv.Attacked {
			continue
		}
		av := vs.Attackers[key.Attacker]
		t := 0
		if av != nil {
			t = av.AttackTime
		}
		for i := 0; i < pv.NumAttacks; i++ {
			hits = append(hits, hit{key.Attacker, key.Defender, t})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].time != hits[j].time {
			return hits[i].time < hits[j].time
		}
		if hits[i].attacker != hits[j].attacker {
			return hits[i].attacker.Idx() < hits[j].attacker.Idx()
		}
		return hits[i].defender.Idx() < hits[j].defender.Idx()
	})

	remaining := make(map[board.Loc]int, len(g.Defenders))
	for _, d := range g.Defenders {
		if p := g.Board.PieceAt(d); p != nil {
			remaining[d] = p.Stats().Defense - p.State.DamageTaken
		}
	}

	var out []Action
	for _, h := range hits {
		if remaining[h.defender] <= 0 {
			continue
		}
		ap := g.Board.PieceAt(h.attacker)
		dp := g.Board.PieceAt(h.defender)
		if ap == nil || dp == nil {
			continue
		}
		out = append(out, Action{Kind: Attack, From: h.attacker, Defender: h.defender, Time: h.time})
		switch ap.Stats().AttackKind {
		case board.Deathtouch:
			remaining[h.defender] = 0
		case board.Unsummon:
			if dp.Stats().Persistent {
				remaining[h.defender]--
			} else {
				remaining[h.defender] = 0
			}
		default:
			remaining[h.defender] -= ap.Stats().DamagePerAttack
		}
	}
	return out
}

// decomposeMoves orders non-cyclic moves so that every unit vacates its
// origin before a dependent unit occupies it, and separates out closed
// rotations that must move as a single simultaneous MoveCyclic action
// (spec.md §4.8, "cycle decomposition"). A length-1 rotation (a unit
// assigned to stay put) is not a move at all and is silently skipped.
func decomposeMoves(friends []board.Loc, assignment map[board.Loc]board.Loc) (order []board.Loc, cycles [][]board.Loc) {
	movers := make([]board.Loc, 0, len(friends))
	moverSet := make(map[board.Loc]bool, len(friends))
	for _, a := range friends {
		if assignment[a] != a {
			movers = append(movers, a)
			moverSet[a] = true
		}
	}
	sortLocsByIdx(movers)

	waitFor := make(map[board.Loc]board.Loc, len(movers))
	for _, a := range movers {
		dest := assignment[a]
		if moverSet[dest] {
			waitFor[a] = dest
		}
	}

	state := make(map[board.Loc]int, len(movers))
	for _, a := range movers {
		if state[a] == 0 {
			visitMove(a, nil, state, waitFor, &order, &cycles)
		}
	}
	return order, cycles
}

func visitMove(a board.Loc, path []board.Loc, state map[board.Loc]int, waitFor map[board.Loc]board.Loc, order *[]board.Loc, cycles *[][]board.Loc) {
	switch state[a] {
	case 2:
		return
	case 1:
		idx := -1
		for i, n := range path {
			if n == a {
				idx = i
				break
			}
		}
		cyc := append([]board.Loc{}, path[idx:]...)
		for _, n := range cyc {
			state[n] = 2
		}
		*cycles = append(*cycles, cyc)
		return
	}
	state[a] = 1
	path = append(path, a)
	if b, ok := waitFor[a]; ok {
		visitMove(b, path, state, waitFor, order, cycles)
	}
	if state[a] == 1 {
		state[a] = 2
		*order = append(*order, a)
	}
}
