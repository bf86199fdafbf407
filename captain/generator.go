package captain

import (
	"context"
	"fmt"

	"github.com/spookygames/captain/board"
)

// maxGeneratorIterations bounds the assumption-retraction loop (spec.md
// §4.7): each iteration either converges on a feasible assignment or
// identifies at least one culprit to retract, so a small constant suffices
// in practice — pkg/diplomacy/resolve.go's adjudicate() similarly bounds
// its guess/reguess loop by the number of orders in play.
const maxGeneratorIterations = 8

// maxCandidateHexes bounds how many of an attacker's cheapest move
// assumptions are offered to the assignment matcher, keeping the cost
// matrix small without excluding the moves that matter.
const maxCandidateHexes = 6

// Generator runs the iterative search described in spec.md §4.7: propose
// assumptions via the death prophet, commit a trial assignment through
// the matcher, validate it against the static constraints and timing
// graph, and retract the highest-cost offending assumption on failure.
type Generator struct {
	Scorer CostModel
}

// Generate returns the ordered action list for side to move on b.
func (gen *Generator) Generate(ctx context.Context, b *board.Board, side board.Side) ([]Action, error) {
	if b == nil {
		return nil, ErrInvalidInput
	}
	g := BuildGraph(b, side)
	if len(g.Friends) == 0 {
		return nil, fmt.Errorf("%w: side %s has no pieces on the board", ErrInvalidInput, side)
	}

	triplesByPair := make(map[PairKey]CombatTriple, len(g.Triples))
	for _, t := range g.Triples {
		triplesByPair[PairKey{t.Attacker, t.Defender}] = t
	}

	prophet := &Prophet{Scorer: gen.Scorer}
	assumptions := prophet.Propose(ctx, g)

	moveCandidates := make(map[board.Loc][]Assumption)
	attackCandidates := make(map[board.Loc][]Assumption)
	for _, a := range assumptions {
		switch a.Kind {
		case MoveAssumption:
			moveCandidates[a.Attacker] = append(moveCandidates[a.Attacker], a)
		case AttackAssumption:
			attackCandidates[a.Attacker] = append(attackCandidates[a.Attacker], a)
		}
	}

	// excludedHex is the generator's "cant_move" set (spec.md §4.7): a
	// (attacker, hex) pair blamed by an unsat core or a static-constraint
	// violation is retracted here rather than pinning the whole attacker
	// passive, so the next iteration can still try a different hex for it.
	excludedHex := make(map[board.Loc]map[board.Loc]bool)
	pinnedPassive := make(map[board.Loc]bool)

	var lastErr error
	for iter := 0; iter < maxGeneratorIterations; iter++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidates := gen.buildCandidates(g, moveCandidates, excludedHex, pinnedPassive)
		assignment, err := MatchMovers(g.Friends, candidates)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoPlan, err)
		}

		vs := NewVarStore(g)
		pathDNFs := make(map[board.Loc]DNF)
		for _, a := range g.Friends {
			av := vs.Attackers[a]
			av.HasAttackHex = true
			av.AttackHex = assignment[a]
			av.Passive = assignment[a] == a
			if dnf, ok := g.MoveHexMap[a][assignment[a]]; ok && !dnf.Free {
				pathDNFs[a] = dnf
			}
		}

		commitAttacks(g, vs, triplesByPair, attackCandidates, pinnedPassive)
		applyDamageAccounting(g, vs)

		culprit, ok := reconcileRemovals(g, vs, pathDNFs, pinnedPassive)
		if !ok {
			pinnedPassive[culprit] = true
			lastErr = fmt.Errorf("%w: removal dependency for %s could not be satisfied", ErrNoPlan, culprit)
			continue
		}

		// Resolve each attacker's required DNF down to the actual
		// conjunction the current removal set satisfies, so the timing
		// graph only orders against the defenders this plan genuinely
		// depends on (spec.md §4.7 step 6, "the chosen path").
		removed := removedSet(vs)
		requiredPaths := make(map[board.Loc][]board.Loc, len(pathDNFs))
		for a, dnf := range pathDNFs {
			if conj, ok := dnf.SatisfiedConjunction(removed); ok {
				requiredPaths[a] = conj
			}
		}

		nodes := make([]board.Loc, 0, len(vs.Attackers)+len(vs.Defenders))
		for l := range vs.Attackers {
			nodes = append(nodes, l)
		}
		for l := range vs.Defenders {
			nodes = append(nodes, l)
		}
		edges := buildTimingGraph(vs, requiredPaths)
		order, cycle, ok := topoOrderKahn(nodes, edges)
		if !ok {
			asm, found := blameCycle(cycle, assumptions)
			if !found || !retract(asm, excludedHex, pinnedPassive) {
				pinnedPassive[cycle[0]] = true
			}
			lastErr = fmt.Errorf("%w: timing cycle involving %v", ErrNoPlan, cycle)
			continue
		}
		assignTimes(vs, order, edges)

		if violations := CheckStatic(g, vs); len(violations) > 0 {
			asm, found := blameViolations(violations, assumptions)
			if !found || !retract(asm, excludedHex, pinnedPassive) {
				return nil, fmt.Errorf("%w: %v", ErrModelExtractionFailed, violations)
			}
			lastErr = fmt.Errorf("%w: %v", ErrNoPlan, violations)
			continue
		}

		return ExtractActions(g, vs, assignment), nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoPlan
}

// retract applies the blamed assumption to the generator's "cant_move" /
// "unassumable" sets (spec.md §4.7 step 8, unsat-core-guided backtracking):
// a move assumption excludes just that one (attacker, hex) pair so the
// matcher can try an alternative destination next iteration, or pins the
// attacker passive if that hex is already excluded; any other kind falls
// back to pinning the whole attacker passive, the coarser exclusion
// already used when no move assumption can be blamed. Reports whether it
// made any change: false only when the attacker is already pinned
// passive, which signals the caller should escalate instead of looping
// forever.
func retract(asm Assumption, excludedHex map[board.Loc]map[board.Loc]bool, pinnedPassive map[board.Loc]bool) bool {
	if asm.Kind == MoveAssumption {
		if excludedHex[asm.Attacker] == nil {
			excludedHex[asm.Attacker] = make(map[board.Loc]bool)
		}
		if excludedHex[asm.Attacker][asm.Hex] {
			if pinnedPassive[asm.Attacker] {
				return false
			}
			pinnedPassive[asm.Attacker] = true
			return true
		}
		excludedHex[asm.Attacker][asm.Hex] = true
		return true
	}
	if pinnedPassive[asm.Attacker] {
		return false
	}
	pinnedPassive[asm.Attacker] = true
	return true
}

func (gen *Generator) buildCandidates(g *Graph, moveCandidates map[board.Loc][]Assumption, excludedHex map[board.Loc]map[board.Loc]bool, pinnedPassive map[board.Loc]bool) map[board.Loc]map[board.Loc]float64 {
	candidates := make(map[board.Loc]map[board.Loc]float64, len(g.Friends))
	for _, a := range g.Friends {
		cm := map[board.Loc]float64{a: 0}
		if pinnedPassive[a] {
			candidates[a] = cm
			continue
		}
		n := 0
		for _, asm := range moveCandidates[a] {
			if excludedHex[a][asm.Hex] {
				continue
			}
			cm[asm.Hex] = asm.Cost
			n++
			if n >= maxCandidateHexes {
				break
			}
		}
		candidates[a] = cm
	}
	return candidates
}

// commitAttacks greedily assigns the cheapest attack assumptions to each
// attacker's remaining budget, allowing a blink-capable attacker to strike
// from a hex other than the one it settles on for the turn (spec.md §4.4,
// "blink").
func commitAttacks(g *Graph, vs *VarStore, triplesByPair map[PairKey]CombatTriple, attackCandidates map[board.Loc][]Assumption, pinnedPassive map[board.Loc]bool) {
	for _, a := range g.Friends {
		if pinnedPassive[a] {
			continue
		}
		p := g.Board.PieceAt(a)
		if p == nil || p.AttacksRemaining() <= 0 {
			continue
		}
		av := vs.Attackers[a]
		standHex := av.AttackHex
		budget := p.AttacksRemaining()
		for _, asm := range attackCandidates[a] {
			if budget <= 0 {
				break
			}
			key := PairKey{a, asm.Defender}
			pv := vs.Pairs[key]
			if pv == nil || pv.Attacked {
				continue
			}
			t, ok := triplesByPair[key]
			if !ok || t.AttackHexes.Empty() {
				continue
			}
			attackHex := standHex
			blink := false
			if !t.AttackHexes.Test(standHex) {
				if !av.CanBlink {
					continue
				}
				if av.Blink && av.AttackHex != standHex && !t.AttackHexes.Test(av.AttackHex) {
					continue
				}
				hex, _, got := t.AttackHexes.Pop()
				if !got {
					continue
				}
				attackHex = hex
				blink = true
			}
			pv.Attacked = true
			pv.NumAttacks = 1
			budget--
			if blink {
				av.AttackHex = attackHex
				av.Blink = true
			}
		}
	}
}

// applyDamageAccounting sets Killed/Unsummoned on every defender from the
// committed attacks, the same accumulation checkDamageAccounting verifies.
func applyDamageAccounting(g *Graph, vs *VarStore) {
	for _, d := range g.Defenders {
		dp := g.Board.PieceAt(d)
		dv := vs.Defenders[d]
		if dp == nil || dv == nil {
			continue
		}
		damage := 0
		unsummonHits := 0
		for _, a := range g.DefenderToAttackers[d] {
			pv := vs.Pairs[PairKey{a, d}]
			if pv == nil || pv.NumAttacks == 0 {
				continue
			}
			ap := g.Board.PieceAt(a)
			if ap == nil {
				continue
			}
			switch ap.Stats().AttackKind {
			case board.Deathtouch:
				if !dp.Stats().Necromancer {
					damage += dp.Stats().Defense * pv.NumAttacks
				}
			case board.Unsummon:
				unsummonHits += pv.NumAttacks
				if dp.Stats().Persistent {
					damage += pv.NumAttacks
				}
			default:
				damage += ap.Stats().DamagePerAttack * pv.NumAttacks
			}
		}
		dv.Unsummoned = unsummonHits > 0 && !dp.Stats().Persistent
		dv.Killed = !dv.Unsummoned && damage+dp.State.DamageTaken >= dp.Stats().Defense
	}
}

// reconcileRemovals checks every committed path requirement's full DNF
// against the removed set implied by the current damage accounting — a
// destination is reachable if *any* conjunction of its DNF is satisfied
// (spec.md §3's "any conjunction... would open at least one path"), not
// only the first one recorded. It returns the first attacker, in g.Friends
// order, whose required path is satisfied by no conjunction, and ok=false,
// so the caller can pin that attacker passive and retry.
func reconcileRemovals(g *Graph, vs *VarStore, pathDNFs map[board.Loc]DNF, pinnedPassive map[board.Loc]bool) (board.Loc, bool) {
	removed := removedSet(vs)
	for _, a := range g.Friends {
		dnf, ok := pathDNFs[a]
		if !ok || pinnedPassive[a] {
			continue
		}
		if !dnf.Evaluate(removed) {
			return a, false
		}
	}
	return board.Loc{}, true
}

// blameCycle finds the highest-cost move or attack assumption whose
// attacker participates in the timing cycle, the unsat-core-guided
// retraction rule of spec.md §4.7 step 8 ("find the one with the highest
// cost"). found is false when no move/attack assumption touches any node
// in the cycle (e.g. the cycle is entirely defenders), in which case the
// caller falls back to pinning the cycle's first node passive.
func blameCycle(cycle []board.Loc, assumptions []Assumption) (worst Assumption, found bool) {
	inCycle := make(map[board.Loc]bool, len(cycle))
	for _, l := range cycle {
		inCycle[l] = true
	}
	worstCost := -1.0
	for _, asm := range assumptions {
		if asm.Kind != MoveAssumption && asm.Kind != AttackAssumption {
			continue
		}
		if !inCycle[asm.Attacker] {
			continue
		}
		if asm.Cost > worstCost {
			worstCost = asm.Cost
			worst = asm
			found = true
		}
	}
	return worst, found
}

// blameViolations finds the highest-cost move or attack assumption whose
// attacker is named by any reported violation, the same unsat-core
// blaming rule blameCycle applies to a timing cycle.
func blameViolations(violations []Violation, assumptions []Assumption) (worst Assumption, found bool) {
	named := make(map[board.Loc]bool)
	for _, v := range violations {
		for _, l := range v.Locs {
			named[l] = true
		}
	}
	worstCost := -1.0
	for _, asm := range assumptions {
		if asm.Kind != MoveAssumption && asm.Kind != AttackAssumption {
			continue
		}
		if !named[asm.Attacker] {
			continue
		}
		if asm.Cost > worstCost {
			worstCost = asm.Cost
			worst = asm
			found = true
		}
	}
	return worst, found
}
