package captain

import (
	"fmt"

	"github.com/spookygames/captain/board"
)

// Violation is one broken static invariant (spec.md §4.3/§4.4), carrying
// the decision-variable owners implicated in it so the generator can
// blame the right assumption when backing off, the same reporting shape
// pkg/diplomacy/resolve.go's adjudicate() uses internally to decide which
// order to reconsider next.
type Violation struct {
	Rule string
	Locs []board.Loc
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %v", v.Rule, v.Locs)
}

// CheckStatic evaluates every static assertion from spec.md §4.3/§4.4
// against the current contents of vs, given the combat graph g that
// declared them. It never mutates vs; callers assign variables first (via
// the generator's reconciliation step) and then call CheckStatic to find
// out whether the assignment is admissible.
func CheckStatic(g *Graph, vs *VarStore) []Violation {
	var out []Violation
	out = append(out, checkPassiveConsistency(vs)...)
	out = append(out, checkAttackHexLegality(g, vs)...)
	out = append(out, checkAttackedCount(vs)...)
	out = append(out, checkAttackBudget(g, vs)...)
	out = append(out, checkLumbering(g, vs)...)
	out = append(out, checkDamageAccounting(g, vs)...)
	out = append(out, checkFateDisjoint(vs)...)
	return out
}

// checkPassiveConsistency: a passive attacker asserts no attacks, and any
// attack hex it holds is its own location (spec.md §4.3, "passive").
func checkPassiveConsistency(vs *VarStore) []Violation {
	var out []Violation
	for loc, av := range vs.Attackers {
		if !av.Passive {
			continue
		}
		if av.HasAttackHex && av.AttackHex != loc {
			out = append(out, Violation{"passive-but-moved", []board.Loc{loc}})
		}
	}
	for key, pv := range vs.Pairs {
		av := vs.Attackers[key.Attacker]
		if av == nil {
			continue
		}
		if av.Passive && (pv.Attacked || pv.NumAttacks > 0) {
			out = append(out, Violation{"passive-but-attacked", []board.Loc{key.Attacker, key.Defender}})
		}
	}
	return out
}

// checkAttackHexLegality: every attacker that attacks must stand on a hex
// that is, simultaneously, within the attack_hexes set of each defender it
// strikes (spec.md §4.3, "attack_hex").
func checkAttackHexLegality(g *Graph, vs *VarStore) []Violation {
	var out []Violation
	for _, t := range g.Triples {
		pv := vs.Pairs[PairKey{t.Attacker, t.Defender}]
		if pv == nil || !pv.Attacked {
			continue
		}
		av := vs.Attackers[t.Attacker]
		if av == nil || !av.HasAttackHex {
			out = append(out, Violation{"missing-attack-hex", []board.Loc{t.Attacker, t.Defender}})
			continue
		}
		if !t.AttackHexes.Test(av.AttackHex) {
			out = append(out, Violation{"attack-hex-out-of-range", []board.Loc{t.Attacker, t.Defender}})
		}
	}
	return out
}

// checkAttackedCount: attacked(a,d) iff num_attacks(a,d) > 0 (spec.md
// §4.3, "attacked ↔ num_attacks").
func checkAttackedCount(vs *VarStore) []Violation {
	var out []Violation
	for key, pv := range vs.Pairs {
		if pv.Attacked != (pv.NumAttacks > 0) {
			out = append(out, Violation{"attacked-count-mismatch", []board.Loc{key.Attacker, key.Defender}})
		}
		if pv.NumAttacks < 0 || pv.NumAttacks > MaxNumAttacks {
			out = append(out, Violation{"num-attacks-range", []board.Loc{key.Attacker, key.Defender}})
		}
	}
	return out
}

// checkAttackBudget: the sum of num_attacks an attacker levies this turn
// may not exceed its remaining attack allowance (spec.md §4.3, "attack
// budget").
func checkAttackBudget(g *Graph, vs *VarStore) []Violation {
	var out []Violation
	for _, a := range g.Friends {
		p := g.Board.PieceAt(a)
		if p == nil {
			continue
		}
		total := 0
		for _, d := range g.AttackerToDefenders[a] {
			if pv := vs.Pairs[PairKey{a, d}]; pv != nil {
				total += pv.NumAttacks
			}
		}
		if total > p.AttacksRemaining() {
			out = append(out, Violation{"attack-budget-exceeded", []board.Loc{a}})
		}
	}
	return out
}

// checkLumbering: a lumbering unit that relocates this turn may not also
// attack (spec.md §4.3/§4.4, "lumbering").
func checkLumbering(g *Graph, vs *VarStore) []Violation {
	var out []Violation
	for loc, av := range vs.Attackers {
		p := g.Board.PieceAt(loc)
		if p == nil || !p.Stats().Lumbering {
			continue
		}
		moved := av.HasAttackHex && av.AttackHex != loc
		if !moved {
			continue
		}
		for _, d := range g.AttackerToDefenders[loc] {
			if pv := vs.Pairs[PairKey{loc, d}]; pv != nil && pv.Attacked {
				out = append(out, Violation{"lumbering-move-and-attack", []board.Loc{loc, d}})
			}
		}
	}
	return out
}

// checkDamageAccounting: a defender's fate is implied by the attacks
// committed against it (spec.md §4.4, "damage accounting"). Deathtouch and
// lethal Damage kill outright; Unsummon removes a non-persistent defender
// and otherwise contributes a single point of Damage.
func checkDamageAccounting(g *Graph, vs *VarStore) []Violation {
	var out []Violation
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
				if dp.Stats().Necromancer {
					out = append(out, Violation{"deathtouch-vs-necromancer", []board.Loc{a, d}})
					continue
				}
				damage += dp.Stats().Defense * pv.NumAttacks
			case board.Unsummon:
				unsummonHits += pv.NumAttacks
				if dp.Stats().Persistent {
					damage += pv.NumAttacks
				}
			default:
				damage += ap.Stats().DamagePerAttack * pv.NumAttacks
			}
		}
		wantUnsummoned := unsummonHits > 0 && !dp.Stats().Persistent
		wantKilled := !wantUnsummoned && damage+dp.State.DamageTaken >= dp.Stats().Defense
		if dv.Unsummoned != wantUnsummoned {
			out = append(out, Violation{"unsummoned-mismatch", []board.Loc{d}})
		}
		if dv.Killed != wantKilled {
			out = append(out, Violation{"killed-mismatch", []board.Loc{d}})
		}
	}
	return out
}

// checkFateDisjoint: a defender is removed by at most one of Killed or
// Unsummoned, never both (spec.md §4.4, "fate disjointness").
func checkFateDisjoint(vs *VarStore) []Violation {
	var out []Violation
	for loc, dv := range vs.Defenders {
		if dv.Killed && dv.Unsummoned {
			out = append(out, Violation{"fate-not-disjoint", []board.Loc{loc}})
		}
	}
	return out
}

// removedSet reports the set of defender locations whose fate (Killed or
// Unsummoned) is already settled true in vs — the "removed" set RemovalDNF
// conjunctions are evaluated against (spec.md §4.2/§4.7).
func removedSet(vs *VarStore) map[board.Loc]bool {
	out := make(map[board.Loc]bool, len(vs.Defenders))
	for loc, dv := range vs.Defenders {
		if dv.Killed || dv.Unsummoned {
			out[loc] = true
		}
	}
	return out
}
