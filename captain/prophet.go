package captain

import (
	"context"
	"math"
	"sort"

	"github.com/spookygames/captain/board"
)

// AssumptionKind distinguishes the two kinds of guesses the generator
// commits to, move-then-reconsider, the same two-way split
// pkg/diplomacy/resolve.go draws between a unit holding and a unit
// attacking/supporting.
type AssumptionKind int

const (
	MoveAssumption AssumptionKind = iota
	AttackAssumption
	// RemoveAssumption and KeepAssumption are the per-defender
	// Remove(loc)/Keep(loc) pair of spec.md §4.5 ("Attack-constraint
	// costs"): unlike AttackAssumption (a candidate attacker/defender
	// pairing, used to budget an individual attacker's committed hits),
	// these carry no Attacker and describe the defender's fate alone.
	RemoveAssumption
	KeepAssumption
)

// Assumption is one candidate decision the death prophet proposes to the
// generator: "attacker ends this turn on Hex" or "attacker strikes
// Defender". Cost is -log2(estimated probability of success); lower cost
// assumptions are tried first (spec.md §3, "Death prophet").
type Assumption struct {
	Kind     AssumptionKind
	Attacker board.Loc
	Hex      board.Loc
	Defender board.Loc
	Cost     float64
}

// CostModel lets an external scorer (e.g. a neural value head) refine the
// heuristic cost of an assumption. Score returns ok=false when it declines
// to score (out of domain, inference error), in which case the prophet
// falls back to its own heuristic — the same shape
// internal/bot/strategy_gonnx.go falls back to the heuristic strategy when
// the ONNX session errors.
type CostModel interface {
	Score(ctx context.Context, g *Graph, a Assumption) (cost float64, ok bool)
}

// Prophet produces a cost-ordered list of assumptions for a combat graph.
// Scorer is optional; a nil Scorer means pure heuristic costing.
type Prophet struct {
	Scorer CostModel
}

// Propose returns every candidate assumption for g, sorted by ascending
// cost (spec.md §4.6, "Death prophet" — cheapest, most-likely-to-succeed
// assumptions first).
func (pr *Prophet) Propose(ctx context.Context, g *Graph) []Assumption {
	var out []Assumption
	for _, a := range g.Friends {
		for _, hex := range sortedDNFHexes(g.MoveHexMap[a]) {
			dnf := g.MoveHexMap[a][hex]
			cost := moveCost(a, hex, dnf)
			if math.IsInf(cost, 1) {
				continue
			}
			asm := Assumption{Kind: MoveAssumption, Attacker: a, Hex: hex, Cost: cost}
			out = append(out, pr.refine(ctx, g, asm))
		}
		for _, d := range g.AttackerToDefenders[a] {
			if deathtouchForbidden(g, a, d) {
				continue
			}
			removeCost, _ := defenderFateCosts(g, d)
			asm := Assumption{Kind: AttackAssumption, Attacker: a, Defender: d, Cost: removeCost}
			out = append(out, pr.refine(ctx, g, asm))
		}
	}
	for _, d := range g.Defenders {
		removeCost, keepCost := defenderFateCosts(g, d)
		out = append(out, pr.refine(ctx, g, Assumption{Kind: RemoveAssumption, Defender: d, Cost: removeCost}))
		out = append(out, pr.refine(ctx, g, Assumption{Kind: KeepAssumption, Defender: d, Cost: keepCost}))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

// sortedDNFHexes materializes moveDNFs's keys in ascending hex-index order
// before the prophet iterates them, per spec.md §4.2's "Determinism"
// clause ("iteration orders over HashMaps must be materialized through
// sorting ... because the matcher is sensitive to tie-breaks") — Go map
// iteration order is randomized per process and destinations at the same
// distance tie on cost, so without this the generator's maxCandidateHexes
// cutoff would pick a different surviving subset across runs.
func sortedDNFHexes(moveDNFs map[board.Loc]DNF) []board.Loc {
	out := make([]board.Loc, 0, len(moveDNFs))
	for hex := range moveDNFs {
		out = append(out, hex)
	}
	sortLocsByIdx(out)
	return out
}

// deathtouchForbidden reports whether attacker striking defender would be
// the one combination spec.md forbids outright (deathtouch vs.
// necromancer) — such a pairing never gets an assumption in the first
// place, the same way an unreachable move destination is filtered out
// below rather than assigned a nominal cost.
func deathtouchForbidden(g *Graph, attacker, defender board.Loc) bool {
	ap := g.Board.PieceAt(attacker)
	dp := g.Board.PieceAt(defender)
	if ap == nil || dp == nil {
		return false
	}
	return ap.Stats().AttackKind == board.Deathtouch && dp.Stats().Necromancer
}

func (pr *Prophet) refine(ctx context.Context, g *Graph, a Assumption) Assumption {
	if pr.Scorer == nil {
		return a
	}
	if cost, ok := pr.Scorer.Score(ctx, g, a); ok {
		a.Cost = cost
	}
	return a
}

// moveCost is the move-assumption cost 3 − dist(from, to), confirmed
// against original_source/spooky/src/ai/captain/combat/attack_solver.rs's
// distance-weighted move cost. A farther destination gets a lower cost, so
// with lower-cost assumptions tried first it ranks ahead of a nearer one;
// a self-move costs 3, the most of any destination. A destination the DNF marks unreachable
// regardless of removals (empty disjunction, not Free) is excluded
// outright rather than assigned a nominal cost, mirroring how an
// out-of-range attack never becomes a combat triple in the first place.
func moveCost(from, to board.Loc, d DNF) float64 {
	if !d.Free && len(d.Conjunctions) == 0 {
		return math.Inf(1)
	}
	return float64(3 - board.Dist(from, to))
}

// defenderFateCosts implements spec.md §4.5's Remove/Keep cost pair:
// score_remove = 1.0 if the defender is a necromancer, else
// (cost − rebate)/10 clamped to (0,1); score_keep = 1 − score_remove;
// both costs are −log2(score) so "more likely" scores cost less.
func defenderFateCosts(g *Graph, d board.Loc) (removeCost, keepCost float64) {
	dp := g.Board.PieceAt(d)
	if dp == nil {
		return math.Inf(1), math.Inf(1)
	}
	scoreRemove := 1.0
	if !dp.Stats().Necromancer {
		scoreRemove = clamp01(float64(dp.Stats().Cost-dp.Stats().Rebate) / 10)
	}
	scoreKeep := 1 - scoreRemove
	return -math.Log2(scoreRemove), -math.Log2(scoreKeep)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
