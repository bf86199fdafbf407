package captain

import "github.com/spookygames/captain/board"

// Time widths, per spec.md §4.3: attack/removal time uses 4 bits (16
// ordered ticks), hex encoding uses 8 bits, attack counts use 10 bits.
// MaxTime is enforced where assignTimes assigns ticks (it clamps), and
// MaxNumAttacks is checked by checkAttackedCount, so the generator cannot
// produce a plan the bit-widths couldn't represent. MaxHexIdx is declared
// but not checked anywhere.
const (
	MaxTime       = 15  // 4-bit tick range: 0..15
	MaxHexIdx     = 255 // 8-bit hex encoding range
	MaxNumAttacks = 1023
)

// PairKey identifies an (attacker, defender) decision-variable group.
type PairKey struct {
	Attacker, Defender board.Loc
}

// AttackerVars are the decision variables owned by one non-passive-or-not
// attacker for this invocation (spec.md §3, "Decision variables").
type AttackerVars struct {
	Passive      bool
	HasAttackHex bool
	AttackHex    board.Loc
	AttackTime   int
	Blink        bool
	CanBlink     bool
}

// PairVars are the decision variables for one (attacker, defender) triple.
type PairVars struct {
	Attacked   bool
	NumAttacks int
}

// DefenderVars are the decision variables for one defender.
type DefenderVars struct {
	Killed      bool
	Unsummoned  bool
	RemovalTime int
}

// VarStore is the decision-variable universe for one attack-phase
// invocation (spec.md §4.3). It is owned exclusively by the planner and
// dropped at the end of the invocation, the scoped-SMT-context pattern
// spec.md §5 calls for.
type VarStore struct {
	Attackers map[board.Loc]*AttackerVars
	Pairs     map[PairKey]*PairVars
	Defenders map[board.Loc]*DefenderVars
}

// NewVarStore declares variables for every attacker/defender/pair named by
// the combat graph. Declaring a variable twice for the same location is a
// programming error, guarded by the map-insertion check below (spec.md §7:
// "Assertions guard encoder-internal invariants").
func NewVarStore(g *Graph) *VarStore {
	vs := &VarStore{
		Attackers: make(map[board.Loc]*AttackerVars),
		Pairs:     make(map[PairKey]*PairVars),
		Defenders: make(map[board.Loc]*DefenderVars),
	}
	for _, l := range g.Friends {
		if _, dup := vs.Attackers[l]; dup {
			panic("captain: duplicate attacker variable declaration for " + l.String())
		}
		p := g.Board.PieceAt(l)
		vs.Attackers[l] = &AttackerVars{Passive: true, CanBlink: p != nil && p.Stats().Blink}
	}
	for _, d := range g.Defenders {
		vs.Defenders[d] = &DefenderVars{RemovalTime: MaxTime}
	}
	for _, t := range g.Triples {
		key := PairKey{t.Attacker, t.Defender}
		if _, dup := vs.Pairs[key]; dup {
			continue
		}
		vs.Pairs[key] = &PairVars{}
	}
	return vs
}

// EnsureAttacker adds a variable group on demand for a friendly unit that
// only moves (no attacks) — spec.md §3's "for friendly units added on
// demand during reconciliation".
func (vs *VarStore) EnsureAttacker(g *Graph, l board.Loc) *AttackerVars {
	if av, ok := vs.Attackers[l]; ok {
		return av
	}
	p := g.Board.PieceAt(l)
	av := &AttackerVars{Passive: true, CanBlink: p != nil && p.Stats().Blink}
	vs.Attackers[l] = av
	return av
}
