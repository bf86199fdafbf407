package captain

import (
	"testing"

	"github.com/spookygames/captain/board"
)

func TestNewVarStoreDeclaresAllGroups(t *testing.T) {
	b := board.NewBoard()
	zombie := &board.Piece{Loc: board.NewLoc(0, 0), Side: board.Yellow, Type: board.Zombie}
	rat := &board.Piece{Loc: board.NewLoc(1, 0), Side: board.Blue, Type: board.Rat}
	b.Place(zombie)
	b.Place(rat)

	g := BuildGraph(b, board.Yellow)
	vs := NewVarStore(g)

	if _, ok := vs.Attackers[zombie.Loc]; !ok {
		t.Fatal("expected a declared attacker variable group for the zombie")
	}
	if !vs.Attackers[zombie.Loc].Passive {
		t.Fatal("a freshly declared attacker defaults to passive")
	}
	if _, ok := vs.Defenders[rat.Loc]; !ok {
		t.Fatal("expected a declared defender variable group for the rat")
	}
	if vs.Defenders[rat.Loc].RemovalTime != MaxTime {
		t.Fatalf("expected a fresh defender's removal time to default to MaxTime, got %d", vs.Defenders[rat.Loc].RemovalTime)
	}
	key := PairKey{zombie.Loc, rat.Loc}
	if _, ok := vs.Pairs[key]; !ok {
		t.Fatal("expected a declared pair variable group for (zombie, rat)")
	}
}

func TestNewVarStorePanicsOnDuplicateAttacker(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic on duplicate attacker declaration")
		}
	}()
	loc := board.NewLoc(0, 0)
	g := &Graph{Friends: []board.Loc{loc, loc}, Board: board.NewBoard()}
	NewVarStore(g)
}

func TestEnsureAttackerIsIdempotent(t *testing.T) {
	b := board.NewBoard()
	witch := &board.Piece{Loc: board.NewLoc(4, 4), Side: board.Yellow, Type: board.Witch}
	b.Place(witch)
	g := &Graph{Board: b}
	vs := &VarStore{Attackers: map[board.Loc]*AttackerVars{}, Pairs: map[PairKey]*PairVars{}, Defenders: map[board.Loc]*DefenderVars{}}

	av1 := vs.EnsureAttacker(g, witch.Loc)
	if !av1.CanBlink {
		t.Fatal("expected CanBlink to be set for a blink-capable unit")
	}
	av2 := vs.EnsureAttacker(g, witch.Loc)
	if av1 != av2 {
		t.Fatal("expected EnsureAttacker to return the same variable group on a second call")
	}
}
