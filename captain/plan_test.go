package captain

import (
	"context"
	"errors"
	"testing"

	"github.com/spookygames/captain/board"
)

func TestPlanSimpleKillInPlace(t *testing.T) {
	b := board.NewBoard()
	zombie := &board.Piece{Loc: board.NewLoc(0, 0), Side: board.Yellow, Type: board.Zombie}
	rat := &board.Piece{Loc: board.NewLoc(1, 0), Side: board.Blue, Type: board.Rat}
	b.Place(zombie)
	b.Place(rat)

	actions, err := Plan(context.Background(), b, board.Yellow, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var sawAttack bool
	for _, a := range actions {
		if a.Kind == Attack && a.From == zombie.Loc && a.Defender == rat.Loc {
			sawAttack = true
		}
	}
	if !sawAttack {
		t.Fatalf("expected an in-place attack from %s on %s, got %v", zombie.Loc, rat.Loc, actions)
	}
}

func TestPlanNoEnemiesIsPassive(t *testing.T) {
	b := board.NewBoard()
	nec := &board.Piece{Loc: board.NewLoc(0, 0), Side: board.Yellow, Type: board.BasicNecromancer}
	b.Place(nec)

	actions, err := Plan(context.Background(), b, board.Yellow, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions with no enemies in range, got %v", actions)
	}
}

func TestPlanRejectsSideWithNoPieces(t *testing.T) {
	b := board.NewBoard()
	b.Place(&board.Piece{Loc: board.NewLoc(0, 0), Side: board.Blue, Type: board.BasicNecromancer})

	_, err := Plan(context.Background(), b, board.Yellow, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// TestPlanScenarioE1LoneRatAttacks transcribes spec.md §8's Scenario E1
// literally: a friendly Rat at (2,0) facing an enemy Rat at (0,0) must
// close one hex of distance and then strike, in that order.
func TestPlanScenarioE1LoneRatAttacks(t *testing.T) {
	b := board.NewBoard()
	friendlyRat := &board.Piece{Loc: board.NewLoc(2, 0), Side: board.Yellow, Type: board.Rat}
	enemyRat := &board.Piece{Loc: board.NewLoc(0, 0), Side: board.Blue, Type: board.Rat}
	b.Place(friendlyRat)
	b.Place(enemyRat)

	actions, err := Plan(context.Background(), b, board.Yellow, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	want := []Action{
		{Kind: Move, From: board.NewLoc(2, 0), To: board.NewLoc(1, 0), Time: 0},
		{Kind: Attack, From: board.NewLoc(1, 0), Defender: board.NewLoc(0, 0), Time: 1},
	}
	if len(actions) != len(want) {
		t.Fatalf("expected exactly %d actions, got %v", len(want), actions)
	}
	for i, a := range actions {
		if a.Kind != want[i].Kind || a.From != want[i].From {
			t.Fatalf("action %d: got %v, want kind=%v from=%v", i, a, want[i].Kind, want[i].From)
		}
		if a.Kind == Move && a.To != want[i].To {
			t.Fatalf("action %d: move destination got %s, want %s", i, a.To, want[i].To)
		}
		if a.Kind == Attack && a.Defender != want[i].Defender {
			t.Fatalf("action %d: attack target got %s, want %s", i, a.Defender, want[i].Defender)
		}
	}
	if actions[0].Time >= actions[1].Time {
		t.Fatalf("expected the move to precede the attack, got times %d then %d", actions[0].Time, actions[1].Time)
	}
}

// TestPlanScenarioE3ThreePieceCycle transcribes spec.md §8's Scenario E3:
// with no enemies on the board, a forced rotation among three friendly
// units must be extracted as a single move_cyclic, not a chain of
// sequential moves, and applying it swaps the three pieces into the
// rotation's destinations.
func TestPlanScenarioE3ThreePieceCycle(t *testing.T) {
	rat := &board.Piece{Loc: board.NewLoc(0, 0), Side: board.Yellow, Type: board.Rat}
	zombie := &board.Piece{Loc: board.NewLoc(1, 0), Side: board.Yellow, Type: board.Zombie}
	skeleton := &board.Piece{Loc: board.NewLoc(0, 1), Side: board.Yellow, Type: board.Skeleton}
	b := board.NewBoard()
	b.Place(rat)
	b.Place(zombie)
	b.Place(skeleton)

	friends := []board.Loc{rat.Loc, zombie.Loc, skeleton.Loc}
	assignment := map[board.Loc]board.Loc{
		rat.Loc:      zombie.Loc,
		zombie.Loc:   skeleton.Loc,
		skeleton.Loc: rat.Loc,
	}

	g := BuildGraph(b, board.Yellow)
	vs := NewVarStore(g)
	for _, a := range friends {
		av := vs.Attackers[a]
		av.HasAttackHex = true
		av.AttackHex = assignment[a]
		av.Passive = false
	}
	actions := ExtractActions(g, vs, assignment)

	if len(actions) != 1 || actions[0].Kind != MoveCyclic {
		t.Fatalf("expected exactly one move_cyclic action, got %v", actions)
	}
	cyc := actions[0].Cycle
	if len(cyc) != 3 {
		t.Fatalf("expected a 3-cycle, got %v", cyc)
	}
	wantSet := map[board.Loc]bool{rat.Loc: true, zombie.Loc: true, skeleton.Loc: true}
	for _, l := range cyc {
		if !wantSet[l] {
			t.Fatalf("cycle visits unexpected hex %s: %v", l, cyc)
		}
		delete(wantSet, l)
	}
	if len(wantSet) != 0 {
		t.Fatalf("cycle is missing hexes: %v remain unvisited from %v", wantSet, cyc)
	}

	final := b.Clone()
	movers := make(map[board.Loc]*board.Piece, len(cyc))
	for _, l := range cyc {
		movers[l] = final.PieceAt(l)
	}
	for _, l := range cyc {
		final.Remove(l)
	}
	for i, l := range cyc {
		next := cyc[(i+1)%len(cyc)]
		movers[l].Loc = next
		final.Place(movers[l])
	}
	if p := final.PieceAt(board.NewLoc(0, 0)); p == nil || p.Type != board.Skeleton {
		t.Fatalf("expected the skeleton at (0,0) after the rotation, got %v", p)
	}
	if p := final.PieceAt(board.NewLoc(1, 0)); p == nil || p.Type != board.Rat {
		t.Fatalf("expected the rat at (1,0) after the rotation, got %v", p)
	}
	if p := final.PieceAt(board.NewLoc(0, 1)); p == nil || p.Type != board.Zombie {
		t.Fatalf("expected the zombie at (0,1) after the rotation, got %v", p)
	}
}

// TestPlanScenarioE5UnsummonVsPersistentDefender transcribes spec.md §8's
// Scenario E5: an Unsummon attacker striking a persistent defense-6
// defender must not remove it; its residual damage equals the number of
// Unsummon strikes landed.
func TestPlanScenarioE5UnsummonVsPersistentDefender(t *testing.T) {
	b := board.NewBoard()
	attacker := &board.Piece{Loc: board.NewLoc(1, 0), Side: board.Yellow, Type: board.Initiate}
	defender := &board.Piece{Loc: board.NewLoc(0, 0), Side: board.Blue, Type: board.Mummy}
	b.Place(attacker)
	b.Place(defender)
	if defender.Stats().Defense != 6 || !defender.Stats().Persistent {
		t.Fatalf("fixture drift: expected a persistent defense-6 defender, got %+v", defender.Stats())
	}
	if attacker.Stats().AttackKind != board.Unsummon {
		t.Fatalf("fixture drift: expected an Unsummon attacker, got %+v", attacker.Stats())
	}

	actions, err := Plan(context.Background(), b, board.Yellow, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	hits := 0
	for _, a := range actions {
		if a.Kind == Attack && a.Defender == defender.Loc {
			hits++
		}
	}
	if hits == 0 {
		t.Fatalf("expected at least one attack action against the defender, got %v", actions)
	}

	rb := b.Clone()
	for i := 0; i < hits; i++ {
		rb.PieceAt(defender.Loc).State.DamageTaken++
	}
	residual := rb.PieceAt(defender.Loc)
	if residual == nil {
		t.Fatalf("unsummon against a persistent defender must never remove it")
	}
	if residual.State.DamageTaken != hits {
		t.Fatalf("residual damage got %d, want exactly the %d strikes landed", residual.State.DamageTaken, hits)
	}
}

// TestPlanScenarioE6PathClearsBeforeMoverArrives transcribes spec.md §8's
// Scenario E6: the blocker in the attacker's path must be removed before
// the attacker moves onto its hex, which in turn precedes the final
// attack on the original target.
func TestPlanScenarioE6PathClearsBeforeMoverArrives(t *testing.T) {
	b := board.NewBoard()
	attacker := &board.Piece{Loc: board.NewLoc(3, 0), Side: board.Yellow, Type: board.Serpent}
	blocker := &board.Piece{Loc: board.NewLoc(2, 0), Side: board.Blue, Type: board.Rat}
	target := &board.Piece{Loc: board.NewLoc(1, 0), Side: board.Blue, Type: board.Rat}
	b.Place(attacker)
	b.Place(blocker)
	b.Place(target)
	if attacker.Stats().Speed != 2 || attacker.Stats().Range != 1 {
		t.Fatalf("fixture drift: expected speed 2 range 1 attacker, got %+v", attacker.Stats())
	}

	actions, err := Plan(context.Background(), b, board.Yellow, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var removalTime, moveTime, finalAttackTime int
	var sawRemoval, sawMove, sawFinalAttack bool
	for _, a := range actions {
		switch {
		case a.Kind == Attack && a.Defender == blocker.Loc:
			removalTime, sawRemoval = a.Time, true
		case a.Kind == Move && a.From == attacker.Loc && a.To == blocker.Loc:
			moveTime, sawMove = a.Time, true
		case a.Kind == Attack && a.Defender == target.Loc:
			finalAttackTime, sawFinalAttack = a.Time, true
		}
	}
	if !sawRemoval || !sawMove || !sawFinalAttack {
		t.Fatalf("expected a removal of the blocker, a move onto it, and a final attack on the target, got %v", actions)
	}
	if removalTime >= moveTime {
		t.Fatalf("expected the blocker's removal (t=%d) to precede the move onto its hex (t=%d)", removalTime, moveTime)
	}
	if moveTime >= finalAttackTime {
		t.Fatalf("expected the move onto the cleared hex (t=%d) to precede the final attack (t=%d)", moveTime, finalAttackTime)
	}
}

func TestPlanDeathtouchCannotTargetNecromancer(t *testing.T) {
	b := board.NewBoard()
	rat := &board.Piece{Loc: board.NewLoc(0, 0), Side: board.Yellow, Type: board.Rat}
	nec := &board.Piece{Loc: board.NewLoc(1, 0), Side: board.Blue, Type: board.BasicNecromancer}
	b.Place(rat)
	b.Place(nec)

	actions, err := Plan(context.Background(), b, board.Yellow, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, a := range actions {
		if a.Kind == Attack && a.Defender == nec.Loc {
			t.Fatalf("deathtouch attack against a necromancer must never be planned, got %v", actions)
		}
	}
}
