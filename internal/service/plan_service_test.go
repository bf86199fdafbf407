package service

import (
	"context"
	"testing"

	"github.com/spookygames/captain/board"
)

type fakeCache struct {
	stored map[string][]string
}

func newFakeCache() *fakeCache { return &fakeCache{stored: make(map[string][]string)} }

func (c *fakeCache) SetPlan(ctx context.Context, boardHash string, actions []string) error {
	c.stored[boardHash] = actions
	return nil
}
func (c *fakeCache) GetPlan(ctx context.Context, boardHash string) ([]string, bool, error) {
	a, ok := c.stored[boardHash]
	return a, ok, nil
}
func (c *fakeCache) InvalidatePlan(ctx context.Context, boardHash string) error {
	delete(c.stored, boardHash)
	return nil
}

func twoNecromancerBoard() *board.Board {
	b := board.NewBoard()
	b.Place(&board.Piece{Loc: board.NewLoc(0, 0), Side: board.Yellow, Type: board.BasicNecromancer})
	b.Place(&board.Piece{Loc: board.NewLoc(9, 9), Side: board.Blue, Type: board.BasicNecromancer})
	return b
}

func TestHashBoardDeterministic(t *testing.T) {
	b1 := twoNecromancerBoard()
	b2 := twoNecromancerBoard()
	if HashBoard(b1, board.Yellow) != HashBoard(b2, board.Yellow) {
		t.Fatal("expected identical boards to hash identically")
	}
	if HashBoard(b1, board.Yellow) == HashBoard(b1, board.Blue) {
		t.Fatal("expected different sides-to-move to hash differently")
	}
}

func TestPlanServiceCachesResult(t *testing.T) {
	b := twoNecromancerBoard()
	cache := newFakeCache()
	svc := NewPlanService(cache, nil, nil)

	actions, err := svc.Plan(context.Background(), b, board.Yellow)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	hash := HashBoard(b, board.Yellow)
	cached, hit, _ := cache.GetPlan(context.Background(), hash)
	if !hit {
		t.Fatal("expected plan to populate the cache")
	}
	if len(cached) != len(actions) {
		t.Fatalf("cached actions mismatch: got %v want %v", cached, actions)
	}
}
