//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/spookygames/captain/internal/model"
	"github.com/spookygames/captain/internal/testutil"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	m.Run()
}

func setup(t *testing.T) {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
}

func TestPlanRepoSaveAndFetch(t *testing.T) {
	setup(t)
	repo := NewPlanRepo(testDB)

	rec := &model.PlanRecord{
		ID:        "plan-1",
		BoardHash: "abc123",
		Side:      "yellow",
		Actions:   []string{"move a3-b4@0", "attack b4xc5@1"},
		ComputeMS: 42,
	}
	if err := repo.SavePlan(context.Background(), rec); err != nil {
		t.Fatalf("save plan: %v", err)
	}

	got, err := repo.PlanByID(context.Background(), "plan-1")
	if err != nil {
		t.Fatalf("plan by id: %v", err)
	}
	if got == nil {
		t.Fatal("expected a plan, got nil")
	}
	if got.BoardHash != rec.BoardHash || got.Side != rec.Side {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Actions) != 2 || got.Actions[0] != rec.Actions[0] {
		t.Fatalf("unexpected actions: %v", got.Actions)
	}
}

func TestPlanRepoRecentPlans(t *testing.T) {
	setup(t)
	repo := NewPlanRepo(testDB)

	for i, id := range []string{"plan-a", "plan-b", "plan-c"} {
		rec := &model.PlanRecord{
			ID:        id,
			BoardHash: "hash",
			Side:      "blue",
			Actions:   []string{"move a0-a1@0"},
			ComputeMS: int64(i),
		}
		if err := repo.SavePlan(context.Background(), rec); err != nil {
			t.Fatalf("save plan %s: %v", id, err)
		}
	}

	recent, err := repo.RecentPlans(context.Background(), "blue", 2)
	if err != nil {
		t.Fatalf("recent plans: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent plans, got %d", len(recent))
	}
}

func TestPlanRepoByIDMissing(t *testing.T) {
	setup(t)
	repo := NewPlanRepo(testDB)

	got, err := repo.PlanByID(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("plan by id: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing plan, got %+v", got)
	}
}
