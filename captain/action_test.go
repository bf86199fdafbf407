package captain

import (
	"testing"

	"github.com/spookygames/captain/board"
)

func TestActionStringParseRoundTrip(t *testing.T) {
	cases := []Action{
		{Kind: Move, From: board.NewLoc(0, 3), To: board.NewLoc(1, 4), Time: 0},
		{Kind: Attack, From: board.NewLoc(1, 4), Defender: board.NewLoc(2, 5), Time: 1},
		{Kind: Blink, From: board.NewLoc(1, 4), To: board.NewLoc(2, 5), Time: 2},
		{Kind: MoveCyclic, Cycle: []board.Loc{board.NewLoc(0, 1), board.NewLoc(1, 2), board.NewLoc(2, 3), board.NewLoc(0, 1)}, Time: 0},
	}

	for _, want := range cases {
		s := want.String()
		got, err := ParseAction(s)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", s, err)
		}
		if got.String() != s {
			t.Fatalf("round trip mismatch: %q -> %+v -> %q", s, got, got.String())
		}
	}
}

func TestParseActionRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"move",
		"move a3b4@0",
		"hover a3-b4@0",
		"movecyclic a0-b1@0",
	}
	for _, s := range bad {
		if _, err := ParseAction(s); err == nil {
			t.Fatalf("expected error parsing %q", s)
		}
	}
}

func TestActionStringFormats(t *testing.T) {
	a := Action{Kind: Attack, From: board.NewLoc(0, 0), Defender: board.NewLoc(1, 1), Time: 3}
	if got, want := a.String(), "attack a0xb1@3"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
