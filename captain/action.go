package captain

import (
	"fmt"
	"strings"

	"github.com/spookygames/captain/board"
)

// ActionKind is the closed set of action shapes the extractor emits
// (spec.md §4.8, "Action extractor").
type ActionKind int

const (
	Move ActionKind = iota
	MoveCyclic
	Attack
	Blink
)

func (k ActionKind) String() string {
	switch k {
	case MoveCyclic:
		return "movecyclic"
	case Attack:
		return "attack"
	case Blink:
		return "blink"
	default:
		return "move"
	}
}

// Action is one concrete instruction in the emitted plan. Time orders
// actions within a turn; Cycle is populated only for MoveCyclic, listing
// the hexes visited in rotation order (spec.md §4.8, "cycle
// decomposition").
type Action struct {
	Kind     ActionKind
	From, To board.Loc
	Defender board.Loc
	Cycle    []board.Loc
	Time     int
}

// String renders the wire form used by captain's plan log and HTTP API:
// "move a3-b4@0", "attack a3xb4@2", "blink a3~b4@1", "movecyclic a1-b2-c3@0".
func (a Action) String() string {
	switch a.Kind {
	case Attack:
		return fmt.Sprintf("attack %sx%s@%d", a.From, a.Defender, a.Time)
	case Blink:
		return fmt.Sprintf("blink %s~%s@%d", a.From, a.To, a.Time)
	case MoveCyclic:
		parts := make([]string, 0, len(a.Cycle))
		for _, l := range a.Cycle {
			parts = append(parts, l.String())
		}
		return fmt.Sprintf("movecyclic %s@%d", strings.Join(parts, "-"), a.Time)
	default:
		return fmt.Sprintf("move %s-%s@%d", a.From, a.To, a.Time)
	}
}

// ParseAction parses the wire form produced by String.
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Action{}, fmt.Errorf("captain: invalid action %q", s)
	}
	body, tickStr, ok := strings.Cut(fields[1], "@")
	if !ok {
		return Action{}, fmt.Errorf("captain: invalid action %q", s)
	}
	var tick int
	if _, err := fmt.Sscanf(tickStr, "%d", &tick); err != nil {
		return Action{}, fmt.Errorf("captain: invalid action tick in %q: %w", s, err)
	}

	switch fields[0] {
	case "move":
		from, to, err := parsePair(body, "-")
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: Move, From: from, To: to, Time: tick}, nil
	case "attack":
		from, def, err := parsePair(body, "x")
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: Attack, From: from, Defender: def, Time: tick}, nil
	case "blink":
		from, to, err := parsePair(body, "~")
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: Blink, From: from, To: to, Time: tick}, nil
	case "movecyclic":
		locs := strings.Split(body, "-")
		if len(locs) < 3 {
			return Action{}, fmt.Errorf("captain: invalid movecyclic action %q", s)
		}
		cycle := make([]board.Loc, 0, len(locs))
		for _, ls := range locs {
			l, err := board.ParseLoc(ls)
			if err != nil {
				return Action{}, err
			}
			cycle = append(cycle, l)
		}
		return Action{Kind: MoveCyclic, Cycle: cycle, Time: tick}, nil
	default:
		return Action{}, fmt.Errorf("captain: unknown action verb %q", fields[0])
	}
}

func parsePair(s, sep string) (board.Loc, board.Loc, error) {
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return board.Loc{}, board.Loc{}, fmt.Errorf("captain: invalid action body %q", s)
	}
	from, err := board.ParseLoc(a)
	if err != nil {
		return board.Loc{}, board.Loc{}, err
	}
	to, err := board.ParseLoc(b)
	if err != nil {
		return board.Loc{}, board.Loc{}, err
	}
	return from, to, nil
}
