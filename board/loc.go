// Package board holds the hex-grid board model shared by the attack-phase
// planner: locations, moves, pieces, unit stats, and the board snapshot
// itself.
package board

import "fmt"

// Width and Height are the fixed dimensions of a board: 10x10 hexes.
const (
	Width  = 10
	Height = 10
	Size   = Width * Height
)

// Loc is a hex location (x, y) with 0 <= x,y < Width/Height.
type Loc struct {
	X, Y int8
}

// NewLoc constructs a Loc, panicking if the coordinates are out of range.
// Used only at board-construction time, never inside the hot planner loop.
func NewLoc(x, y int) Loc {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		panic(fmt.Sprintf("board: location (%d,%d) out of range", x, y))
	}
	return Loc{int8(x), int8(y)}
}

// Idx returns the single-byte encoding y*10+x used as the SMT bit-vector
// constant for this location.
func (l Loc) Idx() int { return int(l.Y)*Width + int(l.X) }

// LocFromIdx is the inverse of Idx.
func LocFromIdx(idx int) Loc {
	return Loc{int8(idx % Width), int8(idx / Width)}
}

// InBounds reports whether l lies on the board.
func (l Loc) InBounds() bool {
	return l.X >= 0 && l.X < Width && l.Y >= 0 && l.Y < Height
}

// Dist returns the hex distance between a and b: max(|dx|,|dy|,|dx+dy|).
func Dist(a, b Loc) int {
	dx := int(a.X) - int(b.X)
	dy := int(a.Y) - int(b.Y)
	return maxAbs3(dx, dy, dx+dy)
}

func maxAbs3(a, b, c int) int {
	a, b, c = abs(a), abs(b), abs(c)
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Neighbors returns the (up to 6) in-bounds neighbors of l, in a fixed order.
func (l Loc) Neighbors() []Loc {
	out := make([]Loc, 0, 6)
	deltas := [6][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {1, -1}, {-1, 1}}
	for _, d := range deltas {
		nx, ny := int(l.X)+d[0], int(l.Y)+d[1]
		if nx >= 0 && nx < Width && ny >= 0 && ny < Height {
			out = append(out, Loc{int8(nx), int8(ny)})
		}
	}
	return out
}

// String renders a location in the "file rank" wire form: file in 'a'..'j',
// rank in '0'..'9'.
func (l Loc) String() string {
	return fmt.Sprintf("%c%d", 'a'+byte(l.X), l.Y)
}

// ParseLoc parses the "file rank" wire form produced by String.
func ParseLoc(s string) (Loc, error) {
	if len(s) != 2 {
		return Loc{}, fmt.Errorf("board: invalid location %q", s)
	}
	x := int(s[0] - 'a')
	y := int(s[1] - '0')
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return Loc{}, fmt.Errorf("board: invalid location %q", s)
	}
	return Loc{int8(x), int8(y)}, nil
}

// Move is an ordered pair (From, To). From == To is a legal self-move.
type Move struct {
	From, To Loc
}
