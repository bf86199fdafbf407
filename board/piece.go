package board

// PieceState is the mutable per-turn state of a piece.
type PieceState struct {
	Moved       bool
	AttacksUsed int
	DamageTaken int
	Exhausted   bool
}

// Piece is an entity with a location, a side, a unit type, and mutable
// per-turn state.
type Piece struct {
	Loc   Loc
	Side  Side
	Type  UnitType
	State PieceState
}

// Stats returns the immutable stats for this piece's unit type.
func (p *Piece) Stats() *UnitStats { return &Stats[p.Type] }

// Alive reports whether the piece has not taken lethal damage.
func (p *Piece) Alive() bool { return p.State.DamageTaken < p.Stats().Defense }

// AttacksRemaining returns how many more attacks this piece may make.
func (p *Piece) AttacksRemaining() int {
	return p.Stats().NumAttacks - p.State.AttacksUsed
}
