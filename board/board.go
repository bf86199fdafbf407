package board

// Terrain holds the per-hex terrain bitmasks of a board. Firestorm and
// graveyards only matter to income/persistence bookkeeping owned by the
// external rules engine; the planner treats them as ordinary masks, the
// same shape as Water.
type Terrain struct {
	Water      Bitmask
	Earthquake Bitmask
	Whirlwind  Bitmask
	Firestorm  Bitmask
	Graveyards Bitmask
}

// Board is a read-only snapshot of one board: the set of pieces keyed by
// location, terrain, and per-side piece/spawner bitboards. Invariant: at
// most one piece per location; the two sides' piece bitboards are
// disjoint. Mirrors diplomacy.GameState's role as the planner's read-only
// input snapshot.
type Board struct {
	Pieces    map[Loc]*Piece
	Terrain   Terrain
	SidePiece [2]Bitmask // indexed by Side
	Spawners  [2]Bitmask
}

// NewBoard returns an empty board ready to accept pieces via Place.
func NewBoard() *Board {
	return &Board{Pieces: make(map[Loc]*Piece)}
}

// PieceAt returns the piece at loc, or nil.
func (b *Board) PieceAt(loc Loc) *Piece { return b.Pieces[loc] }

// Place adds a piece to the board, maintaining bitboard invariants. Panics
// if the destination is already occupied — a programming-error guard, not
// a runtime validation (callers only place onto known-empty hexes).
func (b *Board) Place(p *Piece) {
	if _, exists := b.Pieces[p.Loc]; exists {
		panic("board: location already occupied")
	}
	b.Pieces[p.Loc] = p
	b.SidePiece[p.Side] = b.SidePiece[p.Side].Set(p.Loc)
	if p.Stats().Spawner {
		b.Spawners[p.Side] = b.Spawners[p.Side].Set(p.Loc)
	}
}

// Remove deletes the piece at loc, if any.
func (b *Board) Remove(loc Loc) {
	p, ok := b.Pieces[loc]
	if !ok {
		return
	}
	delete(b.Pieces, loc)
	b.SidePiece[p.Side] = b.SidePiece[p.Side].Clear(loc)
	b.Spawners[p.Side] = b.Spawners[p.Side].Clear(loc)
}

// MovePiece relocates the piece at from to to, which must be empty.
func (b *Board) MovePiece(from, to Loc) {
	p, ok := b.Pieces[from]
	if !ok {
		return
	}
	delete(b.Pieces, from)
	b.SidePiece[p.Side] = b.SidePiece[p.Side].Clear(from)
	spawner := b.Spawners[p.Side].Test(from)
	b.Spawners[p.Side] = b.Spawners[p.Side].Clear(from)
	p.Loc = to
	b.Pieces[to] = p
	b.SidePiece[p.Side] = b.SidePiece[p.Side].Set(to)
	if spawner {
		b.Spawners[p.Side] = b.Spawners[p.Side].Set(to)
	}
}

// PiecesOf returns all pieces belonging to side, in ascending-Idx order for
// determinism.
func (b *Board) PiecesOf(side Side) []*Piece {
	var out []*Piece
	for _, l := range b.SidePiece[side].Locs() {
		out = append(out, b.Pieces[l])
	}
	return out
}

// OccupiedMask returns the bitmask of every occupied hex.
func (b *Board) OccupiedMask() Bitmask {
	return b.SidePiece[Yellow].Or(b.SidePiece[Blue])
}

// GroundPropagationMask returns the mask ground units may pass through:
// every hex except water and enemy-occupied hexes are handled by the
// combat graph, not here — this mask only encodes terrain, matching
// spec.md's "ground units additionally remove water".
func (b *Board) GroundPropagationMask() Bitmask {
	return b.Terrain.Water.Not()
}

// Clone returns a deep copy of the board. Mutations to the clone do not
// affect the original — needed because the generator's action extractor
// simulates damage accumulation on a local copy (spec.md §4.8). Mirrors
// diplomacy.GameState.Clone.
func (b *Board) Clone() *Board {
	c := &Board{
		Pieces:    make(map[Loc]*Piece, len(b.Pieces)),
		Terrain:   b.Terrain,
		SidePiece: b.SidePiece,
		Spawners:  b.Spawners,
	}
	for l, p := range b.Pieces {
		cp := *p
		c.Pieces[l] = &cp
	}
	return c
}
