package board

import "testing"

// snapshot captures everything Make/Unmake round-tripping must restore.
type snapshot struct {
	pieces   [2][6]Bitboard
	occupied [2]Bitboard
	all      Bitboard
	side     Color
	castling CastlingRights
	ep       Square
	halfmove int
	fullmove int
	hash     uint64
}

func takeSnapshot(p *Position) snapshot {
	return snapshot{
		pieces:   p.Pieces,
		occupied: p.Occupied,
		all:      p.AllOccupied,
		side:     p.SideToMove,
		castling: p.CastlingRights,
		ep:       p.EnPassant,
		halfmove: p.HalfMoveClock,
		fullmove: p.FullMoveNumber,
		hash:     p.Hash,
	}
}

func (s snapshot) diff(other snapshot) string {
	switch {
	case s.pieces != other.pieces:
		return "piece bitboards differ"
	case s.occupied != other.occupied:
		return "occupancy bitboards differ"
	case s.all != other.all:
		return "AllOccupied differs"
	case s.side != other.side:
		return "side to move differs"
	case s.castling != other.castling:
		return "castling rights differ"
	case s.ep != other.ep:
		return "en passant target differs"
	case s.halfmove != other.halfmove:
		return "halfmove clock differs"
	case s.fullmove != other.fullmove:
		return "fullmove number differs"
	case s.hash != other.hash:
		return "hash differs"
	default:
		return ""
	}
}

// TestMakeUnmakeRoundTrip validates P1 (round-trip identity) and P2 (hash
// consistency) for every legal move reachable within a few plies of several
// representative positions.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		walkRoundTrip(t, NewExecutor(pos), 3)
	}
}

func walkRoundTrip(t *testing.T, e *Executor, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}

	before := takeSnapshot(e.pos)
	moves := e.GenerateLegalMoves()

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		e.Make(m)

		recomputed := e.pos.ComputeHash()
		if recomputed != e.pos.Hash {
			t.Errorf("move %s: incremental hash %x != recomputed %x", m, e.pos.Hash, recomputed)
		}
		checkOccupancyInvariant(t, e.pos, m)

		walkRoundTrip(t, e, depth-1)

		e.Unmake()
		after := takeSnapshot(e.pos)
		if d := before.diff(after); d != "" {
			t.Fatalf("move %s: make/unmake round trip failed: %s", m, d)
		}
	}
}

// checkOccupancyInvariant validates P3: White/Black occupancy are disjoint
// and their union (and the OR of all twelve piece bitboards) equals AllOccupied.
func checkOccupancyInvariant(t *testing.T, p *Position, context Move) {
	t.Helper()
	if p.Occupied[White]&p.Occupied[Black] != 0 {
		t.Errorf("after %s: White/Black occupancy overlap", context)
	}
	if p.Occupied[White]|p.Occupied[Black] != p.AllOccupied {
		t.Errorf("after %s: Occupied union != AllOccupied", context)
	}

	var fromPieces Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			fromPieces |= p.Pieces[c][pt]
		}
	}
	if fromPieces != p.AllOccupied {
		t.Errorf("after %s: OR of piece bitboards != AllOccupied", context)
	}

	// I7: pairwise-disjoint piece bitboards (no two piece types share a square).
	seen := Bitboard(0)
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			if bb&seen != 0 {
				t.Errorf("after %s: piece bitboards are not pairwise disjoint", context)
			}
			seen |= bb
		}
	}
}

// TestZobristTranspositionSymmetry covers P7: two positions reached by
// different move orders but identical board/side/castling/ep have the same
// hash.
func TestZobristTranspositionSymmetry(t *testing.T) {
	e1 := NewExecutor(NewPosition())
	e1.Make(mustMove(t, e1, "g1f3"))
	e1.Make(mustMove(t, e1, "g8f6"))
	e1.Make(mustMove(t, e1, "b1c3"))

	e2 := NewExecutor(NewPosition())
	e2.Make(mustMove(t, e2, "b1c3"))
	e2.Make(mustMove(t, e2, "g8f6"))
	e2.Make(mustMove(t, e2, "g1f3"))

	if e1.pos.Hash != e2.pos.Hash {
		t.Errorf("transposed move orders produced different hashes: %x vs %x", e1.pos.Hash, e2.pos.Hash)
	}
	if e1.pos.Hash != e1.pos.ComputeHash() {
		t.Error("incremental hash does not match recomputed hash")
	}
}

// TestLegalIsSubsetOfPseudoLegal covers P4: every legal move is also
// pseudo-legal, and every pseudo-legal move that is excluded leaves the
// mover's own king in check.
func TestLegalIsSubsetOfPseudoLegal(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	e := NewExecutor(pos)

	pseudo := e.pos.GeneratePseudoLegalMoves()
	legal := e.GenerateLegalMoves()

	for i := 0; i < legal.Len(); i++ {
		if !pseudo.Contains(legal.Get(i)) {
			t.Errorf("legal move %s is not in the pseudo-legal set", legal.Get(i))
		}
	}

	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if legal.Contains(m) {
			continue
		}
		if e.IsMoveLegal(m) {
			t.Errorf("move %s rejected from legal set but IsMoveLegal reports legal", m)
		}
	}
}

// TestTerminalExclusivity covers P6: checkmate and stalemate cannot both
// hold, and either one implies an empty legal move list.
func TestTerminalExclusivity(t *testing.T) {
	positions := []string{
		StartFEN,
		"R6k/6pp/8/8/8/8/8/K7 b - - 0 1", // checkmate
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", // stalemate
	}

	for _, fen := range positions {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		e := NewExecutor(pos)

		mate := e.IsCheckmate()
		stale := e.IsStalemate()
		if mate && stale {
			t.Errorf("%q: checkmate and stalemate both true", fen)
		}
		if (mate || stale) && e.GenerateLegalMoves().Len() != 0 {
			t.Errorf("%q: terminal position has legal moves", fen)
		}
	}
}
