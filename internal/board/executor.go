package board

// castlingRightsMask[sq] is ANDed into CastlingRights whenever a move's
// from- or to-square touches sq, so that moving or capturing a rook (or
// moving a king) clears exactly the rights tied to that square. Squares
// that never affect castling rights map to AllCastling (no bits cleared).
var castlingRightsMask [64]CastlingRights

func init() {
	for sq := Square(0); sq < 64; sq++ {
		castlingRightsMask[sq] = AllCastling
	}
	castlingRightsMask[E1] = AllCastling &^ (WhiteKingSideCastle | WhiteQueenSideCastle)
	castlingRightsMask[A1] = AllCastling &^ WhiteQueenSideCastle
	castlingRightsMask[H1] = AllCastling &^ WhiteKingSideCastle
	castlingRightsMask[E8] = AllCastling &^ (BlackKingSideCastle | BlackQueenSideCastle)
	castlingRightsMask[A8] = AllCastling &^ BlackQueenSideCastle
	castlingRightsMask[H8] = AllCastling &^ BlackKingSideCastle
}

// UndoRecord holds everything needed to reverse one applied move, plus the
// hashes before and after it, so the Executor can answer repetition queries
// (which compare against HashBefore) without recomputing hashes from scratch.
type UndoRecord struct {
	Move           Move
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	HashBefore     uint64
	PawnKeyBefore  uint64
	Checkers       Bitboard
	HashAfter      uint64
	Irreversible   bool // pawn move or capture: repetition scanning stops here
}

// Executor owns a Position and the LIFO undo history needed to make and
// unmake moves, detect draws by repetition, and run legality checks.
// It lives in package board because undo application needs Position's
// unexported mutators (setPiece/removePiece/movePiece).
type Executor struct {
	pos     *Position
	history []UndoRecord
}

// NewExecutor wraps a position for move execution.
func NewExecutor(pos *Position) *Executor {
	return &Executor{pos: pos, history: make([]UndoRecord, 0, 64)}
}

// Position returns the underlying position.
func (e *Executor) Position() *Position {
	return e.pos
}

// History returns the undo records applied so far, oldest first.
func (e *Executor) History() []UndoRecord {
	return e.history
}

// Ply returns the number of moves made since the executor was created.
func (e *Executor) Ply() int {
	return len(e.history)
}

// Make applies a move, pushing an undo record onto the internal stack.
// The caller is responsible for only passing pseudo-legal moves generated
// against the current position; Make does not itself verify legality.
func (e *Executor) Make(m Move) {
	p := e.pos
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)
	pt := piece.Type()

	rec := UndoRecord{
		Move:           m,
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		HashBefore:     p.Hash,
		PawnKeyBefore:  p.PawnKey,
		Checkers:       p.Checkers,
	}

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	if m.IsEnPassant() {
		var capturedSq Square
		if us == White {
			capturedSq = to + 8
		} else {
			capturedSq = to - 8
		}
		rec.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.PawnKey ^= zobristPiece[them][Pawn][capturedSq]
	} else if captured := p.PieceAt(to); captured != NoPiece {
		rec.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
		if captured.Type() == Pawn {
			p.PawnKey ^= zobristPiece[them][Pawn][to]
		}
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]
	if pt == Pawn {
		p.PawnKey ^= zobristPiece[us][Pawn][from]
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsCastling() {
		rank := from.Rank()
		var rookFrom, rookTo Square
		if m.Flag() == FlagKingCastle {
			rookFrom = NewSquare(7, rank)
			rookTo = NewSquare(5, rank)
		} else {
			rookFrom = NewSquare(0, rank)
			rookTo = NewSquare(3, rank)
		}
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	p.CastlingRights &= castlingRightsMask[from] & castlingRightsMask[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	if m.IsDoublePawnPush() {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	rec.Irreversible = pt == Pawn || rec.CapturedPiece != NoPiece
	if rec.Irreversible {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	rec.HashAfter = p.Hash
	e.history = append(e.history, rec)
}

// Unmake reverses the most recently made move.
func (e *Executor) Unmake() {
	n := len(e.history)
	rec := e.history[n-1]
	e.history = e.history[:n-1]

	p := e.pos
	m := rec.Move
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = rec.CastlingRights
	p.EnPassant = rec.EnPassant
	p.HalfMoveClock = rec.HalfMoveClock
	p.Hash = rec.HashBefore
	p.PawnKey = rec.PawnKeyBefore
	p.Checkers = rec.Checkers
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][promoPt] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(to)
	}

	p.movePiece(to, from)

	if m.IsCastling() {
		rank := from.Rank()
		var rookFrom, rookTo Square
		if m.Flag() == FlagKingCastle {
			rookFrom = NewSquare(7, rank)
			rookTo = NewSquare(5, rank)
		} else {
			rookFrom = NewSquare(0, rank)
			rookTo = NewSquare(3, rank)
		}
		p.movePiece(rookTo, rookFrom)
	}

	if rec.CapturedPiece != NoPiece {
		if m.IsEnPassant() {
			var capturedSq Square
			if us == White {
				capturedSq = to + 8
			} else {
				capturedSq = to - 8
			}
			p.setPiece(rec.CapturedPiece, capturedSq)
		} else {
			p.setPiece(rec.CapturedPiece, to)
		}
	}
}

// IsMoveLegal reports whether a pseudo-legal move is legal, i.e. does not
// leave the mover's own king in check. It mutates and restores the position via Make/Unmake, so
// any path out of this function leaves the position unchanged.
func (e *Executor) IsMoveLegal(m Move) bool {
	p := e.pos
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	if from == ksq && !m.IsCastling() {
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), them, occ) == 0
	}
	if m.IsCastling() {
		// Emptiness and check-through-castle-path were already validated
		// during generation.
		return true
	}

	e.Make(m)
	attacked := p.IsSquareAttacked(ksq, them)
	e.Unmake()
	return !attacked
}

// GenerateLegalMoves returns every legal move in the current position.
func (e *Executor) GenerateLegalMoves() *MoveList {
	pseudo := e.pos.GeneratePseudoLegalMoves()
	result := NewMoveList()
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if e.IsMoveLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (e *Executor) HasLegalMoves() bool {
	pseudo := e.pos.GeneratePseudoLegalMoves()
	for i := 0; i < pseudo.Len(); i++ {
		if e.IsMoveLegal(pseudo.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is checkmated.
func (e *Executor) IsCheckmate() bool {
	return e.pos.InCheck() && !e.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (e *Executor) IsStalemate() bool {
	return !e.pos.InCheck() && !e.HasLegalMoves()
}

// IsFiftyMoveDraw reports whether the 50-move (100-halfmove) rule applies.
func (e *Executor) IsFiftyMoveDraw() bool {
	return e.pos.HalfMoveClock >= 100
}

// IsThreefoldRepetition reports whether the current position has occurred
// three or more times since the last irreversible move (pawn move or
// capture). The current position counts once; the undo history is then
// scanned backward from the most recent entry, comparing the position each
// move was made from (HashBefore) until an irreversible move is reached.
func (e *Executor) IsThreefoldRepetition() bool {
	count := 1
	target := e.pos.Hash
	for i := len(e.history) - 1; i >= 0; i-- {
		rec := e.history[i]
		if rec.Irreversible {
			break
		}
		if rec.HashBefore == target {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// IsDraw reports whether the position is a draw by stalemate, the 50-move
// rule, threefold repetition, or insufficient material.
func (e *Executor) IsDraw() bool {
	return e.IsStalemate() ||
		e.IsFiftyMoveDraw() ||
		e.IsThreefoldRepetition() ||
		e.pos.IsInsufficientMaterial()
}

// IsTerminal reports whether the game has ended (checkmate, stalemate, or draw).
func (e *Executor) IsTerminal() bool {
	return e.IsCheckmate() || e.IsDraw()
}

// Perft counts leaf nodes at the given depth, used to validate move
// generation correctness against known reference counts.
func (e *Executor) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := e.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		e.Make(moves.Get(i))
		nodes += e.Perft(depth - 1)
		e.Unmake()
	}
	return nodes
}
