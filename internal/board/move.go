package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: flag (see Flag* constants)
//
// The flag occupies the full high nibble so every special case (capture,
// en passant, castling, and all eight promotion variants) is represented
// without a separate promotion field to decode.
type Move uint16

// Move flags. Bit 3 (0x8) marks a promotion; bit 2 (0x4) marks a capture.
type MoveFlag uint16

const (
	FlagQuiet          MoveFlag = 0x0
	FlagDoublePawnPush MoveFlag = 0x1
	FlagKingCastle     MoveFlag = 0x2
	FlagQueenCastle    MoveFlag = 0x3
	FlagCapture        MoveFlag = 0x4
	FlagEnPassant      MoveFlag = 0x5
	FlagPromoKnight    MoveFlag = 0x8
	FlagPromoBishop    MoveFlag = 0x9
	FlagPromoRook      MoveFlag = 0xA
	FlagPromoQueen     MoveFlag = 0xB
	FlagPromoKnightCap MoveFlag = 0xC
	FlagPromoBishopCap MoveFlag = 0xD
	FlagPromoRookCap   MoveFlag = 0xE
	FlagPromoQueenCap  MoveFlag = 0xF
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

func encode(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

// NewQuietMove creates a non-capturing, non-special move.
func NewQuietMove(from, to Square) Move {
	return encode(from, to, FlagQuiet)
}

// NewCaptureMove creates an ordinary capturing move.
func NewCaptureMove(from, to Square) Move {
	return encode(from, to, FlagCapture)
}

// NewDoublePawnPush creates a two-square pawn advance.
func NewDoublePawnPush(from, to Square) Move {
	return encode(from, to, FlagDoublePawnPush)
}

// NewKingCastle creates a kingside castling move (encoded as the king's move).
func NewKingCastle(from, to Square) Move {
	return encode(from, to, FlagKingCastle)
}

// NewQueenCastle creates a queenside castling move (encoded as the king's move).
func NewQueenCastle(from, to Square) Move {
	return encode(from, to, FlagQueenCastle)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return encode(from, to, FlagEnPassant)
}

// promoFlags maps a promotion PieceType to the quiet/capture flag pair.
var promoFlags = map[PieceType][2]MoveFlag{
	Knight: {FlagPromoKnight, FlagPromoKnightCap},
	Bishop: {FlagPromoBishop, FlagPromoBishopCap},
	Rook:   {FlagPromoRook, FlagPromoRookCap},
	Queen:  {FlagPromoQueen, FlagPromoQueenCap},
}

// NewPromotion creates a promotion move, capturing or not.
func NewPromotion(from, to Square, promo PieceType, capture bool) Move {
	pair := promoFlags[promo]
	if capture {
		return encode(from, to, pair[1])
	}
	return encode(from, to, pair[0])
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move's flag nibble.
func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 12) & 0xF)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flag()&0x8 != 0
}

// IsCapture returns true if this move captures a piece (including en passant).
func (m Move) IsCapture() bool {
	f := m.Flag()
	return f == FlagEnPassant || f == FlagCapture || (f&0x8 != 0 && f&0x4 != 0)
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsCastling returns true if this move is a castling move.
func (m Move) IsCastling() bool {
	f := m.Flag()
	return f == FlagKingCastle || f == FlagQueenCastle
}

// IsDoublePawnPush returns true if this is a two-square pawn advance.
func (m Move) IsDoublePawnPush() bool {
	return m.Flag() == FlagDoublePawnPush
}

// IsQuiet returns true if the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// Promotion returns the promotion piece type. Only meaningful if IsPromotion() is true.
func (m Move) Promotion() PieceType {
	switch m.Flag() &^ 0x4 {
	case FlagPromoKnight:
		return Knight
	case FlagPromoBishop:
		return Bishop
	case FlagPromoRook:
		return Rook
	case FlagPromoQueen:
		return Queen
	default:
		return NoPieceType
	}
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}
		s += string(promoChars[m.Promotion()])
	}

	return s
}

// ParseMove parses a UCI format move string against a position, to recover
// the flag bits a bare "from-to[promo]" string cannot encode on its own.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()
	capture := pos.PieceAt(to) != NoPiece

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo, capture), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		if to.File() > from.File() {
			return NewKingCastle(from, to), nil
		}
		return NewQueenCastle(from, to), nil
	}

	if pt == Pawn && to == pos.EnPassant && pos.EnPassant != NoSquare {
		return NewEnPassant(from, to), nil
	}

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		return NewDoublePawnPush(from, to), nil
	}

	if capture {
		return NewCaptureMove(from, to), nil
	}
	return NewQuietMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
