// Package engine implements the chess search engine: evaluation,
// transposition table, move ordering, and the negamax driver.
package engine

import (
	"github.com/diversiam/chesscore/internal/board"
)

// Material values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// pieceValues is indexed by board.PieceType for quick lookup.
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Mobility weight per piece type: Pawn, Knight, Bishop, Rook, Queen, King.
var mobilityWeight = [6]int{0, 4, 5, 2, 1, 0}

// Passed pawn bonus indexed by rank from the pawn's own perspective
// (index 1 = rank 2, index 6 = about to promote).
var passedPawnBonus = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

// tempoBonus gives a small edge to the side to move.
const tempoBonus = 10

// bishopPairBonus rewards holding both bishops.
const bishopPairBonus = 30

// Piece-square tables, White's perspective, laid out rank 1 first: White
// indexes them with Square.Mirror(), Black with the square itself. Encourage central knights/bishops, king
// safety on the back rank, and central/advanced pawns.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingPST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var pstTables = [6]*[64]int{&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingPST}

// Evaluate returns a static score for the position from the side to
// move's perspective: material, piece-square placement, mobility, passed
// pawns, the bishop pair, and a tempo bonus. The search treats this as an oracle; it
// does not need to be a strong evaluator, only a cheap and consistent
// one.
func Evaluate(pos *board.Position) int {
	score := 0

	for pt := board.Pawn; pt <= board.King; pt++ {
		score += materialAndPST(pos, board.White, pt)
		score -= materialAndPST(pos, board.Black, pt)
	}

	score += mobility(pos, board.White) - mobility(pos, board.Black)
	score += passedPawns(pos, board.White) - passedPawns(pos, board.Black)

	if pos.Pieces[board.White][board.Bishop].PopCount() >= 2 {
		score += bishopPairBonus
	}
	if pos.Pieces[board.Black][board.Bishop].PopCount() >= 2 {
		score -= bishopPairBonus
	}

	if pos.SideToMove == board.White {
		score += tempoBonus
	} else {
		score -= tempoBonus
	}

	if pos.SideToMove == board.White {
		return score
	}
	return -score
}

func materialAndPST(pos *board.Position, c board.Color, pt board.PieceType) int {
	bb := pos.Pieces[c][pt]
	pst := pstTables[pt]
	total := 0
	for bb != 0 {
		sq := bb.PopLSB()
		total += pieceValues[pt]
		if c == board.White {
			total += pst[sq.Mirror()]
		} else {
			total += pst[sq]
		}
	}
	return total
}

func mobility(pos *board.Position, c board.Color) int {
	occupied := pos.AllOccupied
	own := pos.Occupied[c]
	total := 0

	knights := pos.Pieces[c][board.Knight]
	for knights != 0 {
		sq := knights.PopLSB()
		total += (board.KnightAttacks(sq) &^ own).PopCount() * mobilityWeight[board.Knight]
	}
	bishops := pos.Pieces[c][board.Bishop]
	for bishops != 0 {
		sq := bishops.PopLSB()
		total += (board.BishopAttacks(sq, occupied) &^ own).PopCount() * mobilityWeight[board.Bishop]
	}
	rooks := pos.Pieces[c][board.Rook]
	for rooks != 0 {
		sq := rooks.PopLSB()
		total += (board.RookAttacks(sq, occupied) &^ own).PopCount() * mobilityWeight[board.Rook]
	}
	queens := pos.Pieces[c][board.Queen]
	for queens != 0 {
		sq := queens.PopLSB()
		total += (board.QueenAttacks(sq, occupied) &^ own).PopCount() * mobilityWeight[board.Queen]
	}

	return total
}

func passedPawns(pos *board.Position, c board.Color) int {
	them := c.Other()
	enemyPawns := pos.Pieces[them][board.Pawn]
	ownPawns := pos.Pieces[c][board.Pawn]
	total := 0

	pawns := ownPawns
	for pawns != 0 {
		sq := pawns.PopLSB()
		file := sq.File()
		rank := sq.Rank()

		blockMask := board.Bitboard(0)
		for f := file - 1; f <= file+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			blockMask |= board.FileMask[f]
		}

		var ahead board.Bitboard
		if c == board.White {
			for r := rank + 1; r <= 7; r++ {
				ahead |= board.RankMask[r]
			}
		} else {
			for r := rank - 1; r >= 0; r-- {
				ahead |= board.RankMask[r]
			}
		}

		if enemyPawns&blockMask&ahead == 0 {
			relRank := sq.RelativeRank(c)
			total += passedPawnBonus[relRank]
		}
	}

	return total
}
