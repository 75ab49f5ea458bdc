package engine

import (
	"testing"

	"github.com/diversiam/chesscore/internal/board"
)

func TestScoreMovesPrioritizesTTMove(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GeneratePseudoLegalMoves()

	ttMove := moves.Get(0)
	mo := NewMoveOrderer()
	scores := mo.ScoreMoves(pos, moves, 0, ttMove)

	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i) == ttMove {
			continue
		}
		if scores[i] >= TTMoveScore {
			t.Errorf("non-TT move %s scored >= TTMoveScore", moves.Get(i))
		}
	}
}

func TestScoreMovesRanksCapturesAboveQuiet(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := pos.GeneratePseudoLegalMoves()
	mo := NewMoveOrderer()
	scores := mo.ScoreMoves(pos, moves, 0, board.NoMove)

	var captureScore, quietScore int
	var sawCapture, sawQuiet bool
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsCapture() {
			captureScore = scores[i]
			sawCapture = true
		} else {
			quietScore = scores[i]
			sawQuiet = true
		}
	}
	if !sawCapture || !sawQuiet {
		t.Fatal("expected both a capture and a quiet move in this position")
	}
	if captureScore <= quietScore {
		t.Errorf("capture score %d should outrank quiet score %d", captureScore, quietScore)
	}
}

func TestPickMoveSelectsHighestRemaining(t *testing.T) {
	moves := board.NewMoveList()
	moves.Add(board.NewQuietMove(board.A2, board.A3))
	moves.Add(board.NewQuietMove(board.B2, board.B3))
	moves.Add(board.NewQuietMove(board.C2, board.C3))
	scores := []int{5, 50, 10}

	PickMove(moves, scores, 0)

	if moves.Get(0) != board.NewQuietMove(board.B2, board.B3) {
		t.Errorf("expected the highest-scored move to move to index 0, got %s", moves.Get(0))
	}
	if scores[0] != 50 {
		t.Errorf("expected scores to be swapped alongside moves, got %d", scores[0])
	}
}

func TestUpdateKillersShiftsSlots(t *testing.T) {
	mo := NewMoveOrderer()
	m1 := board.NewQuietMove(board.A2, board.A3)
	m2 := board.NewQuietMove(board.B2, board.B3)

	mo.UpdateKillers(m1, 0)
	mo.UpdateKillers(m2, 0)

	if mo.killers[0][0] != m2 || mo.killers[0][1] != m1 {
		t.Errorf("killer slots = %v, %v; want %v, %v", mo.killers[0][0], mo.killers[0][1], m2, m1)
	}

	// Re-recording the same move must not duplicate it into both slots.
	mo.UpdateKillers(m2, 0)
	if mo.killers[0][1] == m2 {
		t.Error("recording an existing killer duplicated it into the second slot")
	}
}

func TestUpdateHistoryAccumulatesAndClamps(t *testing.T) {
	mo := NewMoveOrderer()
	m := board.NewQuietMove(board.A2, board.A3)

	mo.UpdateHistory(m, 10, true)
	if mo.history[board.A2][board.A3] != 100 {
		t.Errorf("history = %d, want 100", mo.history[board.A2][board.A3])
	}

	mo.UpdateHistory(m, 10, false)
	mo.UpdateHistory(m, 10, false)
	if mo.history[board.A2][board.A3] >= 100 {
		t.Error("a bad-move penalty should have reduced the history score")
	}

	// Large negative bonuses clamp at -400000 rather than underflowing.
	for i := 0; i < 50; i++ {
		mo.UpdateHistory(m, 100, false)
	}
	if mo.history[board.A2][board.A3] < -400000 {
		t.Errorf("history score %d went below the -400000 floor", mo.history[board.A2][board.A3])
	}
}
