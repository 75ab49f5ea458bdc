package engine

import (
	"context"
	"time"

	"github.com/diversiam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs iterative-deepening negamax alpha-beta search against
// an Executor-owned position. Exactly one Search call runs at a time; the
// caller is responsible for cancelling and joining any prior call before
// starting another (see Facade).
type Searcher struct {
	exec    *board.Executor
	tt      *TranspositionTable
	orderer *MoveOrderer

	nodes uint64
	stop  <-chan struct{}
	tm    *TimeManager

	pv PVTable

	rootBestMove  board.Move
	rootBestScore int

	// rootScores holds the negamax score of every root move explored. Each
	// entry is written when that move's subtree finishes and is kept across
	// depths, so after a cancelled depth the moves it reached carry that
	// depth's scores and the others keep the previous depth's. The root's
	// alpha rises as moves improve on it, so a score is exact only for a
	// move that raised the best score when it was searched; for any other
	// move it is an upper bound. Consulted by the facade's root-move
	// randomization instead of a shallow one-ply re-evaluation.
	rootScores map[board.Move]int
}

// NewSearcher creates a new searcher sharing the given transposition table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
	}
}

// Nodes returns the number of nodes searched during the last Search call.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Result is the outcome of a completed or cancelled search.
type Result struct {
	Move      board.Move
	Score     int
	Depth     int
	NoLegal   bool
	Cancelled bool
}

// Search runs iterative deepening from depth 1 to maxDepth, returning the
// best move found at the last fully completed depth. stop is polled
// cooperatively at every node entry and move-loop iteration; on
// cancellation the exec's position is left exactly as it was passed in,
// since every Make during the search is paired with an Unmake before the
// cancellation check propagates outward.
func (s *Searcher) Search(ctx context.Context, exec *board.Executor, maxDepth int, thinkingBudget time.Duration) Result {
	s.exec = exec
	s.nodes = 0
	s.orderer.Clear()
	s.tt.NewSearch()
	s.stop = ctx.Done()

	root := exec.GenerateLegalMoves()
	if root.Len() == 0 {
		return Result{NoLegal: true}
	}

	s.rootBestMove = root.Get(0)
	s.rootBestScore = 0
	s.rootScores = make(map[board.Move]int, root.Len())

	tm := NewTimeManager()
	tm.Init(thinkingBudget)
	s.tm = tm

	lastCompletedMove := board.NoMove
	lastCompletedScore := 0
	lastCompletedDepth := 0
	stableDepths := 0
	bestMoveChanges := 0

	for depth := 1; depth <= maxDepth; depth++ {
		s.pv.length[0] = 0
		score := s.negamax(depth, 0, -Infinity, Infinity)

		if s.cancelled() {
			break
		}

		lastCompletedDepth = depth
		lastCompletedScore = score
		newBest := s.rootBestMove
		if s.pv.length[0] > 0 {
			newBest = s.pv.moves[0][0]
		}
		if newBest == lastCompletedMove {
			stableDepths++
			tm.AdjustForStability(stableDepths)
		} else {
			stableDepths = 0
			if lastCompletedMove != board.NoMove {
				bestMoveChanges++
				tm.AdjustForInstability(bestMoveChanges)
			}
		}
		lastCompletedMove = newBest

		if tm.PastOptimum() {
			break
		}
	}

	if lastCompletedDepth == 0 {
		// Cancelled before depth 1 finished: fall back to the first legal
		// move so a caller that ignores Cancelled still has something
		// playable, though Facade reports Cancelled in this case.
		return Result{Move: root.Get(0), Cancelled: true}
	}

	return Result{
		Move:      lastCompletedMove,
		Score:     lastCompletedScore,
		Depth:     lastCompletedDepth,
		Cancelled: s.cancelled(),
	}
}

// cancelled reports whether the search should stop: either the caller's
// context fired, or thinkingBudget's hard maximum has elapsed. Checking
// ShouldStop here (not just PastOptimum between completed depths) is what
// gives ThinkingBudget node-level reach, matching the "checked at every
// recursive entry" requirement even when a single depth's iteration runs
// long.
func (s *Searcher) cancelled() bool {
	select {
	case <-s.stop:
		return true
	default:
	}
	return s.tm != nil && s.tm.ShouldStop()
}

// negamax implements negamax with alpha-beta pruning over the Executor.
// Every recursive call that performs exec.Make is matched by exactly one
// exec.Unmake before returning, on every path including the cancellation
// check, so a cancelled search leaves the position unchanged.
func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if s.cancelled() {
		return 0
	}
	s.nodes++
	s.pv.length[ply] = ply

	pos := s.exec.Position()

	if ply > 0 && s.exec.IsDraw() {
		return 0
	}

	var ttMove board.Move
	ttEntry, found := s.tt.Probe(pos.Hash)
	if found {
		ttMove = ttEntry.BestMove
		// No cutoff at the root: its move loop fills the PV and root scores.
		if ply > 0 && int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := pos.InCheck()

	// Null-move pruning: if the side to move could pass and the opponent
	// still can't beat beta, this node is very likely a cutoff. Skipped in
	// check (the null move would be illegal) and in pawn-only endings where
	// zugzwang makes the assumption unsound.
	const nullMoveReduction = 2
	if depth >= 3 && !inCheck && ply > 0 && pos.HasNonPawnMaterial() {
		undo := pos.MakeNullMove()
		score := -s.negamax(depth-1-nullMoveReduction, ply+1, -beta, -beta+1)
		pos.UnmakeNullMove(undo)

		if s.cancelled() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	moves := s.exec.GenerateLegalMoves()

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		s.exec.Make(move)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.exec.Unmake()

		if s.cancelled() {
			return 0
		}

		if ply == 0 {
			s.rootScores[move] = score
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)
			if !move.IsCapture() {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
			}
			return score
		}
	}

	s.tt.Store(pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

// quiescence extends the search along captures only, until the position is
// quiet, to avoid the horizon effect at the leaves of the main search.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	const maxQuiescencePly = 32

	pos := s.exec.Position()

	if ply >= MaxPly || ply > maxQuiescencePly {
		return Evaluate(pos)
	}
	if s.cancelled() {
		return 0
	}
	s.nodes++

	standPat := Evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	bigDelta := QueenValue
	if standPat+bigDelta < alpha {
		return alpha
	}

	moves := pos.GenerateCaptures()
	scores := s.orderer.ScoreMoves(pos, moves, ply, board.NoMove)

	inCheck := pos.InCheck()

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck {
			var captureValue int
			if move.IsEnPassant() {
				captureValue = PawnValue
			} else if captured := pos.PieceAt(move.To()); captured != board.NoPiece {
				captureValue = pieceValues[captured.Type()]
			}
			if move.IsPromotion() {
				captureValue += QueenValue - PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		s.exec.Make(move)
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.exec.Unmake()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// RootScore reports the score the last Search recorded for a root move
// (exact or an upper bound, as described on rootScores), and whether that
// move was explored at all (it wasn't if the search was cancelled before
// reaching it at depth 1).
func (s *Searcher) RootScore(move board.Move) (int, bool) {
	score, ok := s.rootScores[move]
	return score, ok
}
