package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/diversiam/chesscore/internal/board"
)

// Sentinel errors for the facade's closed error taxonomy.
var (
	ErrIllegalMove = fmt.Errorf("move is not among the current legal moves")
	ErrNoHistory   = fmt.Errorf("no move to unmake")
)

// MoveOutcome is the result of a CPU move request.
type MoveOutcome struct {
	Move         board.Move
	NoLegalMoves bool
	Cancelled    bool
}

// Engine is the synchronous facade over a position, its move executor, and
// the asynchronous CPU search task. The position, undo history, and
// transposition table are owned by exactly one engine instance; reads and
// writes to them are serialized by mu. A search in flight is cancelled and
// joined before any synchronous mutator runs, so callers never observe the
// position mid-search.
type Engine struct {
	mu   sync.Mutex
	exec *board.Executor

	tt       *TranspositionTable
	searcher *Searcher

	searchCancel context.CancelFunc
	searchDone   chan struct{}

	rng *rand.Rand
}

// NewEngine creates an engine at the standard start position, with a
// transposition table sized in MB.
func NewEngine(ttSizeMB int) *Engine {
	return &Engine{
		exec:     board.NewExecutor(board.NewPosition()),
		tt:       NewTranspositionTable(ttSizeMB),
		searcher: nil,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FromFEN replaces the engine's position with the one encoded by fen,
// cancelling and joining any in-flight search first.
func (e *Engine) FromFEN(fen string) error {
	e.CancelAndWait()

	e.mu.Lock()
	defer e.mu.Unlock()

	pos, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("from_fen: %w", err)
	}
	e.exec = board.NewExecutor(pos)
	return nil
}

// SideToMove returns the side to move.
func (e *Engine) SideToMove() board.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.Position().SideToMove
}

// PieceAt returns the piece occupying sq, or board.NoPiece.
func (e *Engine) PieceAt(sq board.Square) board.Piece {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.Position().PieceAt(sq)
}

// LegalMoves returns every legal move in the current position.
func (e *Engine) LegalMoves() []board.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.GenerateLegalMoves().Slice()
}

// LegalMovesFrom returns the legal moves whose origin square is sq.
func (e *Engine) LegalMovesFrom(sq board.Square) []board.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	all := e.exec.GenerateLegalMoves()
	var out []board.Move
	for i := 0; i < all.Len(); i++ {
		if m := all.Get(i); m.From() == sq {
			out = append(out, m)
		}
	}
	return out
}

// Make applies move, first cancelling and joining any in-flight search so
// the position is never mutated while a search borrows it. Returns
// ErrIllegalMove if move is not among the current legal moves, leaving the
// position untouched.
func (e *Engine) Make(move board.Move) error {
	e.CancelAndWait()

	e.mu.Lock()
	defer e.mu.Unlock()

	legal := e.exec.GenerateLegalMoves()
	if !legal.Contains(move) {
		return ErrIllegalMove
	}
	e.exec.Make(move)
	return nil
}

// Unmake reverses the most recent Make. Returns ErrNoHistory if the undo
// stack is empty, leaving the position untouched.
func (e *Engine) Unmake() error {
	e.CancelAndWait()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.exec.Ply() == 0 {
		return ErrNoHistory
	}
	e.exec.Unmake()
	return nil
}

// IsInCheck reports whether the side to move is in check.
func (e *Engine) IsInCheck() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.Position().InCheck()
}

// IsCheckmate reports whether the side to move is checkmated.
func (e *Engine) IsCheckmate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.IsCheckmate()
}

// IsStalemate reports whether the side to move is stalemated.
func (e *Engine) IsStalemate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.IsStalemate()
}

// IsDraw reports whether the position is drawn by any rule (stalemate,
// 50-move, threefold repetition, or insufficient material).
func (e *Engine) IsDraw() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.IsDraw()
}

// Hash returns the current position's Zobrist hash.
func (e *Engine) Hash() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.Position().Hash
}

// History returns the undo records applied so far, oldest first.
func (e *Engine) History() []board.UndoRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]board.UndoRecord(nil), e.exec.History()...)
}

// ToFEN returns the FEN representation of the current position.
func (e *Engine) ToFEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec.Position().ToFEN()
}

// CalculateAsync submits a CPU move request. If a previous request is
// still in flight, it is cancelled and joined first, per the ordering
// guarantee that a caller never observes two concurrent searches. When
// cfg.ThinkingBudget is set, the search context carries a matching
// context.WithTimeout deadline, so ctx.Done() fires on its own independent
// of search progress; the Searcher's own TimeManager enforces the budget
// node-by-node regardless of which context a caller passes in (its hard
// maximum is never set below 50ms). The
// returned channel receives exactly one MoveOutcome and is then closed.
// The spawned goroutine performs only compute, no I/O, and leaves the
// engine's position unchanged if ctx is cancelled before it finishes.
func (e *Engine) CalculateAsync(ctx context.Context, cfg CpuConfig) <-chan MoveOutcome {
	e.CancelAndWait()

	var searchCtx context.Context
	var cancel context.CancelFunc
	if cfg.ThinkingBudget > 0 {
		searchCtx, cancel = context.WithTimeout(ctx, cfg.ThinkingBudget)
	} else {
		searchCtx, cancel = context.WithCancel(ctx)
	}

	e.mu.Lock()
	e.searchCancel = cancel
	done := make(chan struct{})
	e.searchDone = done
	e.mu.Unlock()

	out := make(chan MoveOutcome, 1)

	go func() {
		defer close(done)
		defer close(out)
		out <- e.runSearch(searchCtx, cfg)
	}()

	return out
}

// CancelAndWait cancels any in-flight CalculateAsync call and blocks until
// its goroutine has returned. It is idempotent: calling it with nothing in
// flight is a no-op.
func (e *Engine) CancelAndWait() {
	e.mu.Lock()
	cancel := e.searchCancel
	done := e.searchDone
	e.searchCancel = nil
	e.searchDone = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// runSearch performs the actual search or random pick. It locks e.mu only
// long enough to read GenerateLegalMoves/pick a move and apply Make is NOT
// done here: the facade returns the chosen move to the caller, who applies
// it via Make like any other move. This keeps "the task itself contains
// only compute, no I/O" and matches the facade's single entry point for
// mutating the position.
func (e *Engine) runSearch(ctx context.Context, cfg CpuConfig) MoveOutcome {
	e.mu.Lock()
	legal := e.exec.GenerateLegalMoves()
	if legal.Len() == 0 {
		e.mu.Unlock()
		return MoveOutcome{NoLegalMoves: true}
	}

	if cfg.Difficulty == Random {
		move := legal.Get(e.rng.Intn(legal.Len()))
		e.mu.Unlock()
		return MoveOutcome{Move: move}
	}

	if e.searcher == nil {
		e.searcher = NewSearcher(e.tt)
	}
	searcher := e.searcher
	exec := e.exec
	e.mu.Unlock()

	depth := cfg.depth()
	result := searcher.Search(ctx, exec, depth, cfg.ThinkingBudget)

	if result.NoLegal {
		return MoveOutcome{NoLegalMoves: true}
	}
	if result.Cancelled && result.Move == board.NoMove {
		return MoveOutcome{Cancelled: true}
	}

	move := result.Move
	if cfg.Randomize {
		if picked, ok := e.pickRandomizedRoot(exec, searcher, depth); ok {
			move = picked
		}
	}

	if result.Cancelled {
		log.Printf("cpu move request cancelled after depth %d, returning last completed move %s", result.Depth, move)
		return MoveOutcome{Move: move, Cancelled: true}
	}
	return MoveOutcome{Move: move}
}

// pickRandomizedRoot sorts root moves by the score the just-completed
// search recorded for them (Searcher.RootScore; exact for moves that raised
// the best score, upper bounds for the rest) (per spec.md §4.7: "sort root moves by score; filter
// to those within a 50-centipawn window of the best; pick uniformly among
// the top <=5"), then picks uniformly among the top randomizationTopN moves
// within randomizationWindow centipawns of the best. A root move the search
// never reached (only possible if it was cancelled before completing even
// one full root move loop) falls back to a one-ply static evaluation so it
// can still be compared against the searched candidates.
func (e *Engine) pickRandomizedRoot(exec *board.Executor, searcher *Searcher, depth int) (board.Move, bool) {
	root := exec.GenerateLegalMoves()
	if root.Len() == 0 {
		return board.NoMove, false
	}

	type scored struct {
		move  board.Move
		score int
	}
	candidates := make([]scored, 0, root.Len())

	for i := 0; i < root.Len(); i++ {
		m := root.Get(i)
		s, ok := searcher.RootScore(m)
		if !ok {
			exec.Make(m)
			s = -Evaluate(exec.Position())
			exec.Unmake()
		}
		candidates = append(candidates, scored{m, s})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	best := candidates[0].score

	var near []board.Move
	for _, c := range candidates {
		if best-c.score > randomizationWindow {
			break
		}
		near = append(near, c.move)
		if len(near) >= randomizationTopN {
			break
		}
	}
	if len(near) == 0 {
		return board.NoMove, false
	}
	return near[e.rng.Intn(len(near))], true
}
