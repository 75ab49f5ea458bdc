package engine

import (
	"github.com/diversiam/chesscore/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	BestMove board.Move // Best move found
	Score    int16      // Score (bounded by flag)
	Depth    int8       // Search depth
	Flag     TTFlag     // Type of bound
}

// TranspositionTable is a capped hash table for storing search results.
// Entries are keyed by the full Zobrist hash, so there is no truncated-key
// collision risk. It does not do generational slot replacement: once the
// entry count reaches capacity, the whole table is cleared before the next
// store, matching a simple "clear entirely on overflow" eviction policy.
type TranspositionTable struct {
	entries  map[uint64]TTEntry
	capacity int

	hits   uint64
	probes uint64
}

const defaultTTCapacity = 1 << 20 // ~1M entries

// NewTranspositionTable creates a transposition table sized in MB, with
// its entry capacity estimated from an approximate per-entry footprint.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const bytesPerEntry = 24
	capacity := (sizeMB * 1024 * 1024) / bytesPerEntry
	if capacity <= 0 {
		capacity = defaultTTCapacity
	}
	return &TranspositionTable{
		entries:  make(map[uint64]TTEntry, minInt(capacity, 1<<16)),
		capacity: capacity,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Probe looks up a position by its full Zobrist hash.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	entry, found := tt.entries[hash]
	if found {
		tt.hits++
	}
	return entry, found
}

// Store saves a position's search result, clearing the whole table first
// if a new key would push it past capacity.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	if _, exists := tt.entries[hash]; !exists && len(tt.entries) >= tt.capacity {
		tt.Clear()
	}
	tt.entries[hash] = TTEntry{
		BestMove: bestMove,
		Score:    int16(score),
		Depth:    int8(depth),
		Flag:     flag,
	}
}

// NewSearch is a no-op retained for API parity with a generational table;
// this table has no generation counter since overflow clears unconditionally.
func (tt *TranspositionTable) NewSearch() {}

// Clear empties the transposition table.
func (tt *TranspositionTable) Clear() {
	tt.entries = make(map[uint64]TTEntry, minInt(tt.capacity, 1<<16))
	tt.hits = 0
	tt.probes = 0
}

// Len returns the number of entries currently stored.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// AdjustScoreFromTT adjusts a score read from the transposition table.
// Mate scores need to be adjusted based on ply distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
