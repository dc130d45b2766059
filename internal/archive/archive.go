// Package archive stores proven winning and losing boards indexed by the
// dominance order, forming an incrementally built endgame tablebase. Any
// board dominated appropriately by an archived one inherits its verdict.
package archive

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/freeeve/chipsolver/internal/game"
)

// minPruneThreshold bounds the batch-mode compaction thresholds from below.
const minPruneThreshold = 100

// Archive holds winning and losing boards bucketed by chip count. Buckets
// let dominance queries skip provably incomparable chip counts: a winning
// board can only dominate from a bucket with at most as many chips, a
// losing board from one with at least as many.
//
// By driver convention only Pusher-to-move boards are stored.
type Archive struct {
	winning map[int][]*game.Board
	losing  map[int][]*game.Board

	winningCount, losingCount         int
	winningThreshold, losingThreshold int

	// tidyOnInsert keeps each side an antichain on every insert instead
	// of deferring to threshold-triggered compaction.
	tidyOnInsert bool

	log zerolog.Logger
}

// New returns an empty archive that tidies on insert.
func New(log zerolog.Logger) *Archive {
	return &Archive{
		winning:          make(map[int][]*game.Board),
		losing:           make(map[int][]*game.Board),
		winningThreshold: minPruneThreshold,
		losingThreshold:  minPruneThreshold,
		tidyOnInsert:     true,
		log:              log,
	}
}

// WinningCount returns the number of archived winning boards.
func (a *Archive) WinningCount() int { return a.winningCount }

// LosingCount returns the number of archived losing boards.
func (a *Archive) LosingCount() int { return a.losingCount }

// WinningBoards returns the winning boards flattened, smallest buckets
// first.
func (a *Archive) WinningBoards() []*game.Board { return flatten(a.winning) }

// LosingBoards returns the losing boards flattened, smallest buckets first.
func (a *Archive) LosingBoards() []*game.Board { return flatten(a.losing) }

func flatten(buckets map[int][]*game.Board) []*game.Board {
	var boards []*game.Board
	for _, n := range sortedKeys(buckets) {
		boards = append(boards, buckets[n]...)
	}
	return boards
}

func sortedKeys(buckets map[int][]*game.Board) []int {
	keys := make([]int, 0, len(buckets))
	for n := range buckets {
		keys = append(keys, n)
	}
	sort.Ints(keys)
	return keys
}

// AddWinning records a proven winning board. In tidy-on-insert mode the
// bucket stays an antichain: a board dominated by a resident is dropped,
// residents obsoleted by the new board are removed.
func (a *Archive) AddWinning(board *game.Board) {
	if !a.tidyOnInsert {
		a.AddWinningBatch(board)
		return
	}

	n := board.NumChips()
	for _, resident := range a.winning[n] {
		switch game.CompareBoards(board, resident, game.Both) {
		case game.Greater, game.Equal:
			// A winning board at least as tall as a resident adds nothing
			return
		}
	}
	keep := make([]*game.Board, 0, len(a.winning[n])+1)
	for _, resident := range a.winning[n] {
		if game.CompareBoards(board, resident, game.Both) == game.Less {
			a.winningCount--
			continue
		}
		keep = append(keep, resident)
	}
	a.winning[n] = append(keep, board)
	a.winningCount++
}

// AddLosing records a proven losing board, mirroring AddWinning with the
// direction reversed: shorter residents are obsolete, a shorter new board
// is redundant.
func (a *Archive) AddLosing(board *game.Board) {
	if !a.tidyOnInsert {
		a.AddLosingBatch(board)
		return
	}

	n := board.NumChips()
	for _, resident := range a.losing[n] {
		switch game.CompareBoards(board, resident, game.Both) {
		case game.Less, game.Equal:
			return
		}
	}
	keep := make([]*game.Board, 0, len(a.losing[n])+1)
	for _, resident := range a.losing[n] {
		if game.CompareBoards(board, resident, game.Both) == game.Greater {
			a.losingCount--
			continue
		}
		keep = append(keep, resident)
	}
	a.losing[n] = append(keep, board)
	a.losingCount++
}

// AddWinningBatch appends without tidying and compacts once the side grows
// past its threshold.
func (a *Archive) AddWinningBatch(board *game.Board) {
	n := board.NumChips()
	a.winning[n] = append(a.winning[n], board)
	a.winningCount++
	if a.winningCount > a.winningThreshold {
		a.PruneWinning()
	}
}

// AddLosingBatch appends without tidying and compacts once the side grows
// past its threshold.
func (a *Archive) AddLosingBatch(board *game.Board) {
	n := board.NumChips()
	a.losing[n] = append(a.losing[n], board)
	a.losingCount++
	if a.losingCount > a.losingThreshold {
		a.PruneLosing()
	}
}

// Prune removes every dominated board from both sides, restoring the
// antichain invariant.
func (a *Archive) Prune() {
	a.PruneWinning()
	a.PruneLosing()
}

// PruneWinning removes winning boards that dominate another winning board;
// the smaller board covers strictly more queries.
func (a *Archive) PruneWinning() {
	boards := flatten(a.winning)
	remove := make([]bool, len(boards))
	for i := range boards {
		if remove[i] {
			continue
		}
		for j := i + 1; j < len(boards); j++ {
			if remove[j] {
				continue
			}
			switch game.CompareBoards(boards[i], boards[j], game.Both) {
			case game.Greater:
				remove[i] = true
			case game.Less, game.Equal:
				remove[j] = true
			}
			if remove[i] {
				break
			}
		}
	}
	a.winning, a.winningCount = rebuild(boards, remove)
	a.winningThreshold = nextThreshold(a.winningCount)
}

// PruneLosing removes losing boards dominated by another losing board.
func (a *Archive) PruneLosing() {
	boards := flatten(a.losing)
	remove := make([]bool, len(boards))
	for i := range boards {
		if remove[i] {
			continue
		}
		for j := i + 1; j < len(boards); j++ {
			if remove[j] {
				continue
			}
			switch game.CompareBoards(boards[i], boards[j], game.Both) {
			case game.Less:
				remove[i] = true
			case game.Greater, game.Equal:
				remove[j] = true
			}
			if remove[i] {
				break
			}
		}
	}
	a.losing, a.losingCount = rebuild(boards, remove)
	a.losingThreshold = nextThreshold(a.losingCount)
}

func rebuild(boards []*game.Board, remove []bool) (map[int][]*game.Board, int) {
	buckets := make(map[int][]*game.Board)
	count := 0
	for i, board := range boards {
		if remove[i] {
			continue
		}
		buckets[board.NumChips()] = append(buckets[board.NumChips()], board)
		count++
	}
	return buckets, count
}

func nextThreshold(count int) int {
	threshold := count * 3
	if threshold < minPruneThreshold {
		threshold = minPruneThreshold
	}
	return threshold
}

// PredictWinner decides a state from the archive: the true winner if the
// game is terminal, the Pusher if the pre-move board dominates an archived
// winning board, the Remover if it is dominated by an archived losing
// board, None otherwise. Bucket scans fan out over threads workers.
func (a *Archive) PredictWinner(state *game.GameState, threads int) game.Player {
	if winner := state.Winner(); winner != game.None {
		return winner
	}

	board := state.BoardWithoutMovedChips()
	n := board.NumChips()

	for _, chips := range sortedKeys(a.winning) {
		if chips > n {
			continue
		}
		sameBucket := chips == n
		match := anyMatch(a.winning[chips], threads, func(archived *game.Board) bool {
			if sameBucket {
				switch game.CompareBoards(board, archived, game.Both) {
				case game.Greater, game.Equal:
					return true
				}
				return false
			}
			return game.CompareBoards(board, archived, game.GreaterOnly) == game.Greater
		})
		if match {
			return game.Pusher
		}
	}

	for _, chips := range sortedKeys(a.losing) {
		if chips < n {
			continue
		}
		sameBucket := chips == n
		match := anyMatch(a.losing[chips], threads, func(archived *game.Board) bool {
			if sameBucket {
				switch game.CompareBoards(board, archived, game.Both) {
				case game.Less, game.Equal:
					return true
				}
				return false
			}
			return game.CompareBoards(board, archived, game.LessOnly) == game.Less
		})
		if match {
			return game.Remover
		}
	}

	return game.None
}

// anyMatch reports whether pred holds for any board. Workers contend on an
// atomic counter handing out indices; the first positive match advances
// the counter past the end so the others drain and exit.
func anyMatch(boards []*game.Board, threads int, pred func(*game.Board) bool) bool {
	if threads <= 1 || len(boards) < 2 {
		for _, b := range boards {
			if pred(b) {
				return true
			}
		}
		return false
	}
	if threads > len(boards) {
		threads = len(boards)
	}

	var next atomic.Int64
	var found atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := next.Add(1) - 1
				if i >= int64(len(boards)) {
					return
				}
				if pred(boards[i]) {
					found.Store(true)
					next.Store(int64(len(boards)))
					return
				}
			}
		}()
	}
	wg.Wait()
	return found.Load()
}
