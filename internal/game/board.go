package game

import "sort"

// PusherMove is a set of chip positions to push, each encoded as the flat
// index c*K+idx. In symmetric games the entries are chip IDs instead.
type PusherMove []int

// RemoverMove is the index of the column to clear.
type RemoverMove = int

// Board holds the chip layout of an N-column, K-slot game.
//
// Each column is kept sorted descending, so col[0] is the tallest remaining
// chip and removed chips (-1) cluster at the tail. A parallel moved flag
// marks chips advanced by the Pusher in the current turn; it is cleared by
// the next Remover action.
type Board struct {
	n, k     int
	numChips int
	cols     [][]int
	moved    [][]bool

	// ids assigns a stable per-column chip identity in 0..K-1, used only
	// by symmetric games. Nil otherwise.
	ids [][]int
}

// NewBoard returns an n-by-k board with every chip at row 0.
func NewBoard(n, k int) *Board {
	b := &Board{
		n:        n,
		k:        k,
		numChips: n * k,
		cols:     make([][]int, n),
		moved:    make([][]bool, n),
	}
	for c := 0; c < n; c++ {
		b.cols[c] = make([]int, k)
		b.moved[c] = make([]bool, k)
	}
	return b
}

// NewBoardWithState returns a board with the given column-major layout.
// Entries are row numbers or -1 for removed chips. The layout is copied
// and tidied.
func NewBoardWithState(n, k int, state [][]int) *Board {
	b := NewBoard(n, k)
	b.numChips = 0
	for c := 0; c < n && c < len(state); c++ {
		for idx := 0; idx < k && idx < len(state[c]); idx++ {
			b.cols[c][idx] = state[c][idx]
			if state[c][idx] >= 0 {
				b.numChips++
			}
		}
	}
	b.tidy()
	return b
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := &Board{n: b.n, k: b.k, numChips: b.numChips}
	nb.cols = make([][]int, b.n)
	nb.moved = make([][]bool, b.n)
	for c := 0; c < b.n; c++ {
		nb.cols[c] = append([]int(nil), b.cols[c]...)
		nb.moved[c] = append([]bool(nil), b.moved[c]...)
	}
	if b.ids != nil {
		nb.ids = make([][]int, b.n)
		for c := 0; c < b.n; c++ {
			nb.ids[c] = append([]int(nil), b.ids[c]...)
		}
	}
	return nb
}

// N returns the number of columns.
func (b *Board) N() int { return b.n }

// K returns the number of slots per column.
func (b *Board) K() int { return b.k }

// NumChips returns the number of chips still on the board.
func (b *Board) NumChips() int { return b.numChips }

// ChipRow returns the row of the chip at column c, slot idx, or -1 if the
// chip is removed.
func (b *Board) ChipRow(c, idx int) int { return b.cols[c][idx] }

// ChipMoved reports whether the chip at column c, slot idx was advanced by
// the Pusher this turn.
func (b *Board) ChipMoved(c, idx int) bool { return b.moved[c][idx] }

// Column returns the descending-sorted rows of column c. The slice is the
// board's own storage; callers must not modify it.
func (b *Board) Column(c int) []int { return b.cols[c] }

// MaxRow returns the largest row value on the board, or -1 if no chips
// remain.
func (b *Board) MaxRow() int {
	maxRow := -1
	for c := 0; c < b.n; c++ {
		if b.k > 0 && b.cols[c][0] > maxRow {
			maxRow = b.cols[c][0]
		}
	}
	return maxRow
}

// CurrentPlayer derives the player to move: the Remover if any chip is
// flagged moved, the Pusher otherwise.
func (b *Board) CurrentPlayer() Player {
	for c := 0; c < b.n; c++ {
		for idx := 0; idx < b.k; idx++ {
			if b.moved[c][idx] {
				return Remover
			}
		}
	}
	return Pusher
}

// EnableChipIDs attaches per-column chip identities for symmetric games.
// Slot idx in every column gets ID idx.
func (b *Board) EnableChipIDs() {
	if b.ids != nil {
		return
	}
	b.ids = make([][]int, b.n)
	for c := 0; c < b.n; c++ {
		b.ids[c] = make([]int, b.k)
		for idx := 0; idx < b.k; idx++ {
			b.ids[c][idx] = idx
		}
	}
}

// ApplyPusher pushes every chip named by move (flat indices c*K+idx) up one
// row and flags it moved. Out-of-range indices and removed chips are
// skipped. Reports whether at least one chip advanced.
func (b *Board) ApplyPusher(move PusherMove) bool {
	result := false
	for _, flat := range move {
		if flat < 0 || flat >= b.n*b.k {
			continue
		}
		c, idx := flat/b.k, flat%b.k
		if b.cols[c][idx] == -1 {
			continue
		}
		b.cols[c][idx]++
		b.moved[c][idx] = true
		result = true
	}
	b.tidy()
	return result
}

// ApplySymmetric interprets move as a set of chip IDs and pushes the chip
// with each named ID in every column in parallel. Requires EnableChipIDs.
func (b *Board) ApplySymmetric(move PusherMove) bool {
	if b.ids == nil {
		return false
	}
	shouldMove := make([]bool, b.k)
	for _, id := range move {
		if id < 0 || id >= b.k {
			continue
		}
		shouldMove[id] = true
	}

	result := false
	for c := 0; c < b.n; c++ {
		for idx := 0; idx < b.k; idx++ {
			if b.cols[c][idx] == -1 {
				continue
			}
			if shouldMove[b.ids[c][idx]] {
				b.cols[c][idx]++
				b.moved[c][idx] = true
				result = true
			}
		}
	}
	b.tidy()
	return result
}

// ApplyRemover clears every moved chip in the chosen column, then resets
// all moved flags. Reports whether at least one chip was removed.
func (b *Board) ApplyRemover(move RemoverMove) bool {
	if move < 0 || move >= b.n {
		return false
	}

	result := false
	for idx := 0; idx < b.k; idx++ {
		if b.moved[move][idx] {
			b.cols[move][idx] = -1
			b.numChips--
			result = true
		}
	}

	for c := 0; c < b.n; c++ {
		for idx := 0; idx < b.k; idx++ {
			b.moved[c][idx] = false
		}
	}

	if result {
		b.tidyColumn(move)
	}
	return result
}

// tidy restores the descending order of every column.
func (b *Board) tidy() {
	for c := 0; c < b.n; c++ {
		b.tidyColumn(c)
	}
}

// tidyColumn sorts column c descending, keeping the moved flags (and chip
// IDs, if any) attached to their chips.
func (b *Board) tidyColumn(c int) {
	type chip struct {
		row   int
		moved bool
		id    int
	}
	chips := make([]chip, b.k)
	for idx := 0; idx < b.k; idx++ {
		chips[idx] = chip{row: b.cols[c][idx], moved: b.moved[c][idx]}
		if b.ids != nil {
			chips[idx].id = b.ids[c][idx]
		}
	}
	sort.SliceStable(chips, func(i, j int) bool {
		return chips[i].row > chips[j].row
	})
	for idx := 0; idx < b.k; idx++ {
		b.cols[c][idx] = chips[idx].row
		b.moved[c][idx] = chips[idx].moved
		if b.ids != nil {
			b.ids[c][idx] = chips[idx].id
		}
	}
}
