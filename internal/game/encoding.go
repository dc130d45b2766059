package game

import "sort"

// Per-column pusher moves are encoded as K-bit masks: bit i (LSB-first)
// pushes the chip in slot i. A column state is encoded base (goal+2) so
// that every row value in [-1, goal] maps to a distinct digit; two columns
// encode equal iff they are identical, which is what the move dedup needs.

// encodedMove is a bit mask over the slots of a single column.
type encodedMove = uint64

// encodedColumnState is a column's rows packed into a base-(goal+2) integer.
type encodedColumnState = uint64

// applyMaskToColumn returns a descending-sorted copy of col after pushing
// the chips selected by mask. Removed chips are never pushed.
func applyMaskToColumn(col []int, mask encodedMove) []int {
	out := make([]int, len(col))
	for i, row := range col {
		if mask&(1<<uint(i)) != 0 && row != -1 {
			out[i] = row + 1
		} else {
			out[i] = row
		}
	}
	sortDescending(out)
	return out
}

// encodeColumnState packs a descending-sorted column into one integer,
// digit i being row_i+1 in base goal+2.
func encodeColumnState(col []int, goal int) encodedColumnState {
	base := encodedColumnState(goal + 2)
	var encoded encodedColumnState
	for i := len(col) - 1; i >= 0; i-- {
		encoded = encoded*base + encodedColumnState(col[i]+1)
	}
	return encoded
}

// decodeMask appends the flat chip indices selected by mask in column c to
// move.
func decodeMask(mask encodedMove, k, c int, move *PusherMove) {
	for i := 0; i < k; i++ {
		if mask&(1<<uint(i)) != 0 {
			*move = append(*move, c*k+i)
		}
	}
}

func sortDescending(vals []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(vals)))
}
