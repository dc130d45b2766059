package game

import "sort"

// PusherMoves enumerates every nonempty subset of the remaining chips as a
// flat-index move. The size is 2^numChips-1; this is the verifier's move
// set, the search uses the pruned generator.
func (b *Board) PusherMoves() []PusherMove {
	var movable []int
	for c := 0; c < b.n; c++ {
		for idx := 0; idx < b.k; idx++ {
			if b.cols[c][idx] != -1 {
				movable = append(movable, c*b.k+idx)
			}
		}
	}
	return powerset(movable)
}

// SymmetricPusherMoves enumerates every nonempty subset of the chip IDs
// 0..K-1 for symmetric games.
func (b *Board) SymmetricPusherMoves() []PusherMove {
	ids := make([]int, b.k)
	for i := range ids {
		ids[i] = i
	}
	return powerset(ids)
}

// RemoverMoves returns the columns holding at least one moved chip, ordered
// by decreasing moved-chip count. The ordering is a search heuristic only.
func (b *Board) RemoverMoves() []RemoverMove {
	type candidate struct {
		col   int
		count int
	}
	var candidates []candidate
	for c := 0; c < b.n; c++ {
		count := 0
		for idx := 0; idx < b.k; idx++ {
			if b.moved[c][idx] {
				count++
			}
		}
		if count > 0 {
			candidates = append(candidates, candidate{col: c, count: count})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].count > candidates[j].count
	})

	moves := make([]RemoverMove, len(candidates))
	for i, cand := range candidates {
		moves[i] = cand.col
	}
	return moves
}

// powerset returns every nonempty subset of vec.
func powerset(vec []int) []PusherMove {
	total := 1 << len(vec)
	moves := make([]PusherMove, 0, total-1)
	for mask := 1; mask < total; mask++ {
		subset := make(PusherMove, 0, len(vec))
		for j := 0; j < len(vec); j++ {
			if mask&(1<<j) != 0 {
				subset = append(subset, vec[j])
			}
		}
		moves = append(moves, subset)
	}
	return moves
}
