package game

import "sort"

// Pruned move generation. Moves that cannot be strictly better for the
// mover than another enumerated move are dropped before the search
// descends: pusher moves by column equivalence and per-column dominance,
// remover moves by dominance of the resulting boards.

// findEquivColumns partitions the columns into classes of identical
// column states.
func findEquivColumns(b *Board) [][]int {
	var classes [][]int
	assigned := make([]bool, b.n)

	for c1 := 0; c1 < b.n; c1++ {
		if assigned[c1] {
			continue
		}
		assigned[c1] = true
		class := []int{c1}
		for c2 := c1 + 1; c2 < b.n; c2++ {
			if assigned[c2] {
				continue
			}
			if CompareColumns(b.cols[c1], b.cols[c2]) == Equal {
				assigned[c2] = true
				class = append(class, c2)
			}
		}
		classes = append(classes, class)
	}
	return classes
}

// countMovableChips counts the leading non-removed chips of a descending-
// sorted column.
func countMovableChips(col []int) int {
	count := 0
	for _, row := range col {
		if row < 0 {
			break
		}
		count++
	}
	return count
}

// movesForColumn enumerates the 2^k' masks over a column's movable chips
// and keeps one mask per distinct resulting column state.
func movesForColumn(col []int, goal int) []encodedMove {
	movable := countMovableChips(col)
	limit := encodedMove(1) << uint(movable)
	seen := make(map[encodedColumnState]struct{})
	var moves []encodedMove
	for mask := encodedMove(0); mask < limit; mask++ {
		state := encodeColumnState(applyMaskToColumn(col, mask), goal)
		if _, ok := seen[state]; ok {
			continue
		}
		seen[state] = struct{}{}
		moves = append(moves, mask)
	}
	return moves
}

// combinedMovesForClass assigns one per-column move to each of the class's
// identical columns. Tuples are pruned by the ordering rule (columns are
// interchangeable, so only non-decreasing move-index sequences represent
// their orbit) and the dominance rule (a tuple holding two comparable
// moves is redundant).
func combinedMovesForClass(class []int, col []int, movesForCol []encodedMove, k int) []PusherMove {
	numMoves := len(movesForCol)
	count := len(class)

	// Pairwise comparison matrix over the per-column moves.
	colAfterMove := make([][]int, numMoves)
	for i := 0; i < numMoves; i++ {
		colAfterMove[i] = applyMaskToColumn(col, movesForCol[i])
	}
	compMatrix := make([][]CompResult, numMoves)
	for i := range compMatrix {
		compMatrix[i] = make([]CompResult, numMoves)
		compMatrix[i][i] = Incomparable
	}
	for i := 0; i < numMoves; i++ {
		for j := i + 1; j < numMoves; j++ {
			compMatrix[i][j] = CompareColumns(colAfterMove[i], colAfterMove[j])
			compMatrix[j][i] = compMatrix[i][j].flip()
		}
	}

	total := 1
	for i := 0; i < count; i++ {
		total *= numMoves
	}

	var moves []PusherMove
	moveIdx := make([]int, count)
tuples:
	for encoded := 0; encoded < total; encoded++ {
		e := encoded
		for i := count - 1; i >= 0; i-- {
			moveIdx[i] = e % numMoves
			e /= numMoves
		}

		// Ordering rule
		for i := 0; i+1 < count; i++ {
			if moveIdx[i] > moveIdx[i+1] {
				continue tuples
			}
		}

		// Dominance rule
		for i := 0; i < count; i++ {
			for j := i + 1; j < count; j++ {
				switch compMatrix[moveIdx[i]][moveIdx[j]] {
				case Less, Greater:
					continue tuples
				}
			}
		}

		var move PusherMove
		for i := 0; i < count; i++ {
			decodeMask(movesForCol[moveIdx[i]], k, class[i], &move)
		}
		moves = append(moves, move)
	}
	return moves
}

// combineClasses takes the cartesian product of the per-class selections
// and drops the empty move.
func combineClasses(perClass [][]PusherMove) []PusherMove {
	total := 1
	for _, classMoves := range perClass {
		total *= len(classMoves)
	}

	var moves []PusherMove
	for encoded := 0; encoded < total; encoded++ {
		var move PusherMove
		e := encoded
		for _, classMoves := range perClass {
			move = append(move, classMoves[e%len(classMoves)]...)
			e /= len(classMoves)
		}
		if len(move) > 0 {
			moves = append(moves, move)
		}
	}
	return moves
}

// PusherMovesPruned generates the reduced Pusher move list: one
// representative per equivalence class of moves under column symmetry and
// per-column dominance. The result is sorted by decreasing cardinality as
// a search-order heuristic.
func (g *GameState) PusherMovesPruned() []PusherMove {
	if g.symmetric {
		return g.symmetricPusherMovesPruned()
	}

	board := g.board
	classes := findEquivColumns(board)

	perClass := make([][]PusherMove, len(classes))
	for i, class := range classes {
		col := board.cols[class[0]]
		masks := movesForColumn(col, g.goal)
		perClass[i] = combinedMovesForClass(class, col, masks, board.k)
	}

	moves := combineClasses(perClass)

	// Prefer larger pushes first
	sort.SliceStable(moves, func(i, j int) bool {
		return len(moves[i]) > len(moves[j])
	})
	return moves
}

// symmetricPusherMovesPruned enumerates the nonempty chip-ID subsets and
// keeps one per distinct resulting board.
func (g *GameState) symmetricPusherMovesPruned() []PusherMove {
	seen := make(map[string]struct{})
	var moves []PusherMove
	for _, move := range g.board.SymmetricPusherMoves() {
		next := g.board.Clone()
		if !next.ApplySymmetric(move) {
			continue
		}
		key := next.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		moves = append(moves, move)
	}

	sort.SliceStable(moves, func(i, j int) bool {
		return len(moves[i]) > len(moves[j])
	})
	return moves
}

// RemoverMovesPruned generates the reduced Remover move list: a column is
// dropped when clearing it leaves a board at least as good for the Pusher
// as clearing some other column.
func (g *GameState) RemoverMovesPruned() []RemoverMove {
	board := g.board
	n := board.n

	selected := make([]bool, n)
	movedBoards := make([]*Board, n)
	for c := 0; c < n; c++ {
		movedBoards[c] = board.Clone()
		selected[c] = movedBoards[c].ApplyRemover(c)
	}

	for c2 := 0; c2 < n; c2++ {
		if !selected[c2] {
			continue
		}
		for c1 := 0; c1 < c2 && selected[c2]; c1++ {
			if !selected[c1] {
				continue
			}
			switch CompareBoards(movedBoards[c2], movedBoards[c1], Both) {
			case Greater, Equal:
				// Clearing c2 is no better for the Remover than c1
				selected[c2] = false
			case Less:
				selected[c1] = false
			}
		}
	}

	var moves []RemoverMove
	for c := 0; c < n; c++ {
		if selected[c] {
			moves = append(moves, c)
		}
	}
	return moves
}
