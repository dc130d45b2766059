package game

// GameState wraps a Board with the Pusher's goal row, the running score,
// and the player to move.
type GameState struct {
	board     *Board
	goal      int
	symmetric bool
	score     int
	player    Player
}

// NewGameState builds a state around board. The score and current player
// are derived from the board. In symmetric games the board gets chip IDs
// and pusher moves are interpreted as ID sets.
func NewGameState(board *Board, goal int, symmetric bool) *GameState {
	if symmetric {
		board.EnableChipIDs()
	}
	score := board.MaxRow()
	if score < 0 {
		score = 0
	}
	return &GameState{
		board:     board,
		goal:      goal,
		symmetric: symmetric,
		score:     score,
		player:    board.CurrentPlayer(),
	}
}

// Board returns the underlying board.
func (g *GameState) Board() *Board { return g.board }

// Goal returns the target row.
func (g *GameState) Goal() int { return g.goal }

// Symmetric reports whether pusher moves are chip-ID sets.
func (g *GameState) Symmetric() bool { return g.symmetric }

// Score returns the highest row reached so far, never below zero.
func (g *GameState) Score() int { return g.score }

// CurrentPlayer returns the player to move, or None once terminal.
func (g *GameState) CurrentPlayer() Player {
	if g.Winner() != None {
		return None
	}
	return g.player
}

// Winner returns the game's decided winner: the Pusher once the score
// reaches the goal, the Remover once no chips remain, None otherwise. It
// reports the current standing, not a prediction.
func (g *GameState) Winner() Player {
	if g.score >= g.goal {
		return Pusher
	}
	if g.board.numChips == 0 {
		return Remover
	}
	return None
}

// Clone returns a deep copy of the state.
func (g *GameState) Clone() *GameState {
	return &GameState{
		board:     g.board.Clone(),
		goal:      g.goal,
		symmetric: g.symmetric,
		score:     g.score,
		player:    g.player,
	}
}

// ApplyPusher plays a Pusher move. Returns false without touching the
// board when it is not the Pusher's turn.
func (g *GameState) ApplyPusher(move PusherMove) bool {
	if g.player != Pusher {
		return false
	}
	var result bool
	if g.symmetric {
		result = g.board.ApplySymmetric(move)
	} else {
		result = g.board.ApplyPusher(move)
	}
	g.player = Remover
	return result
}

// ApplyRemover plays a Remover move and refreshes the score from the
// surviving chips.
func (g *GameState) ApplyRemover(move RemoverMove) bool {
	if g.player != Remover {
		return false
	}
	result := g.board.ApplyRemover(move)
	if maxRow := g.board.MaxRow(); maxRow > g.score {
		g.score = maxRow
	}
	g.player = Pusher
	return result
}

// BoardWithoutMovedChips returns a copy of the board with every moved chip
// restored to its pre-push row. The archive indexes these pre-move
// snapshots.
func (g *GameState) BoardWithoutMovedChips() *Board {
	b := g.board.Clone()
	for c := 0; c < b.n; c++ {
		changed := false
		for idx := 0; idx < b.k; idx++ {
			if b.moved[c][idx] {
				b.cols[c][idx]--
				b.moved[c][idx] = false
				changed = true
			}
		}
		if changed {
			b.tidyColumn(c)
		}
	}
	return b
}

// Step materializes every successor state using the full move enumeration.
func (g *GameState) Step() []*GameState {
	switch g.player {
	case Pusher:
		var moves []PusherMove
		if g.symmetric {
			moves = g.board.SymmetricPusherMoves()
		} else {
			moves = g.board.PusherMoves()
		}
		return g.applyPusherMoves(moves)
	case Remover:
		return g.applyRemoverMoves(g.board.RemoverMoves())
	default:
		return nil
	}
}

// StepPruned materializes successor states from the pruned move sets.
func (g *GameState) StepPruned() []*GameState {
	switch g.player {
	case Pusher:
		return g.applyPusherMoves(g.PusherMovesPruned())
	case Remover:
		return g.applyRemoverMoves(g.RemoverMovesPruned())
	default:
		return nil
	}
}

func (g *GameState) applyPusherMoves(moves []PusherMove) []*GameState {
	states := make([]*GameState, 0, len(moves))
	for _, move := range moves {
		next := g.Clone()
		if next.ApplyPusher(move) {
			states = append(states, next)
		}
	}
	return states
}

func (g *GameState) applyRemoverMoves(moves []RemoverMove) []*GameState {
	states := make([]*GameState, 0, len(moves))
	for _, move := range moves {
		next := g.Clone()
		if next.ApplyRemover(move) {
			states = append(states, next)
		}
	}
	return states
}
