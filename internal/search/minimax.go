// Package search implements the exhaustive game-tree search that decides
// the winner of a starting configuration, and the verifier that re-checks
// archived verdicts.
package search

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/chipsolver/internal/archive"
	"github.com/freeeve/chipsolver/internal/game"
)

// progressInterval is how often the driver logs search progress.
const progressInterval = 30 * time.Second

// Options configures the minimax driver.
type Options struct {
	// Threads is the worker count for archive queries.
	Threads int
	// HoursPerSave is the checkpoint interval; 0 disables checkpoints.
	HoursPerSave float64
	// BaseDir is where the temp/ snapshot directory lives.
	BaseDir string
	Logger  zerolog.Logger
}

// frame is one node of the iterative DFS. Frames link to their parent so a
// resolved child can propagate its verdict upward.
type frame struct {
	state  *game.GameState
	parent *frame
	// winner is None until the node is resolved. After expansion it holds
	// the opponent of the current player as the default verdict, to be
	// overridden by the first child that resolves in the mover's favor.
	winner game.Player
	// noRecord marks verdicts taken from the archive, which must not be
	// re-inserted.
	noRecord bool
}

// Minimax decides the winner of the initial state by iterative DFS with
// archive consultation. Verdicts of Pusher-to-move nodes resolved by their
// children are recorded into the archive. Returns the winner and the
// number of resolved states.
func Minimax(ctx context.Context, initial *game.GameState, arc *archive.Archive, opts Options) (game.Player, int64, error) {
	log := opts.Logger
	stack := []*frame{{state: initial}}
	result := game.None
	var visited int64

	start := time.Now()
	lastLog := start
	lastSave := start
	saveInterval := time.Duration(opts.HoursPerSave * float64(time.Hour))

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return game.None, visited, ctx.Err()
		default:
		}

		if time.Since(lastLog) >= progressInterval {
			elapsed := time.Since(start)
			log.Info().
				Int64("resolved", visited).
				Int("stack_depth", len(stack)).
				Int("winning", arc.WinningCount()).
				Int("losing", arc.LosingCount()).
				Float64("states_per_sec", float64(visited)/elapsed.Seconds()).
				Msg("search progress")
			lastLog = time.Now()
		}
		if saveInterval > 0 && time.Since(lastSave) >= saveInterval {
			saveCheckpoint(arc, initial, opts)
			lastSave = time.Now()
		}

		curr := stack[len(stack)-1]

		// A resolved node propagates its verdict and pops.
		if curr.winner != game.None {
			stack = stack[:len(stack)-1]
			visited++

			if curr.state.CurrentPlayer() == game.Pusher && !curr.noRecord {
				board := curr.state.BoardWithoutMovedChips()
				if curr.winner == game.Pusher {
					arc.AddWinning(board)
				} else {
					arc.AddLosing(board)
				}
			}

			if curr.parent == nil {
				result = curr.winner
				continue
			}
			if curr.parent.state.CurrentPlayer() == curr.winner {
				// The parent has a move that achieves its goal
				curr.parent.winner = curr.winner
			}
			continue
		}

		// The parent already found its winning move; this sibling is
		// irrelevant.
		if p := curr.parent; p != nil && p.winner != game.None && p.winner == p.state.CurrentPlayer() {
			stack = stack[:len(stack)-1]
			continue
		}

		// Consult the archive before expanding.
		if predicted := arc.PredictWinner(curr.state, opts.Threads); predicted != game.None {
			curr.winner = predicted
			curr.noRecord = true
			continue
		}

		// Expand. Children are pushed in reverse so the first-enumerated
		// move is explored first; the default verdict assumes the mover
		// loses until a child proves otherwise.
		children := curr.state.StepPruned()
		curr.winner = curr.state.CurrentPlayer().Opponent()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, &frame{state: children[i], parent: curr})
		}
	}

	return result, visited, nil
}

// saveCheckpoint writes timestamped archive snapshots under temp/ so long
// runs can resume.
func saveCheckpoint(arc *archive.Archive, initial *game.GameState, opts Options) {
	log := opts.Logger
	board := initial.Board()
	stamp := time.Now().Format("2006-01-02_15-04")

	winningPath := archive.TempPath(opts.BaseDir, archive.WinningDir,
		board.N(), board.K(), initial.Goal(), initial.Symmetric(), stamp)
	losingPath := archive.TempPath(opts.BaseDir, archive.LosingDir,
		board.N(), board.K(), initial.Goal(), initial.Symmetric(), stamp)

	for _, path := range []string{winningPath, losingPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			log.Error().Err(err).Str("path", path).Msg("checkpoint dir")
			return
		}
	}
	if err := arc.SaveWinning(winningPath); err != nil {
		log.Error().Err(err).Msg("checkpoint winning archive")
	}
	if err := arc.SaveLosing(losingPath); err != nil {
		log.Error().Err(err).Msg("checkpoint losing archive")
	}
}
