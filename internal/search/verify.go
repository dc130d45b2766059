package search

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/chipsolver/internal/archive"
	"github.com/freeeve/chipsolver/internal/game"
)

// VerifyOptions configures archive verification.
type VerifyOptions struct {
	Threads int
	// LogEveryWinning and LogEveryLosing control progress log frequency
	// per side; 0 disables progress logs.
	LogEveryWinning int
	LogEveryLosing  int
	Logger          zerolog.Logger
}

// VerifyWinning re-plays one ply from every archived winning board: the
// board is confirmed when some Pusher move exists for which every Remover
// reply is again predicted winning. Returns the number of boards that
// failed to verify.
func VerifyWinning(ctx context.Context, arc *archive.Archive, goal int, symmetric bool, opts VerifyOptions) (int, error) {
	check := func(board *game.Board) bool {
		state := game.NewGameState(board.Clone(), goal, symmetric)
		if state.Winner() == game.Pusher {
			return true
		}
		for _, afterPush := range state.Step() {
			confirmed := true
			for _, reply := range afterPush.StepPruned() {
				if arc.PredictWinner(reply, 1) != game.Pusher {
					confirmed = false
					break
				}
			}
			if confirmed {
				return true
			}
		}
		return false
	}
	return verifySide(ctx, arc.WinningBoards(), check, "winning", opts.LogEveryWinning, opts)
}

// VerifyLosing re-plays one ply from every archived losing board: the
// board is confirmed when every Pusher move admits a Remover reply that is
// again predicted losing.
func VerifyLosing(ctx context.Context, arc *archive.Archive, goal int, symmetric bool, opts VerifyOptions) (int, error) {
	check := func(board *game.Board) bool {
		state := game.NewGameState(board.Clone(), goal, symmetric)
		if state.Winner() == game.Remover {
			return true
		}
		for _, afterPush := range state.Step() {
			refuted := false
			for _, reply := range afterPush.StepPruned() {
				if arc.PredictWinner(reply, 1) == game.Remover {
					refuted = true
					break
				}
			}
			if !refuted {
				return false
			}
		}
		return true
	}
	return verifySide(ctx, arc.LosingBoards(), check, "losing", opts.LogEveryLosing, opts)
}

// verifySide fans the per-board checks out over workers sharing an atomic
// index counter.
func verifySide(ctx context.Context, boards []*game.Board, check func(*game.Board) bool, side string, logEvery int, opts VerifyOptions) (int, error) {
	log := opts.Logger
	total := int64(len(boards))
	if total == 0 {
		log.Info().Str("side", side).Msg("nothing to verify")
		return 0, nil
	}

	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}
	if int64(threads) > total {
		threads = int(total)
	}

	var next, processed, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				i := next.Add(1) - 1
				if i >= total {
					return nil
				}
				if !check(boards[i]) {
					failed.Add(1)
					log.Warn().
						Str("side", side).
						Str("board", boards[i].String()).
						Msg("board failed verification")
				}
				done := processed.Add(1)
				if logEvery > 0 && (done%int64(logEvery) == 0 || done == total) {
					log.Info().
						Str("side", side).
						Int64("processed", done).
						Int64("total", total).
						Msg("verify progress")
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return int(failed.Load()), err
	}

	log.Info().Str("side", side).Int64("total", total).Int64("failed", failed.Load()).Msg("verification complete")
	return int(failed.Load()), nil
}
