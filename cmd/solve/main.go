package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/freeeve/chipsolver/internal/archive"
	"github.com/freeeve/chipsolver/internal/config"
	"github.com/freeeve/chipsolver/internal/logx"
	"github.com/freeeve/chipsolver/internal/search"
)

func main() {
	baseDir := flag.String("data-dir", ".", "Base directory for winning/, losing/, and temp/ archives")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: solve [options] <config.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.New()

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		logx.NewWriter(os.Stderr).Fatal().Err(err).Str("path", flag.Arg(0)).Msg("load config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	state := cfg.InitialState()
	board := state.Board()
	logger.Info().
		Int("n", board.N()).
		Int("k", board.K()).
		Int("goal", cfg.Common.Goal).
		Bool("symmetric", cfg.Common.Symmetric).
		Int("threads", cfg.Minimax.Threads).
		Msg("starting solver")

	arc := archive.New(logger)
	for _, path := range cfg.Minimax.FilesToLoadFrom.Winning {
		if err := arc.LoadWinning(path); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("load winning archive")
		}
	}
	for _, path := range cfg.Minimax.FilesToLoadFrom.Losing {
		if err := arc.LoadLosing(path); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("load losing archive")
		}
	}
	// Bulk loads append without tidying; restore the antichain before the
	// search starts querying.
	arc.Prune()
	logger.Info().
		Int("winning", arc.WinningCount()).
		Int("losing", arc.LosingCount()).
		Msg("archive ready")

	start := time.Now()
	winner, resolved, err := search.Minimax(ctx, state, arc, search.Options{
		Threads:      cfg.Minimax.Threads,
		HoursPerSave: cfg.Minimax.HoursPerSave,
		BaseDir:      *baseDir,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("search interrupted")
	}

	logger.Info().
		Stringer("winner", winner).
		Int64("resolved", resolved).
		Dur("elapsed", time.Since(start)).
		Msg("search complete")

	arc.Prune()

	winningPath := archive.WinningPath(*baseDir, board.N(), board.K(), cfg.Common.Goal, cfg.Common.Symmetric)
	losingPath := archive.LosingPath(*baseDir, board.N(), board.K(), cfg.Common.Goal, cfg.Common.Symmetric)
	for _, path := range []string{winningPath, losingPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("create archive dir")
		}
	}
	if err := arc.SaveWinning(winningPath); err != nil {
		logger.Fatal().Err(err).Msg("save winning archive")
	}
	if err := arc.SaveLosing(losingPath); err != nil {
		logger.Fatal().Err(err).Msg("save losing archive")
	}
}
