package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/freeeve/chipsolver/internal/archive"
	"github.com/freeeve/chipsolver/internal/config"
	"github.com/freeeve/chipsolver/internal/logx"
	"github.com/freeeve/chipsolver/internal/search"
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: verify <config.json>")
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
	arc.Prune()
	logger.Info().
		Int("winning", arc.WinningCount()).
		Int("losing", arc.LosingCount()).
		Msg("archive loaded")

	// Report the starting state's verdict before checking the archives.
	state := cfg.InitialState()
	predicted := arc.PredictWinner(state, cfg.Verify.Threads)
	logger.Info().Stringer("predicted_winner", predicted).Msg("starting state")

	opts := search.VerifyOptions{
		Threads:         cfg.Verify.Threads,
		LogEveryWinning: cfg.Verify.LogFrequency.Winning,
		LogEveryLosing:  cfg.Verify.LogFrequency.Losing,
		Logger:          logger,
	}

	failedWinning, err := search.VerifyWinning(ctx, arc, cfg.Common.Goal, cfg.Common.Symmetric, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("verify winning")
	}
	failedLosing, err := search.VerifyLosing(ctx, arc, cfg.Common.Goal, cfg.Common.Symmetric, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("verify losing")
	}

	logger.Info().
		Int("failed_winning", failedWinning).
		Int("failed_losing", failedLosing).
		Msg("verification finished")
}
