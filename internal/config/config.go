// Package config loads the solver's JSON configuration and builds the
// starting game state from it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/freeeve/chipsolver/internal/game"
)

// ErrBadConfig reports a missing or invalid configuration.
var ErrBadConfig = errors.New("bad config")

// Config mirrors the JSON configuration schema. Unknown keys are ignored.
type Config struct {
	Common struct {
		// KAndN lists (k_i, n_i) pairs: n_i columns holding k_i chips.
		KAndN     [][2]int `json:"k-and-n"`
		Goal      int      `json:"goal"`
		Symmetric bool     `json:"symmetric"`
	} `json:"common"`

	Minimax struct {
		FilesToLoadFrom struct {
			Winning []string `json:"winning"`
			Losing  []string `json:"losing"`
		} `json:"files-to-load-from"`
		// HoursPerSave is the checkpoint interval; 0 disables.
		HoursPerSave float64 `json:"hours-per-save"`
		Threads      int     `json:"threads"`
	} `json:"minimax"`

	Verify struct {
		Threads      int `json:"threads"`
		LogFrequency struct {
			Winning int `json:"winning"`
			Losing  int `json:"losing"`
		} `json:"log-frequency"`
	} `json:"verify"`
}

// Load reads and validates a configuration file, applying defaults for
// absent tuning knobs.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	if len(cfg.Common.KAndN) == 0 {
		return nil, fmt.Errorf("%w: common.k-and-n is required", ErrBadConfig)
	}
	for _, kn := range cfg.Common.KAndN {
		if kn[0] <= 0 || kn[1] <= 0 {
			return nil, fmt.Errorf("%w: common.k-and-n entries must be positive, got [%d, %d]", ErrBadConfig, kn[0], kn[1])
		}
	}
	if cfg.Common.Goal <= 0 {
		return nil, fmt.Errorf("%w: common.goal must be positive", ErrBadConfig)
	}

	if cfg.Minimax.Threads <= 0 {
		cfg.Minimax.Threads = runtime.NumCPU()
	}
	if cfg.Verify.Threads <= 0 {
		cfg.Verify.Threads = runtime.NumCPU()
	}
	if cfg.Verify.LogFrequency.Winning <= 0 {
		cfg.Verify.LogFrequency.Winning = 10
	}
	if cfg.Verify.LogFrequency.Losing <= 0 {
		cfg.Verify.LogFrequency.Losing = 50
	}

	return &cfg, nil
}

// Dimensions returns the board size: N columns across all pairs, K slots
// from the tallest pair.
func (c *Config) Dimensions() (n, k int) {
	for _, kn := range c.Common.KAndN {
		n += kn[1]
		if kn[0] > k {
			k = kn[0]
		}
	}
	return n, k
}

// InitialState builds the starting game state: for each (k_i, n_i) pair,
// n_i columns with k_i chips at row 0 and the remaining slots empty.
func (c *Config) InitialState() *game.GameState {
	n, k := c.Dimensions()

	state := make([][]int, 0, n)
	for _, kn := range c.Common.KAndN {
		for col := 0; col < kn[1]; col++ {
			column := make([]int, k)
			for idx := kn[0]; idx < k; idx++ {
				column[idx] = -1
			}
			state = append(state, column)
		}
	}

	board := game.NewBoardWithState(n, k, state)
	return game.NewGameState(board, c.Common.Goal, c.Common.Symmetric)
}
