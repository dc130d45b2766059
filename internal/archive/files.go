package archive

import (
	"fmt"
	"path/filepath"
)

// Directory names for the two archive sides and temporary snapshots.
const (
	WinningDir = "winning"
	LosingDir  = "losing"
	TempDir    = "temp"
)

// FileName assembles the archive file name for a game:
// N{N}_K{K}_goal{GOAL}[_sym]_board[{suffix}].txt
func FileName(n, k, goal int, symmetric bool, suffix string) string {
	sym := ""
	if symmetric {
		sym = "_sym"
	}
	return fmt.Sprintf("N%d_K%d_goal%d%s_board%s.txt", n, k, goal, sym, suffix)
}

// WinningPath returns the winning-side file path under baseDir.
func WinningPath(baseDir string, n, k, goal int, symmetric bool) string {
	return filepath.Join(baseDir, WinningDir, FileName(n, k, goal, symmetric, ""))
}

// LosingPath returns the losing-side file path under baseDir.
func LosingPath(baseDir string, n, k, goal int, symmetric bool) string {
	return filepath.Join(baseDir, LosingDir, FileName(n, k, goal, symmetric, ""))
}

// TempPath returns a timestamped snapshot path under baseDir/temp. side is
// WinningDir or LosingDir; stamp is the timestamp suffix.
func TempPath(baseDir, side string, n, k, goal int, symmetric bool, stamp string) string {
	return filepath.Join(baseDir, TempDir, side, FileName(n, k, goal, symmetric, "_"+stamp))
}
