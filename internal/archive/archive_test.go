package archive_test

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/freeeve/chipsolver/internal/archive"
	"github.com/freeeve/chipsolver/internal/game"
)

func newArchive() *archive.Archive {
	return archive.New(zerolog.Nop())
}

func board(t *testing.T, n, k int, state [][]int) *game.Board {
	t.Helper()
	return game.NewBoardWithState(n, k, state)
}

func TestPredictWinnerTerminal(t *testing.T) {
	arc := newArchive()
	state := game.NewGameState(board(t, 1, 1, [][]int{{2}}), 2, false)
	if got := arc.PredictWinner(state, 1); got != game.Pusher {
		t.Errorf("terminal pusher win: got %v, want pusher", got)
	}
}

func TestPredictWinnerUnknown(t *testing.T) {
	arc := newArchive()
	state := game.NewGameState(game.NewBoard(2, 2), 2, false)
	if got := arc.PredictWinner(state, 1); got != game.None {
		t.Errorf("empty archive: got %v, want none", got)
	}
}

func TestPredictWinnerFromLosingArchive(t *testing.T) {
	// A state dominated by a losing board after column permutation is
	// predicted losing.
	arc := newArchive()
	arc.AddLosing(board(t, 3, 3, [][]int{
		{0, 0, 0},
		{0, 0, -1},
		{-1, -1, -1},
	}))

	state := game.NewGameState(board(t, 3, 3, [][]int{
		{-1, -1, -1},
		{0, 0, 0},
		{0, 0, -1},
	}), 2, false)
	if got := arc.PredictWinner(state, 1); got != game.Remover {
		t.Errorf("dominated by losing board: got %v, want remover", got)
	}
}

func TestPredictWinnerFromWinningArchive(t *testing.T) {
	arc := newArchive()
	arc.AddWinning(board(t, 2, 2, [][]int{
		{1, 1},
		{-1, -1},
	}))

	// Same chip count, strictly taller: dominates the archived board
	state := game.NewGameState(board(t, 2, 2, [][]int{
		{2, 1},
		{-1, -1},
	}), 3, false)
	if got := arc.PredictWinner(state, 1); got != game.Pusher {
		t.Errorf("dominates winning board: got %v, want pusher", got)
	}

	// More chips, strictly greater direction required
	state = game.NewGameState(board(t, 2, 2, [][]int{
		{2, 1},
		{1, -1},
	}), 3, false)
	if got := arc.PredictWinner(state, 1); got != game.Pusher {
		t.Errorf("strictly dominates from a bigger board: got %v, want pusher", got)
	}
}

func TestPredictWinnerBucketDirections(t *testing.T) {
	// A losing board with fewer chips can never decide a bigger state,
	// and vice versa for winning boards.
	arc := newArchive()
	arc.AddLosing(board(t, 2, 2, [][]int{
		{0, -1},
		{-1, -1},
	}))
	state := game.NewGameState(game.NewBoard(2, 2), 5, false)
	if got := arc.PredictWinner(state, 1); got != game.None {
		t.Errorf("losing bucket below the state's chip count: got %v, want none", got)
	}
}

func TestPredictWinnerRestoresMovedChips(t *testing.T) {
	arc := newArchive()
	arc.AddLosing(board(t, 2, 1, [][]int{{0}, {0}}))

	// Remover-turn state whose pre-push snapshot is exactly the archived
	// losing board
	state := game.NewGameState(board(t, 2, 1, [][]int{{0}, {0}}), 3, false)
	if !state.ApplyPusher(game.PusherMove{0, 1}) {
		t.Fatal("push should succeed")
	}
	if got := arc.PredictWinner(state, 1); got != game.Remover {
		t.Errorf("pre-move snapshot lookup: got %v, want remover", got)
	}
}

func TestPredictWinnerParallel(t *testing.T) {
	arc := newArchive()
	for row := 5; row < 30; row++ {
		arc.AddWinningBatch(board(t, 2, 2, [][]int{
			{row, row},
			{-1, -1},
		}))
	}
	state := game.NewGameState(board(t, 2, 2, [][]int{
		{40, 40},
		{-1, -1},
	}), 50, false)
	if got := arc.PredictWinner(state, 8); got != game.Pusher {
		t.Errorf("parallel query: got %v, want pusher", got)
	}
}

func TestAddWinningTidiesOnInsert(t *testing.T) {
	arc := newArchive()
	arc.AddWinning(board(t, 2, 1, [][]int{{3}, {3}}))
	if arc.WinningCount() != 1 {
		t.Fatalf("count: got %d, want 1", arc.WinningCount())
	}

	// A taller winning board adds nothing
	arc.AddWinning(board(t, 2, 1, [][]int{{4}, {4}}))
	if arc.WinningCount() != 1 {
		t.Errorf("redundant insert: count got %d, want 1", arc.WinningCount())
	}

	// A shorter winning board obsoletes the resident
	arc.AddWinning(board(t, 2, 1, [][]int{{2}, {2}}))
	if arc.WinningCount() != 1 {
		t.Errorf("stronger insert: count got %d, want 1", arc.WinningCount())
	}
	got := arc.WinningBoards()
	if len(got) != 1 || got[0].ChipRow(0, 0) != 2 {
		t.Errorf("surviving board: got %v", got[0].String())
	}
}

func TestAddLosingTidiesOnInsert(t *testing.T) {
	arc := newArchive()
	arc.AddLosing(board(t, 2, 1, [][]int{{3}, {3}}))
	arc.AddLosing(board(t, 2, 1, [][]int{{2}, {2}})) // weaker, dropped
	if arc.LosingCount() != 1 {
		t.Errorf("count: got %d, want 1", arc.LosingCount())
	}
	arc.AddLosing(board(t, 2, 1, [][]int{{5}, {5}})) // stronger, replaces
	got := arc.LosingBoards()
	if len(got) != 1 || got[0].ChipRow(0, 0) != 5 {
		t.Errorf("surviving board: got %v", got[0].String())
	}
}

func TestPruneRestoresAntichain(t *testing.T) {
	arc := newArchive()
	for row := 1; row <= 5; row++ {
		arc.AddWinningBatch(board(t, 2, 1, [][]int{{row}, {row}}))
		arc.AddLosingBatch(board(t, 2, 1, [][]int{{row}, {row}}))
	}
	// Incomparable with the chain boards
	arc.AddWinningBatch(board(t, 2, 1, [][]int{{0}, {6}}))

	arc.Prune()

	winning := arc.WinningBoards()
	for i := range winning {
		for j := i + 1; j < len(winning); j++ {
			if game.CompareBoards(winning[i], winning[j], game.Both) != game.Incomparable {
				t.Errorf("winning boards %d and %d are comparable after prune", i, j)
			}
		}
	}
	losing := arc.LosingBoards()
	if len(losing) != 1 || losing[0].ChipRow(0, 0) != 5 {
		t.Errorf("losing survivor: got %d boards", len(losing))
	}
	if len(winning) != 2 {
		t.Errorf("winning survivors: got %d, want 2", len(winning))
	}
}

func TestArchiveMonotone(t *testing.T) {
	// Adding boards never flips a decisive verdict.
	arc := newArchive()
	arc.AddWinning(board(t, 2, 2, [][]int{
		{1, 1},
		{-1, -1},
	}))
	state := game.NewGameState(board(t, 2, 2, [][]int{
		{2, 1},
		{-1, -1},
	}), 3, false)
	if arc.PredictWinner(state, 1) != game.Pusher {
		t.Fatal("setup: state should be predicted winning")
	}

	arc.AddLosing(board(t, 2, 2, [][]int{
		{0, 0},
		{0, 0},
	}))
	if got := arc.PredictWinner(state, 1); got != game.Pusher {
		t.Errorf("verdict flipped after addLosing: got %v, want pusher", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	arc := newArchive()
	arc.AddWinning(board(t, 2, 2, [][]int{
		{2, 1},
		{0, -1},
	}))
	arc.AddLosing(board(t, 2, 2, [][]int{
		{0, 0},
		{-1, -1},
	}))

	winPath := filepath.Join(dir, "winning.txt")
	losePath := filepath.Join(dir, "losing.txt.zst")
	if err := arc.SaveWinning(winPath); err != nil {
		t.Fatal(err)
	}
	if err := arc.SaveLosing(losePath); err != nil {
		t.Fatal(err)
	}

	loaded := newArchive()
	if err := loaded.LoadWinning(winPath); err != nil {
		t.Fatal(err)
	}
	if err := loaded.LoadLosing(losePath); err != nil {
		t.Fatal(err)
	}
	if loaded.WinningCount() != 1 || loaded.LosingCount() != 1 {
		t.Fatalf("loaded counts: winning %d losing %d, want 1 and 1", loaded.WinningCount(), loaded.LosingCount())
	}
	if loaded.WinningBoards()[0].String() != arc.WinningBoards()[0].String() {
		t.Errorf("winning board round trip mismatch")
	}
	if loaded.LosingBoards()[0].String() != arc.LosingBoards()[0].String() {
		t.Errorf("losing board round trip mismatch")
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	arc := newArchive()
	if err := arc.LoadWinning(filepath.Join(t.TempDir(), "absent.txt")); err != nil {
		t.Errorf("missing file should load as empty, got %v", err)
	}
	if arc.WinningCount() != 0 {
		t.Errorf("count: got %d, want 0", arc.WinningCount())
	}
}

func TestFileName(t *testing.T) {
	if got := archive.FileName(5, 3, 6, false, ""); got != "N5_K3_goal6_board.txt" {
		t.Errorf("FileName: got %q", got)
	}
	if got := archive.FileName(4, 2, 3, true, ""); got != "N4_K2_goal3_sym_board.txt" {
		t.Errorf("FileName symmetric: got %q", got)
	}
	if got := archive.FileName(4, 2, 3, false, "_2024-05-07_07-17"); got != "N4_K2_goal3_board_2024-05-07_07-17.txt" {
		t.Errorf("FileName with suffix: got %q", got)
	}
}

func TestArchivePaths(t *testing.T) {
	got := archive.WinningPath("data", 2, 2, 2, false)
	want := filepath.Join("data", "winning", "N2_K2_goal2_board.txt")
	if got != want {
		t.Errorf("WinningPath: got %q, want %q", got, want)
	}
	temp := archive.TempPath("data", archive.LosingDir, 2, 2, 2, true, "2024-05-07_07-17")
	want = filepath.Join("data", "temp", "losing", "N2_K2_goal2_sym_board_2024-05-07_07-17.txt")
	if temp != want {
		t.Errorf("TempPath: got %q, want %q", temp, want)
	}
}
