package game_test

import (
	"strings"
	"testing"

	"github.com/freeeve/chipsolver/internal/game"
)

func countChips(b *game.Board) int {
	count := 0
	for c := 0; c < b.N(); c++ {
		for idx := 0; idx < b.K(); idx++ {
			if b.ChipRow(c, idx) != -1 {
				count++
			}
		}
	}
	return count
}

func assertTidy(t *testing.T, b *game.Board) {
	t.Helper()
	for c := 0; c < b.N(); c++ {
		seenRemoved := false
		for idx := 0; idx < b.K(); idx++ {
			row := b.ChipRow(c, idx)
			if idx > 0 && row > b.ChipRow(c, idx-1) {
				t.Errorf("column %d not sorted descending: %v", c, b.Column(c))
			}
			if row == -1 {
				seenRemoved = true
			} else if seenRemoved {
				t.Errorf("column %d has a chip after a removed slot: %v", c, b.Column(c))
			}
		}
	}
}

func TestNewBoard(t *testing.T) {
	b := game.NewBoard(3, 2)
	if b.NumChips() != 6 {
		t.Errorf("NumChips: got %d, want 6", b.NumChips())
	}
	if b.MaxRow() != 0 {
		t.Errorf("MaxRow: got %d, want 0", b.MaxRow())
	}
	if b.CurrentPlayer() != game.Pusher {
		t.Errorf("CurrentPlayer: got %v, want pusher", b.CurrentPlayer())
	}
}

func TestNewBoardWithStateTidies(t *testing.T) {
	b := game.NewBoardWithState(2, 3, [][]int{
		{0, 2, 1},
		{-1, 0, 3},
	})
	assertTidy(t, b)
	if got := b.Column(0); got[0] != 2 || got[1] != 1 || got[2] != 0 {
		t.Errorf("column 0: got %v, want [2 1 0]", got)
	}
	if got := b.Column(1); got[0] != 3 || got[1] != 0 || got[2] != -1 {
		t.Errorf("column 1: got %v, want [3 0 -1]", got)
	}
	if b.NumChips() != 5 {
		t.Errorf("NumChips: got %d, want 5", b.NumChips())
	}
}

func TestApplyPusherMarksAndSorts(t *testing.T) {
	b := game.NewBoard(2, 2)
	// Push only the second chip of column 0
	if !b.ApplyPusher(game.PusherMove{1}) {
		t.Fatal("ApplyPusher returned false for a valid move")
	}
	assertTidy(t, b)
	if b.ChipRow(0, 0) != 1 || b.ChipRow(0, 1) != 0 {
		t.Errorf("column 0: got %v, want [1 0]", b.Column(0))
	}
	if !b.ChipMoved(0, 0) {
		t.Error("pushed chip should carry the moved flag after tidy")
	}
	if b.CurrentPlayer() != game.Remover {
		t.Errorf("CurrentPlayer: got %v, want remover", b.CurrentPlayer())
	}
}

func TestApplyPusherSkipsInvalidIndices(t *testing.T) {
	b := game.NewBoard(2, 2)
	if b.ApplyPusher(game.PusherMove{-1, 99}) {
		t.Error("ApplyPusher should report false when no valid chip advanced")
	}
	if b.CurrentPlayer() != game.Pusher {
		t.Errorf("no chip moved, still pusher's turn: got %v", b.CurrentPlayer())
	}
}

func TestApplyRemover(t *testing.T) {
	b := game.NewBoard(2, 2)
	b.ApplyPusher(game.PusherMove{0, 1, 2, 3})
	if !b.ApplyRemover(0) {
		t.Fatal("ApplyRemover returned false for a column with moved chips")
	}
	assertTidy(t, b)
	if b.NumChips() != 2 {
		t.Errorf("NumChips: got %d, want 2", b.NumChips())
	}
	if b.NumChips() != countChips(b) {
		t.Errorf("NumChips %d disagrees with layout %d", b.NumChips(), countChips(b))
	}
	for c := 0; c < b.N(); c++ {
		for idx := 0; idx < b.K(); idx++ {
			if b.ChipMoved(c, idx) {
				t.Error("moved flags must be cleared after a remover move")
			}
		}
	}
	if b.CurrentPlayer() != game.Pusher {
		t.Errorf("CurrentPlayer: got %v, want pusher", b.CurrentPlayer())
	}
}

func TestApplyRemoverWithoutMovedChips(t *testing.T) {
	b := game.NewBoard(2, 2)
	if b.ApplyRemover(0) {
		t.Error("ApplyRemover should report false when nothing was moved")
	}
	if b.ApplyRemover(5) {
		t.Error("ApplyRemover should report false for an invalid column")
	}
}

func TestNumChipsAfterApplies(t *testing.T) {
	b := game.NewBoard(3, 3)
	for round := 0; round < 3; round++ {
		moves := b.PusherMoves()
		b.ApplyPusher(moves[len(moves)-1])
		if b.NumChips() != countChips(b) {
			t.Fatalf("after push: NumChips %d disagrees with layout %d", b.NumChips(), countChips(b))
		}
		removerMoves := b.RemoverMoves()
		if len(removerMoves) == 0 {
			t.Fatal("remover should have a move after a push")
		}
		b.ApplyRemover(removerMoves[0])
		if b.NumChips() != countChips(b) {
			t.Fatalf("after removal: NumChips %d disagrees with layout %d", b.NumChips(), countChips(b))
		}
		assertTidy(t, b)
	}
}

func TestPusherMovesEnumeratesPowerset(t *testing.T) {
	b := game.NewBoardWithState(2, 2, [][]int{
		{0, 0},
		{0, -1},
	})
	moves := b.PusherMoves()
	if len(moves) != 7 { // 2^3 - 1
		t.Errorf("moves: got %d, want 7", len(moves))
	}
}

func TestRemoverMovesOrderedByMovedCount(t *testing.T) {
	b := game.NewBoard(3, 3)
	// Column 2 gets three moved chips, column 0 one
	b.ApplyPusher(game.PusherMove{0, 6, 7, 8})
	moves := b.RemoverMoves()
	if len(moves) != 2 {
		t.Fatalf("moves: got %d, want 2", len(moves))
	}
	if moves[0] != 2 || moves[1] != 0 {
		t.Errorf("moves: got %v, want [2 0] (decreasing moved count)", moves)
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := game.NewBoard(2, 2)
	clone := b.Clone()
	clone.ApplyPusher(game.PusherMove{0, 1, 2, 3})
	if b.MaxRow() != 0 {
		t.Error("mutating a clone must not touch the original")
	}
	if b.CurrentPlayer() != game.Pusher {
		t.Error("original board should still be pusher to move")
	}
}

func TestBoardStringFormat(t *testing.T) {
	b := game.NewBoardWithState(2, 3, [][]int{
		{2, 0, -1},
		{1, 1, 0},
	})
	want := "n=2,k=3,n_chips=5\n2 0 -1\n1 1 0\n"
	if got := b.String(); got != want {
		t.Errorf("String:\ngot  %q\nwant %q", got, want)
	}
}

func TestParseBoardRoundTrip(t *testing.T) {
	b := game.NewBoardWithState(3, 3, [][]int{
		{5, 3, -1},
		{2, 2, 0},
		{-1, -1, -1},
	})
	parsed, err := game.ParseBoard(b.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.String() != b.String() {
		t.Errorf("round trip:\ngot  %q\nwant %q", parsed.String(), b.String())
	}
	if parsed.NumChips() != 5 {
		t.Errorf("NumChips: got %d, want 5", parsed.NumChips())
	}
}

func TestParseBoardBadHeader(t *testing.T) {
	_, err := game.ParseBoard("rows=2,k=2\n0 0\n0 0\n")
	if err == nil {
		t.Fatal("expected an error for a bad header")
	}
	if !strings.Contains(err.Error(), "bad board string") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseBoardWrongCount(t *testing.T) {
	if _, err := game.ParseBoard("n=2,k=2,n_chips=4\n0 0 0\n"); err == nil {
		t.Fatal("expected an error when the body has too few values")
	}
}
