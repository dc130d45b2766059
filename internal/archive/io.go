package archive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/freeeve/chipsolver/internal/game"
)

// BoardDelimiter separates boards in an archive file.
const BoardDelimiter = "---"

// LoadWinning reads winning boards from path. A missing file is not an
// error; the archive simply stays as it is (loads are best-effort).
func (a *Archive) LoadWinning(path string) error {
	return a.loadSide(path, a.AddWinningBatch)
}

// LoadLosing reads losing boards from path.
func (a *Archive) LoadLosing(path string) error {
	return a.loadSide(path, a.AddLosingBatch)
}

func (a *Archive) loadSide(path string, add func(*game.Board)) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		a.log.Debug().Str("path", path).Msg("archive file does not exist, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	count := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var sb strings.Builder
	flush := func() error {
		if sb.Len() == 0 {
			return nil
		}
		board, err := game.ParseBoard(sb.String())
		if err != nil {
			return fmt.Errorf("parse board in %s: %w", path, err)
		}
		add(board)
		count++
		sb.Reset()
		return nil
	}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == BoardDelimiter {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	// The final board may not be followed by a delimiter
	if err := flush(); err != nil {
		return err
	}

	a.log.Info().Str("path", path).Int("boards", count).Msg("archive loaded")
	return nil
}

// SaveWinning writes the winning boards to path, compressed when the path
// ends in .zst.
func (a *Archive) SaveWinning(path string) error {
	return a.saveSide(path, a.WinningBoards())
}

// SaveLosing writes the losing boards to path.
func (a *Archive) SaveLosing(path string) error {
	return a.saveSide(path, a.LosingBoards())
}

func (a *Archive) saveSide(path string, boards []*game.Board) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		w = enc
	}

	bw := bufio.NewWriter(w)
	for _, board := range boards {
		if _, err := bw.WriteString(board.String()); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
		if _, err := bw.WriteString(BoardDelimiter + "\n"); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close zstd writer: %w", err)
		}
	}

	a.log.Info().Str("path", path).Int("boards", len(boards)).Msg("archive saved")
	return nil
}
