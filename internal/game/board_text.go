package game

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadBoardString reports a board string whose header or body does not
// match the textual format.
var ErrBadBoardString = errors.New("bad board string")

// headerRegexp matches the first line of the textual format:
// n={N},k={K},n_chips={M}
var headerRegexp = regexp.MustCompile(`^n=(\d+),k=(\d+),n_chips=(\d+)$`)

// String renders the board in the textual format: a header line followed
// by one line per column, tallest chip first, -1 for removed chips.
func (b *Board) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "n=%d,k=%d,n_chips=%d\n", b.n, b.k, b.numChips)
	for c := 0; c < b.n; c++ {
		for idx := 0; idx < b.k; idx++ {
			if idx > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(b.cols[c][idx]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads a board from its textual format. The chip count is
// recomputed from the body rather than trusted from the header.
func ParseBoard(s string) (*Board, error) {
	s = strings.TrimSpace(s)
	lines := strings.SplitN(s, "\n", 2)
	m := headerRegexp.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if m == nil {
		return nil, fmt.Errorf("%w: header %q", ErrBadBoardString, lines[0])
	}
	n, _ := strconv.Atoi(m[1])
	k, _ := strconv.Atoi(m[2])

	var body string
	if len(lines) == 2 {
		body = lines[1]
	}
	fields := strings.Fields(body)
	if len(fields) != n*k {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrBadBoardString, n*k, len(fields))
	}

	state := make([][]int, n)
	for c := 0; c < n; c++ {
		state[c] = make([]int, k)
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: value %q", ErrBadBoardString, f)
		}
		state[i/k][i%k] = v
	}

	return NewBoardWithState(n, k, state), nil
}
