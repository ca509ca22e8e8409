package game

import (
	"fmt"
	"strconv"
	"strings"
)

type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Move is the sequence of squares a piece visits: a simple step has two
// squares, a capture chain one more square per jump.
type Move struct {
	Seq []Position
}

func NewMove(seq ...Position) Move {
	return Move{Seq: seq}
}

func (m Move) From() Position { return m.Seq[0] }
func (m Move) To() Position   { return m.Seq[len(m.Seq)-1] }

// IsCapture reports whether the first step jumps over a piece.
func (m Move) IsCapture() bool {
	return len(m.Seq) > 1 && abs(m.Seq[1].Row-m.Seq[0].Row) == 2
}

// String is the canonical form, e.g. "(5,0)-(4,1)" or "(2,1)-(4,3)-(6,5)".
func (m Move) String() string {
	parts := make([]string, len(m.Seq))
	for i, p := range m.Seq {
		parts[i] = p.String()
	}
	return strings.Join(parts, "-")
}

// ParseMove reads the canonical form produced by String. Whitespace is
// ignored.
func ParseMove(s string) (Move, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return Move{}, fmt.Errorf("empty move")
	}

	var seq []Position
	for _, part := range strings.Split(s, "-") {
		if len(part) < 5 || part[0] != '(' || part[len(part)-1] != ')' {
			return Move{}, fmt.Errorf("malformed square %q in move %q", part, s)
		}
		coords := strings.Split(part[1:len(part)-1], ",")
		if len(coords) != 2 {
			return Move{}, fmt.Errorf("malformed square %q in move %q", part, s)
		}
		row, err := strconv.Atoi(coords[0])
		if err != nil {
			return Move{}, fmt.Errorf("malformed row in move %q: %w", s, err)
		}
		col, err := strconv.Atoi(coords[1])
		if err != nil {
			return Move{}, fmt.Errorf("malformed column in move %q: %w", s, err)
		}
		seq = append(seq, Position{Row: row, Col: col})
	}

	if len(seq) < 2 {
		return Move{}, fmt.Errorf("move %q needs at least two squares", s)
	}
	return Move{Seq: seq}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
