package game

import (
	"checkers/searcher"
	"errors"
	"fmt"
	"strings"
)

// TieMax is the number of consecutive plies without a capture that ends the
// game in a tie.
const TieMax = 40

var ErrIllegalMove = errors.New("illegal move")

// Checker is the content of one square. An empty square has no owner.
type Checker struct {
	Owner searcher.Player
	King  bool
}

// Board is a checkers position. Black (player 1) starts on the top rows and
// moves down, White (player 2) starts on the bottom rows and moves up.
// Pieces stand on squares where row+col is odd.
type Board struct {
	cols   int
	rows   int
	cells  []Checker // row-major
	black  int
	white  int
	quiet  int // plies since the last capture
	tieMax int
}

// NewBoard returns a board in the initial position with startRows rows of
// pieces per side.
func NewBoard(cols, rows, startRows int) *Board {
	b := NewEmptyBoard(cols, rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if (r+c)%2 == 0 {
				continue
			}
			switch {
			case r < startRows:
				b.Set(r, c, Checker{Owner: searcher.Black})
			case r >= rows-startRows:
				b.Set(r, c, Checker{Owner: searcher.White})
			}
		}
	}
	return b
}

func NewEmptyBoard(cols, rows int) *Board {
	return &Board{
		cols:   cols,
		rows:   rows,
		cells:  make([]Checker, cols*rows),
		tieMax: TieMax,
	}
}

// ParseBoard builds a position from one string per row using '.' for an empty
// square, 'b'/'w' for men and 'B'/'W' for kings.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("board needs at least one row")
	}
	b := NewEmptyBoard(len(rows[0]), len(rows))
	for r, line := range rows {
		if len(line) != b.cols {
			return nil, fmt.Errorf("row %d has %d squares, expected %d", r, len(line), b.cols)
		}
		for c, ch := range line {
			switch ch {
			case '.', ' ', '-':
			case 'b':
				b.Set(r, c, Checker{Owner: searcher.Black})
			case 'B':
				b.Set(r, c, Checker{Owner: searcher.Black, King: true})
			case 'w':
				b.Set(r, c, Checker{Owner: searcher.White})
			case 'W':
				b.Set(r, c, Checker{Owner: searcher.White, King: true})
			default:
				return nil, fmt.Errorf("unknown square %q at (%d,%d)", ch, r, c)
			}
		}
	}
	return b, nil
}

// Set places checker on a square, replacing its previous content.
func (b *Board) Set(row, col int, checker Checker) {
	i := b.index(row, col)
	b.count(b.cells[i].Owner, -1)
	b.cells[i] = checker
	b.count(checker.Owner, 1)
}

func (b *Board) At(row, col int) Checker {
	if !b.inside(row, col) {
		return Checker{}
	}
	return b.cells[b.index(row, col)]
}

func (b *Board) Size() (rows, cols int) {
	return b.rows, b.cols
}

func (b *Board) Piece(row, col int) (searcher.Player, bool) {
	checker := b.At(row, col)
	return checker.Owner, checker.King
}

func (b *Board) Counts() (black, white int) {
	return b.black, b.white
}

// QuietPlies is the number of plies since the last capture.
func (b *Board) QuietPlies() int {
	return b.quiet
}

func (b *Board) Clone() searcher.Board {
	return b.Copy()
}

func (b *Board) Copy() *Board {
	clone := *b
	clone.cells = make([]Checker, len(b.cells))
	copy(clone.cells, b.cells)
	return &clone
}

// Moves returns the legal moves of p grouped by the piece that moves. When
// any capture is available only captures are returned.
func (b *Board) Moves(p searcher.Player) [][]searcher.Move {
	var captures, steps [][]searcher.Move
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			checker := b.cells[b.index(r, c)]
			if checker.Owner != p {
				continue
			}
			if jumps := b.captures(Position{r, c}, checker); len(jumps) > 0 {
				captures = append(captures, jumps)
			} else if len(captures) == 0 {
				if simple := b.steps(Position{r, c}, checker); len(simple) > 0 {
					steps = append(steps, simple)
				}
			}
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return steps
}

// Play applies move for p. The move must be one of the legal moves of p.
func (b *Board) Play(move searcher.Move, p searcher.Player) error {
	if move == nil {
		return fmt.Errorf("%w: no move given", ErrIllegalMove)
	}
	legal := b.find(move.String(), p)
	if legal == nil {
		return fmt.Errorf("%w: %s for %s", ErrIllegalMove, move, p)
	}
	b.apply(*legal)
	return nil
}

// Status reports the result with p to move: Tie after TieMax quiet plies,
// otherwise the opponent of a side that has no pieces or no legal moves.
func (b *Board) Status(p searcher.Player) searcher.Player {
	if b.quiet >= b.tieMax {
		return searcher.Tie
	}
	if b.black == 0 {
		return searcher.White
	}
	if b.white == 0 {
		return searcher.Black
	}
	if !b.hasMoves(p) {
		return p.Opponent()
	}
	return searcher.NoWinner
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			checker := b.cells[b.index(r, c)]
			ch := byte('.')
			switch checker.Owner {
			case searcher.Black:
				ch = 'b'
			case searcher.White:
				ch = 'w'
			}
			if checker.King {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) find(s string, p searcher.Player) *Move {
	for _, group := range b.Moves(p) {
		for _, candidate := range group {
			if candidate.String() == s {
				m := candidate.(Move)
				return &m
			}
		}
	}
	return nil
}

func (b *Board) hasMoves(p searcher.Player) bool {
	return len(b.Moves(p)) > 0
}

func (b *Board) apply(m Move) {
	from, to := m.From(), m.To()
	checker := b.cells[b.index(from.Row, from.Col)]
	b.cells[b.index(from.Row, from.Col)] = Checker{}

	captured := false
	for i := 1; i < len(m.Seq); i++ {
		prev, next := m.Seq[i-1], m.Seq[i]
		if abs(next.Row-prev.Row) == 2 {
			b.Set((prev.Row+next.Row)/2, (prev.Col+next.Col)/2, Checker{})
			captured = true
		}
	}

	if b.crowns(checker.Owner, to.Row) {
		checker.King = true
	}
	b.cells[b.index(to.Row, to.Col)] = checker

	if captured {
		b.quiet = 0
	} else {
		b.quiet++
	}
}

func (b *Board) steps(from Position, checker Checker) []searcher.Move {
	var moves []searcher.Move
	for _, d := range b.directions(checker) {
		to := Position{from.Row + d.Row, from.Col + d.Col}
		if b.inside(to.Row, to.Col) && b.empty(to) {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

// captures returns every maximal jump chain of the piece on from. The board
// is modified while exploring and restored before returning.
func (b *Board) captures(from Position, checker Checker) []searcher.Move {
	var moves []searcher.Move
	b.cells[b.index(from.Row, from.Col)] = Checker{}
	b.jumps([]Position{from}, checker, &moves)
	b.cells[b.index(from.Row, from.Col)] = checker
	return moves
}

func (b *Board) jumps(path []Position, checker Checker, moves *[]searcher.Move) {
	at := path[len(path)-1]
	extended := false
	for _, d := range b.directions(checker) {
		over := Position{at.Row + d.Row, at.Col + d.Col}
		to := Position{at.Row + 2*d.Row, at.Col + 2*d.Col}
		if !b.inside(to.Row, to.Col) || !b.empty(to) {
			continue
		}
		victim := b.cells[b.index(over.Row, over.Col)]
		if victim.Owner != checker.Owner.Opponent() {
			continue
		}

		extended = true
		next := append(append([]Position{}, path...), to)
		b.cells[b.index(over.Row, over.Col)] = Checker{}
		if !checker.King && b.crowns(checker.Owner, to.Row) {
			// Crowning ends the move
			*moves = append(*moves, NewMove(next...))
		} else {
			b.jumps(next, checker, moves)
		}
		b.cells[b.index(over.Row, over.Col)] = victim
	}

	if !extended && len(path) > 1 {
		*moves = append(*moves, NewMove(path...))
	}
}

func (b *Board) directions(checker Checker) []Position {
	forward := 1
	if checker.Owner == searcher.White {
		forward = -1
	}
	dirs := []Position{{forward, -1}, {forward, 1}}
	if checker.King {
		dirs = append(dirs, Position{-forward, -1}, Position{-forward, 1})
	}
	return dirs
}

func (b *Board) crowns(owner searcher.Player, row int) bool {
	return (owner == searcher.Black && row == b.rows-1) || (owner == searcher.White && row == 0)
}

func (b *Board) count(owner searcher.Player, delta int) {
	switch owner {
	case searcher.Black:
		b.black += delta
	case searcher.White:
		b.white += delta
	}
}

func (b *Board) empty(p Position) bool {
	return b.cells[b.index(p.Row, p.Col)].Owner == searcher.NoWinner
}

func (b *Board) inside(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

func (b *Board) index(row, col int) int {
	return row*b.cols + col
}
