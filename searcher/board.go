package searcher

import "errors"

// Player identifies a side. Status results reuse it: NoWinner while a game
// is ongoing and Tie for a draw.
type Player int

const (
	Tie      Player = -1
	NoWinner Player = 0
	Black    Player = 1
	White    Player = 2
)

func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	default:
		return p
	}
}

func (p Player) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	case Tie:
		return "tie"
	default:
		return "none"
	}
}

// ErrNoLegalMoves is returned when the side to move has nothing to play.
var ErrNoLegalMoves = errors.New("no legal moves available")

// Move is compared by its canonical string form.
type Move interface {
	String() string
}

// Board is the rules engine consumed by the search. Implementations must
// return fully independent copies from Clone.
type Board interface {
	// Moves returns the legal moves of p grouped by originating piece
	Moves(p Player) [][]Move
	Play(move Move, p Player) error
	// Status reports NoWinner, the winning side, or Tie with p to move
	Status(p Player) Player
	Counts() (black, white int)
	Size() (rows, cols int)
	Piece(row, col int) (owner Player, king bool)
	Clone() Board
}

// LegalMoves flattens the grouped moves of p in generation order.
func LegalMoves(board Board, p Player) []Move {
	var moves []Move
	for _, group := range board.Moves(p) {
		moves = append(moves, group...)
	}
	return moves
}

func sameMove(a, b Move) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}
