package player

import (
	"checkers/experiments/metrics"
	"checkers/searcher"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// Fallback marks the metrics of every move: the player never searches.
const Fallback = "random"

var ErrMissingMove = errors.New("opponent move required after the first turn")

// Player is the baseline opponent: it tracks the game on its own board and
// answers every move with a uniformly random legal move.
type Player struct {
	board searcher.Board
	self  searcher.Player
	turns int
	rand  *rand.Rand
}

// NewPlayer returns a random player for a game starting at board. Like the
// search agent it plays White unless it opens the game.
func NewPlayer(board searcher.Board, r *rand.Rand) *Player {
	if r == nil {
		r = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &Player{
		board: board.Clone(),
		self:  searcher.White,
		rand:  r,
	}
}

func (p *Player) FindMove(opponent searcher.Move) (searcher.Move, metrics.SearchMetric, error) {
	metric := metrics.SearchMetric{Fallback: Fallback}

	if opponent == nil {
		if p.turns > 0 {
			return nil, metric, ErrMissingMove
		}
		p.self = searcher.Black
	} else if err := p.board.Play(opponent, p.self.Opponent()); err != nil {
		return nil, metric, fmt.Errorf("failed to apply opponent move: %w", err)
	}
	p.turns++

	move, err := p.TakeTurn()
	if err != nil {
		return nil, metric, err
	}
	if err := p.board.Play(move, p.self); err != nil {
		return nil, metric, fmt.Errorf("failed to apply own move: %w", err)
	}
	return move, metric, nil
}

// TakeTurn picks a random legal move for the player without playing it.
func (p *Player) TakeTurn() (searcher.Move, error) {
	moves := searcher.LegalMoves(p.board, p.self)
	if len(moves) == 0 {
		return nil, searcher.ErrNoLegalMoves
	}
	return moves[p.rand.Intn(len(moves))], nil
}

func (p *Player) Player() searcher.Player { return p.self }
