package agent

import (
	"checkers/experiments/metrics"
	"checkers/searcher"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrMissingMove = errors.New("opponent move required after the first turn")

// MCTSAgent plays one game with a persistent search tree. It keeps its own
// copy of the game, applies both sides' moves to it and charges its thinking
// time to a timekeeper.
type MCTSAgent struct {
	board      searcher.Board
	self       searcher.Player
	turns      int
	mcts       *searcher.MCTS
	timekeeper *searcher.Timekeeper
	rand       *rand.Rand
	now        searcher.Clock
}

// NewMCTSAgent returns an agent for a game starting at board. The agent
// plays White unless its first FindMove call opens the game.
func NewMCTSAgent(board searcher.Board, mcts *searcher.MCTS, timekeeper *searcher.Timekeeper, r *rand.Rand) *MCTSAgent {
	if timekeeper == nil {
		timekeeper = searcher.NewTimekeeper(0)
	}
	if r == nil {
		r = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &MCTSAgent{
		board:      board.Clone(),
		self:       searcher.White,
		mcts:       mcts,
		timekeeper: timekeeper,
		rand:       r,
		now:        time.Now,
	}
}

func (a *MCTSAgent) Player() searcher.Player          { return a.self }
func (a *MCTSAgent) Board() searcher.Board            { return a.board }
func (a *MCTSAgent) Timekeeper() *searcher.Timekeeper { return a.timekeeper }

func (a *MCTSAgent) FindMove(opponent searcher.Move) (searcher.Move, metrics.SearchMetric, error) {
	start := a.now()
	defer func() {
		a.timekeeper.Add(a.now().Sub(start))
	}()

	if err := a.observe(opponent); err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	a.turns++

	moves := searcher.LegalMoves(a.board, a.self)
	if len(moves) == 0 {
		a.mcts.Drop()
		return nil, metrics.SearchMetric{}, searcher.ErrNoLegalMoves
	}

	if a.timekeeper.Exhausted() {
		a.mcts.Drop()
		log.Warn().Dur("spent", a.timekeeper.Spent()).Msg("time budget exhausted, playing random move")
		return a.play(a.pick(moves), metrics.SearchMetric{Fallback: FallbackTimeBudget})
	}

	metric := a.mcts.Search(a.self)

	if a.mcts.Root().Visits() == 0 {
		metric.Fallback = FallbackUnvisitedRoot
		move := a.pick(moves)
		log.Warn().Str("move", move.String()).Msg("no search iteration completed, playing random move")
		if !a.mcts.Advance(move) {
			a.mcts.Drop()
		}
		return a.play(move, metric)
	}

	move, err := a.mcts.Commit()
	if err != nil {
		return nil, metric, err
	}
	return a.play(move, metric)
}

// observe brings the live board and the tree up to date with the opponent's
// move. A nil move on the first turn means the agent opens as Black.
func (a *MCTSAgent) observe(opponent searcher.Move) error {
	if opponent == nil {
		if a.turns > 0 {
			return ErrMissingMove
		}
		a.self = searcher.Black
		a.mcts.Reset(a.board, a.self)
		return nil
	}

	if err := a.board.Play(opponent, a.self.Opponent()); err != nil {
		return fmt.Errorf("failed to apply opponent move: %w", err)
	}
	if !a.mcts.Advance(opponent) {
		a.mcts.Reset(a.board, a.self)
	}
	return nil
}

func (a *MCTSAgent) play(move searcher.Move, metric metrics.SearchMetric) (searcher.Move, metrics.SearchMetric, error) {
	if err := a.board.Play(move, a.self); err != nil {
		return nil, metric, fmt.Errorf("failed to apply own move: %w", err)
	}
	return move, metric, nil
}

func (a *MCTSAgent) pick(moves []searcher.Move) searcher.Move {
	return moves[a.rand.Intn(len(moves))]
}
