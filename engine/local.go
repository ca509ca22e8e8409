package engine

import (
	"checkers/experiments/metrics"
	"checkers/meta"
	"checkers/searcher"
	"checkers/searcher/agent"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Local referees a game between two in-process agents. The first agent
// plays Black and opens the game.
type Local struct {
	board    searcher.Board
	agents   [2]agent.Agent
	maxTurns int
}

func LocalEngine(board searcher.Board, black, white agent.Agent, maxTurns int) *Local {
	if black == nil || white == nil {
		panic("need two agents")
	}
	if maxTurns <= 0 {
		maxTurns = meta.MaxTurns
	}
	return &Local{
		board:    board.Clone(),
		agents:   [2]agent.Agent{black, white},
		maxTurns: maxTurns,
	}
}

// Board returns the referee's copy of the game.
func (e *Local) Board() searcher.Board {
	return e.board
}

// Run executes the entire game loop. An agent that fails to produce a legal
// move loses.
func (e *Local) Run() (searcher.Player, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(searcher.Black),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	player := searcher.Black
	winner := searcher.NoWinner
	var last searcher.Move
	for turn := 1; turn <= e.maxTurns; turn++ {
		if status := e.board.Status(player); status != searcher.NoWinner {
			winner = status
			break
		}

		move, searchMetric, err := e.agents[player-1].FindMove(last)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       int(player),
			SearchMetric: searchMetric,
		})
		if err != nil {
			if !errors.Is(err, searcher.ErrNoLegalMoves) {
				log.Error().Err(err).Stringer("player", player).Int("turn", turn).Msg("agent failed to move")
			}
			winner = player.Opponent()
			break
		}
		if err := e.board.Play(move, player); err != nil {
			log.Error().Err(err).Stringer("player", player).Int("turn", turn).Msg("agent played an illegal move")
			winner = player.Opponent()
			break
		}

		last = move
		player = player.Opponent()
		gameMetric.TotalMoves++
	}

	if winner == searcher.NoWinner {
		log.Info().Msgf("stopped after %d turns without a winner", e.maxTurns)
		winner = searcher.Tie
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Winner = winner.String()
	return winner, gameMetric, moveMetrics
}
