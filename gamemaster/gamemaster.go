package gamemaster

import (
	"checkers/communication"
	"checkers/game"
	"checkers/searcher"
	"checkers/searcher/agent"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Protocol tokens. Any other line is an opponent move.
const (
	StartToken  = "-1"    // the agent makes the first move
	StartAlias  = "start" // alternative opening token
	EndToken    = "end"
	NoMoveToken = "-1"
)

// GameMaster runs a single agent against an external driver: it reads the
// opponent's moves from the communicator and answers with the agent's moves.
type GameMaster struct {
	Communicator communication.Communicator
	Agent        agent.Agent
	turns        int
}

func NewGameMaster(comm communication.Communicator, a agent.Agent) *GameMaster {
	return &GameMaster{
		Communicator: comm,
		Agent:        a,
	}
}

// RunGame serves moves until the driver ends the session or closes its end
// of the channel. It returns the number of moves the agent sent.
func (gm *GameMaster) RunGame() (int, error) {
	for {
		line, err := gm.Communicator.ReceiveMove()
		if errors.Is(err, communication.ErrClosed) || line == EndToken {
			log.Info().Msgf("session ended after %d moves", gm.turns)
			return gm.turns, nil
		}
		if err != nil {
			return gm.turns, err
		}

		done, err := gm.handleTurn(line)
		if err != nil {
			return gm.turns, err
		}
		if done {
			log.Info().Msgf("no legal move left after %d moves", gm.turns)
		}
	}
}

// handleTurn answers one opponent line. done reports that the agent had no
// legal move.
func (gm *GameMaster) handleTurn(line string) (done bool, err error) {
	var opponent searcher.Move
	if line != StartToken && line != StartAlias {
		move, err := game.ParseMove(line)
		if err != nil {
			return false, fmt.Errorf("failed to parse opponent move: %w", err)
		}
		opponent = move
	}

	move, metric, err := gm.Agent.FindMove(opponent)
	if errors.Is(err, searcher.ErrNoLegalMoves) {
		return true, gm.Communicator.SendMove(NoMoveToken)
	}
	if err != nil {
		return false, err
	}

	gm.turns++
	log.Debug().
		Int("turn", gm.turns).
		Str("move", move.String()).
		Int("episodes", metric.Episodes).
		Str("fallback", metric.Fallback).
		Msg("move chosen")
	return false, gm.Communicator.SendMove(move.String())
}
