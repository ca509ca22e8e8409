package gamemaster

import (
	"bytes"
	"checkers/communication"
	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/player"
	"checkers/searcher"
	"checkers/searcher/agent"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type mockAgent struct {
	seen  []searcher.Move
	reply searcher.Move
	err   error
}

func (m *mockAgent) FindMove(opponent searcher.Move) (searcher.Move, metrics.SearchMetric, error) {
	m.seen = append(m.seen, opponent)
	if m.err != nil {
		return nil, metrics.SearchMetric{}, m.err
	}
	return m.reply, metrics.SearchMetric{}, nil
}

func TestRunGame(t *testing.T) {
	reply := game.NewMove(game.Position{Row: 2, Col: 1}, game.Position{Row: 3, Col: 0})

	t.Run("answering each line until the end token", func(t *testing.T) {
		var out bytes.Buffer
		comm := communication.NewStreamCommunicator(strings.NewReader("start\n(5,0)-(4,1)\nend\n(5,2)-(4,3)\n"), &out)
		a := &mockAgent{reply: reply}

		moves, err := NewGameMaster(comm, a).RunGame()

		require.NoError(t, err)
		require.Equal(t, 2, moves)
		require.Equal(t, "(2,1)-(3,0)\n(2,1)-(3,0)\n", out.String())
		require.Len(t, a.seen, 2, "Lines after the end token should be ignored")
		require.Nil(t, a.seen[0], "Start token should let the agent open")
		require.Equal(t, "(5,0)-(4,1)", a.seen[1].String())
	})

	t.Run("accepting -1 as the start token and stopping at end of input", func(t *testing.T) {
		var out bytes.Buffer
		comm := communication.NewStreamCommunicator(strings.NewReader("-1\n"), &out)
		a := &mockAgent{reply: reply}

		moves, err := NewGameMaster(comm, a).RunGame()

		require.NoError(t, err)
		require.Equal(t, 1, moves)
		require.Nil(t, a.seen[0])
	})

	t.Run("sending -1 when the agent cannot move", func(t *testing.T) {
		var out bytes.Buffer
		comm := communication.NewStreamCommunicator(strings.NewReader("(5,0)-(4,1)\n"), &out)
		a := &mockAgent{err: searcher.ErrNoLegalMoves}

		moves, err := NewGameMaster(comm, a).RunGame()

		require.NoError(t, err)
		require.Zero(t, moves)
		require.Equal(t, NoMoveToken+"\n", out.String())
	})

	t.Run("failing on malformed moves", func(t *testing.T) {
		comm := communication.NewStreamCommunicator(strings.NewReader("e2e4\n"), &bytes.Buffer{})

		_, err := NewGameMaster(comm, &mockAgent{reply: reply}).RunGame()

		require.Error(t, err)
	})

	t.Run("failing on agent errors", func(t *testing.T) {
		boom := errors.New("boom")
		comm := communication.NewStreamCommunicator(strings.NewReader("start\n"), &bytes.Buffer{})

		_, err := NewGameMaster(comm, &mockAgent{err: boom}).RunGame()

		require.ErrorIs(t, err, boom)
	})

	t.Run("playing a session against a driver", func(t *testing.T) {
		driverEnd, agentEnd := communication.NewPipe(1)
		board := game.NewBoard(8, 8, 3)
		mcts := searcher.NewMCTS(searcher.WithSeed(2), searcher.WithMaxIterations(50), searcher.WithDuration(time.Hour))
		a := agent.NewMCTSAgent(board, mcts, searcher.NewTimekeeper(time.Hour), rand.New(rand.NewSource(2)))
		opponent := player.NewPlayer(board, rand.New(rand.NewSource(3)))

		done := make(chan error, 1)
		go func() {
			_, err := NewGameMaster(agentEnd, a).RunGame()
			done <- err
		}()

		require.NoError(t, driverEnd.SendMove(StartAlias))
		for i := 0; i < 4; i++ {
			line, err := driverEnd.ReceiveMove()
			require.NoError(t, err)
			move, err := game.ParseMove(line)
			require.NoError(t, err, "Agent should answer with a move")

			reply, _, err := opponent.FindMove(move)
			require.NoError(t, err, "Agent move should be legal for the driver")
			require.NoError(t, driverEnd.SendMove(reply.String()))
		}
		_, err := driverEnd.ReceiveMove()
		require.NoError(t, err)
		require.NoError(t, driverEnd.SendMove(EndToken))

		require.NoError(t, <-done)
	})
}
