package searcher

import (
	"checkers/meta"

	"golang.org/x/exp/rand"
)

// Cutoff bounds the plies without a capture before a rollout is evaluated.
const Cutoff = meta.Cutoff

// Rollout is the outcome of one random playout.
type Rollout struct {
	Winner Player // Black, White or Tie
	Plies  int
	Cutoff bool // resolved by the evaluation function
}

// rollout plays uniformly random legal moves on board, which it mutates,
// starting with player to move.
func rollout(board Board, player Player, r *rand.Rand, cutoff int, evaluate Evaluate) Rollout {
	plies := 0
	quiet := 0 // plies since the last capture
	black, white := board.Counts()

	for {
		if quiet > cutoff {
			return Rollout{Winner: evaluate(board), Plies: plies, Cutoff: true}
		}

		if result := board.Status(player); result != NoWinner {
			return Rollout{Winner: result, Plies: plies}
		}

		moves := LegalMoves(board, player)
		if len(moves) == 0 {
			return Rollout{Winner: player.Opponent(), Plies: plies}
		}

		move := moves[r.Intn(len(moves))] // Random rollout policy
		if err := board.Play(move, player); err != nil {
			panic("cannot play generated move " + move.String() + ": " + err.Error())
		}
		player = player.Opponent()
		plies++

		nextBlack, nextWhite := board.Counts()
		if nextBlack == black && nextWhite == white {
			quiet++
		} else {
			quiet = 0
		}
		black, white = nextBlack, nextWhite
	}
}
