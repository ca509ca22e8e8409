// Package meta holds the default tuning of the agent and its configuration.
package meta

import "time"

// TimeLimit is the wall-clock budget of one move decision.
const TimeLimit = 8 * time.Second

// MaxIterations is the initial iteration cap of a search.
const MaxIterations = 1000

// TotalTimeLimit is the thinking time after which the agent stops searching
// and plays random moves for the rest of the game.
const TotalTimeLimit = 270 * time.Second

// Board defaults.
const (
	Cols      = 8
	Rows      = 8
	StartRows = 3
)

// NumGames is the number of games per match.
const NumGames = 10

// MaxTurns ends a refereed game as a tie.
const MaxTurns = 300

// Exploration is the UCT exploration constant.
const Exploration = 1.5

// Cutoff is the number of consecutive plies without a capture after which a
// rollout is resolved by the evaluation function.
const Cutoff = 25
