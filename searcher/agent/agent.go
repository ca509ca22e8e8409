package agent

import (
	"checkers/experiments/metrics"
	"checkers/searcher"
)

// Fallback reasons reported in metrics.SearchMetric.Fallback.
const (
	FallbackTimeBudget    = "time-budget"    // total thinking time used up
	FallbackUnvisitedRoot = "unvisited-root" // no iteration completed in the move budget
)

type Agent interface {
	// FindMove applies the opponent's last move, nil when the agent opens the
	// game, and returns the agent's reply with the metrics of the search that
	// produced it. searcher.ErrNoLegalMoves is returned with a nil move when
	// the agent cannot move.
	FindMove(opponent searcher.Move) (searcher.Move, metrics.SearchMetric, error)
}
