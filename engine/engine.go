package engine

import (
	"checkers/experiments/metrics"
	"checkers/searcher"
)

type Engine interface {
	// Run plays a game till there's a winner or the turn limit is reached,
	// which counts as a tie
	Run() (winner searcher.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
