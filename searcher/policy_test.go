package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(Exploration, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(Exploration, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + 1.5*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute w/n + c*sqrt(ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(Exploration, 100)

		require.Panics(t, func() {
			policy.evaluate(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		// More parent visits -> higher exploration
		policy1 := newUCT(Exploration, 100)
		policy2 := newUCT(Exploration, 1000)
		rewards := 5.0
		visits := 10.0

		score1 := policy1.evaluate(rewards, visits)
		score2 := policy2.evaluate(rewards, visits)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		// More child visits -> lower exploration
		policy := newUCT(Exploration, 100)
		rewards := 5.0

		score1 := policy.evaluate(rewards, 10)
		score2 := policy.evaluate(rewards, 20)

		require.Greater(t, score1, score2,
			"More child visits should decrease exploration term")
	})

	t.Run("exploration term strictly decreases from one to four child visits", func(t *testing.T) {
		policy := newUCT(Exploration, 10)

		previous := policy.exploration(1)
		for n := 2.0; n <= 4; n++ {
			current := policy.exploration(n)
			require.Less(t, current, previous, "Exploration should shrink as the child is visited")
			previous = current
		}
	})

	t.Run("exploration vanishes with a single parent visit", func(t *testing.T) {
		policy := newUCT(Exploration, 1)

		require.Equal(t, 0.5, policy.evaluate(1, 2), "ln(1) leaves only the win rate")
	})

	t.Run("exploitation term increases with rewards", func(t *testing.T) {
		policy := newUCT(Exploration, 100)
		visits := 10.0

		score1 := policy.evaluate(5.0, visits)
		score2 := policy.evaluate(10.0, visits)

		require.Greater(t, score2, score1,
			"More rewards should increase exploitation term")
	})
}
