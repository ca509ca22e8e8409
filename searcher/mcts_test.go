package searcher

import (
	"checkers/experiments/metrics"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// tickingClock advances by step on every reading.
func tickingClock(step time.Duration) Clock {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func walk(node *Node, visit func(*Node)) {
	visit(node)
	for _, child := range node.children {
		walk(child, visit)
	}
}

func TestNextIterationCap(t *testing.T) {
	t.Run("shrinking an unused cap", func(t *testing.T) {
		require.Equal(t, 900, nextIterationCap(1000, 50), "Should shrink by 10%")
	})

	t.Run("keeping headroom above the used iterations", func(t *testing.T) {
		require.Equal(t, 1100, nextIterationCap(1000, 1000), "Should leave 100 iterations of headroom")
	})
}

func TestSearch(t *testing.T) {
	t.Run("running a seeded search to the iteration cap", func(t *testing.T) {
		mcts := NewMCTS(
			WithSeed(42),
			WithMaxIterations(50),
			WithDuration(time.Hour),
			WithCollector(metrics.NewCollector()),
		)
		mcts.Reset(newMockBoard(3, 6, White), Black)

		metric := mcts.Search(Black)
		root := mcts.Root()

		require.Equal(t, 50, root.Visits(), "Every iteration should visit the root")
		require.Equal(t, 50, metric.Episodes)
		require.Equal(t, 50, metric.FullPlayouts+metric.CutoffPlayouts+metric.TerminalLeaves,
			"Every iteration should either simulate or hit a finished game")
		require.Equal(t, 50, metric.MaxIterations)
		require.True(t, metric.IsTreeReset)
		require.Equal(t, 150, mcts.MaxIterations(), "Cap should adapt after the search")

		sum := 0
		for _, child := range root.Children() {
			sum += child.Visits()
		}
		require.Equal(t, root.Visits(), sum, "Root is expanded before its first visit")

		walk(root, func(node *Node) {
			require.GreaterOrEqual(t, node.Visits(), node.Wins(), "Wins should never exceed visits")
			require.GreaterOrEqual(t, node.Wins(), 0)
			if node == root || node.IsLeaf() {
				return
			}
			sum := 0
			for _, child := range node.Children() {
				sum += child.Visits()
			}
			require.Equal(t, node.Visits(), sum+1, "Nodes are simulated once before they are expanded")
		})
	})

	t.Run("repeating a seeded search", func(t *testing.T) {
		visits := func() []int {
			mcts := NewMCTS(WithSeed(7), WithMaxIterations(30), WithDuration(time.Hour))
			mcts.Reset(newMockBoard(4, 8, Black), White)
			mcts.Search(White)
			var got []int
			walk(mcts.Root(), func(node *Node) { got = append(got, node.Visits(), node.Wins()) })
			return got
		}

		require.Equal(t, visits(), visits(), "Same seed should build the same tree")
	})

	t.Run("stopping once the time limit has elapsed", func(t *testing.T) {
		mcts := NewMCTS(
			WithSeed(1),
			WithMaxIterations(1000),
			WithDuration(3*time.Second),
			WithClock(tickingClock(time.Second)),
		)
		mcts.Reset(newMockBoard(2, 10, Black), Black)

		mcts.Search(Black)

		require.Equal(t, 2, mcts.Root().Visits(), "Budget is checked between iterations")
		require.Equal(t, 900, mcts.MaxIterations())
	})

	t.Run("crediting ties to the searching side", func(t *testing.T) {
		mcts := NewMCTS(
			WithSeed(1),
			WithMaxIterations(10),
			WithDuration(time.Hour),
			WithCollector(metrics.NewCollector()),
		)
		mcts.Reset(newMockBoard(2, 1, Tie), Black)

		metric := mcts.Search(White)

		require.Equal(t, 10, metric.TerminalLeaves, "Every leaf is a finished game")
		require.Zero(t, metric.FullPlayouts)
		for _, child := range mcts.Root().Children() {
			require.Equal(t, child.Visits(), child.Wins(), "White to move should be credited with the draw")
		}
		require.Zero(t, mcts.Root().Wins())
	})

	t.Run("searching without a tree", func(t *testing.T) {
		mcts := NewMCTS(WithMaxIterations(10))

		require.Panics(t, func() { mcts.Search(Black) }, "Should require Reset first")
	})
}

func TestFavor(t *testing.T) {
	require.Equal(t, Black, favor(Tie, Black))
	require.Equal(t, White, favor(White, Black))
	require.Equal(t, Black, favor(Black, White))
}

func TestTreeReuse(t *testing.T) {
	newSearched := func() *MCTS {
		mcts := NewMCTS(WithSeed(3), WithMaxIterations(40), WithDuration(time.Hour))
		mcts.Reset(newMockBoard(3, 12, Black), Black)
		mcts.Search(Black)
		return mcts
	}

	t.Run("committing to the best child", func(t *testing.T) {
		mcts := newSearched()
		oldRoot := mcts.Root()
		best := oldRoot.BestChild()

		move, err := mcts.Commit()

		require.NoError(t, err)
		require.Equal(t, best.Move(), move)
		require.Same(t, best, mcts.Root(), "Best child should become the root")
		require.Nil(t, mcts.Root().Parent(), "New root should not point to the old tree")
		walk(mcts.Root(), func(node *Node) {
			require.NotSame(t, oldRoot, node, "Old root should be unreachable")
			if node != mcts.Root() {
				require.NotNil(t, node.Parent())
			}
		})
	})

	t.Run("advancing to the opponent's move", func(t *testing.T) {
		mcts := newSearched()
		oldRoot := mcts.Root()
		target := oldRoot.Children()[2]
		size := target.size()

		ok := mcts.Advance(mockMove{id: "m2"})

		require.True(t, ok)
		require.Same(t, target, mcts.Root(), "Matching child should become the root")
		require.Nil(t, mcts.Root().Parent())
		require.Equal(t, size, mcts.Root().size(), "Subtree statistics should be kept")
		require.False(t, mcts.Root().IsLeaf(), "New root should be expanded")
	})

	t.Run("advancing to an unknown move", func(t *testing.T) {
		mcts := newSearched()
		oldRoot := mcts.Root()

		require.False(t, mcts.Advance(mockMove{id: "m9"}), "Unknown move should not match")
		require.Same(t, oldRoot, mcts.Root(), "Tree should be untouched")
	})

	t.Run("advancing without a tree", func(t *testing.T) {
		mcts := NewMCTS()

		require.False(t, mcts.Advance(mockMove{id: "m0"}))
		require.Nil(t, mcts.Root())
	})

	t.Run("committing without legal moves", func(t *testing.T) {
		mcts := NewMCTS(WithMaxIterations(5))
		_, err := mcts.Commit()
		require.ErrorIs(t, err, ErrNoLegalMoves, "No tree should mean no move")

		mcts.Reset(newMockBoard(0, 10, Black), Black)
		_, err = mcts.Commit()
		require.ErrorIs(t, err, ErrNoLegalMoves, "Root without children should mean no move")
	})
}
