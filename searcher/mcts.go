package searcher

import (
	"checkers/experiments/metrics"
	"checkers/meta"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type MCTS struct {
	duration      time.Duration
	maxIterations int
	exploration   float64
	cutoff        int
	evaluate      Evaluate
	rand          *rand.Rand
	now           Clock
	root          *Node
	metrics       metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithMaxIterations sets the initial iteration cap. The cap adapts after
// every search.
func WithMaxIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.maxIterations = iterations
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithCutoff(plies int) Option {
	return func(m *MCTS) {
		if plies > 0 {
			m.cutoff = plies
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithRand(r *rand.Rand) Option {
	return func(m *MCTS) {
		if r != nil {
			m.rand = r
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rand = rand.New(rand.NewSource(seed))
	}
}

func WithClock(now Clock) Option {
	return func(m *MCTS) {
		if now != nil {
			m.now = now
		}
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		duration:      meta.TimeLimit,
		maxIterations: meta.MaxIterations,
		exploration:   Exploration,
		cutoff:        Cutoff,
		evaluate:      EvaluateMaterial,
		now:           time.Now,
		metrics:       metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rand == nil {
		m.rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if m.maxIterations <= 0 && m.duration <= 0 {
		panic("Must specify search iterations or duration")
	}
	return m
}

func (m *MCTS) Root() *Node        { return m.root }
func (m *MCTS) MaxIterations() int { return m.maxIterations }

// Reset discards the current tree and starts a new one at board with player
// to move. The new root is expanded once.
func (m *MCTS) Reset(board Board, player Player) {
	m.root = NewRoot(board, player)
	m.root.Expand()
	m.metrics.SetTreeReset(true)
}

// Advance moves the root to the child reached by move. It reports false when
// there is no tree yet or no child matches, leaving the tree untouched.
func (m *MCTS) Advance(move Move) bool {
	if m.root == nil {
		return false
	}
	child := m.root.child(move)
	if child == nil {
		log.Warn().Str("move", move.String()).Int("children", len(m.root.children)).
			Msg("move does not match any child of the root")
		return false
	}
	child.detach()
	if child.IsLeaf() {
		// Roots always start expanded, as after Reset
		child.Expand()
	}
	m.root = child
	m.metrics.SetTreeReset(false)
	return true
}

// Drop forgets the tree.
func (m *MCTS) Drop() {
	m.root = nil
}

// Search runs iterations from the root until the time limit or the iteration
// cap is reached, then adapts the cap for the next search. self is the side
// the search plays for; drawn outcomes are credited to it.
func (m *MCTS) Search(self Player) metrics.SearchMetric {
	if m.root == nil {
		panic("search requires a root, call Reset first")
	}

	m.metrics.Start(m.maxIterations)
	start := m.now()
	iterations := 0
	// The budget is only checked between iterations
	for m.now().Sub(start) < m.duration && iterations < m.maxIterations {
		m.iterate(self)
		m.metrics.AddEpisode()
		iterations++
	}
	elapsed := m.now().Sub(start)

	previous := m.maxIterations
	m.maxIterations = nextIterationCap(previous, iterations)

	log.Debug().
		Int("iterations", iterations).
		Int("cap", previous).
		Int("nextCap", m.maxIterations).
		Int("rootVisits", m.root.visits).
		Dur("elapsed", elapsed).
		Msg("search complete")

	return m.metrics.Complete()
}

// Commit makes the best child of the root the new root and returns the move
// leading to it.
func (m *MCTS) Commit() (Move, error) {
	if m.root == nil {
		return nil, ErrNoLegalMoves
	}
	best := m.root.BestChild()
	if best == nil {
		return nil, ErrNoLegalMoves
	}
	best.detach()
	m.root = best
	return best.move, nil
}

// iterate performs one selection, expansion, simulation and backpropagation
// pass.
func (m *MCTS) iterate(self Player) {
	leaf := selects(m.root, m.exploration)

	if result := leaf.board.Status(leaf.player); result != NoWinner {
		// Finished game: no expansion or simulation
		m.metrics.AddTerminal()
		leaf.Backpropagate(favor(result, self))
		return
	}

	// Only nodes visited before are expanded
	if leaf.visits > 0 && leaf.Expand() > 0 {
		leaf = leaf.children[0]
	}

	result := leaf.Simulate(m.rand, m.cutoff, m.evaluate)
	m.metrics.AddPlayout(result.Cutoff)
	leaf.Backpropagate(favor(result.Winner, self))
}

func selects(root *Node, c float64) *Node {
	node := root
	for len(node.children) > 0 {
		node = node.selects(c)
	}
	return node
}

// favor credits a drawn outcome to self.
func favor(winner Player, self Player) Player {
	if winner == Tie {
		return self
	}
	return winner
}

// nextIterationCap shrinks the cap by 10% while leaving headroom of 100
// iterations above what the last search used.
func nextIterationCap(current int, used int) int {
	return max(current*9/10, used+100)
}
