package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration       time.Duration
	Episodes       int
	MaxIterations  int // iteration cap in force for the search
	FullPlayouts   int
	CutoffPlayouts int
	TerminalLeaves int // iterations that hit a finished game instead of simulating
	IsTreeReset    bool
	Fallback       string // why search was bypassed, "" when it ran normally
}

type MoveMetric struct {
	Step   int
	Player int // Player ID
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int    // Player ID
	Winner         string // Player name or "tie"
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(maxIterations int)
	SetTreeReset(value bool)
	AddEpisode()
	AddPlayout(cutoff bool)
	AddTerminal()
	Complete() SearchMetric
}

type collector struct {
	maxIterations  int
	startTime      time.Time
	episodes       atomic.Int32
	fullPlayouts   atomic.Int32
	cutoffPlayouts atomic.Int32
	terminalLeaves atomic.Int32
	isTreeReset    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

// Start clears the counters of the previous search; the tree reset flag is
// kept because it is set before the search begins.
func (m *collector) Start(maxIterations int) {
	m.startTime = time.Now()
	m.maxIterations = maxIterations
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.cutoffPlayouts.Store(0)
	m.terminalLeaves.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddPlayout(cutoff bool) {
	if cutoff {
		m.cutoffPlayouts.Add(1)
	} else {
		m.fullPlayouts.Add(1)
	}
}

func (m *collector) AddTerminal() {
	m.terminalLeaves.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:       time.Since(m.startTime),
		Episodes:       int(m.episodes.Load()),
		MaxIterations:  m.maxIterations,
		FullPlayouts:   int(m.fullPlayouts.Load()),
		CutoffPlayouts: int(m.cutoffPlayouts.Load()),
		TerminalLeaves: int(m.terminalLeaves.Load()),
		IsTreeReset:    m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(maxIterations int) {}
func (m *dummyCollector) SetTreeReset(value bool) {}
func (m *dummyCollector) AddEpisode()             {}
func (m *dummyCollector) AddPlayout(cutoff bool)  {}
func (m *dummyCollector) AddTerminal()            {}
func (m *dummyCollector) Complete() SearchMetric  { return SearchMetric{} }
