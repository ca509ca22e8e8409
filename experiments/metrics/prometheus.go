package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus aggregates search metrics over every search of a process. It is
// safe to share between concurrently running games.
type Prometheus struct {
	episodes       prometheus.Counter
	playouts       *prometheus.CounterVec
	terminalLeaves prometheus.Counter
	treeResets     prometheus.Counter
	searches       prometheus.Counter
	duration       prometheus.Histogram
	iterationCap   prometheus.Histogram
}

// NewPrometheus registers the search metrics on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		episodes: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkers_search_episodes_total",
			Help: "Total MCTS iterations",
		}),
		playouts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkers_search_playouts_total",
			Help: "Total rollouts by how they ended",
		}, []string{"kind"}),
		terminalLeaves: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkers_search_terminal_leaves_total",
			Help: "Iterations that selected a finished game",
		}),
		treeResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkers_search_tree_resets_total",
			Help: "Searches that started from a fresh tree",
		}),
		searches: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkers_searches_total",
			Help: "Completed searches",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkers_search_duration_seconds",
			Help:    "Search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		iterationCap: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkers_search_iteration_cap",
			Help:    "Iteration cap in force at the start of a search",
			Buckets: []float64{100, 250, 500, 750, 1000, 2000, 5000},
		}),
	}
}

// Collector returns a collector for one search engine. It records the
// per-search metrics like NewCollector and also feeds the shared counters.
func (p *Prometheus) Collector() Collector {
	return &prometheusCollector{collector: &collector{}, sink: p}
}

type prometheusCollector struct {
	*collector
	sink *Prometheus
}

func (c *prometheusCollector) Start(maxIterations int) {
	c.collector.Start(maxIterations)
	c.sink.iterationCap.Observe(float64(maxIterations))
}

func (c *prometheusCollector) AddEpisode() {
	c.collector.AddEpisode()
	c.sink.episodes.Inc()
}

func (c *prometheusCollector) AddPlayout(cutoff bool) {
	c.collector.AddPlayout(cutoff)
	if cutoff {
		c.sink.playouts.WithLabelValues("cutoff").Inc()
	} else {
		c.sink.playouts.WithLabelValues("full").Inc()
	}
}

func (c *prometheusCollector) AddTerminal() {
	c.collector.AddTerminal()
	c.sink.terminalLeaves.Inc()
}

func (c *prometheusCollector) Complete() SearchMetric {
	metric := c.collector.Complete()
	c.sink.searches.Inc()
	c.sink.duration.Observe(metric.Duration.Seconds())
	if metric.IsTreeReset {
		c.sink.treeResets.Inc()
	}
	return metric
}
