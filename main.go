package main

import (
	"checkers/communication"
	"checkers/experiments"
	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/gamemaster"
	"checkers/meta"
	"checkers/searcher"
	"checkers/searcher/agent"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var (
	configPath string
	logLevel   string
	seed       uint64

	games       int
	parallel    int
	outputDir   string
	metricsAddr string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "checkers",
		Short:         "Monte Carlo Tree Search checkers agent",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides the configuration)")
	root.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")

	play := &cobra.Command{
		Use:   "play",
		Short: "Play one game over stdin/stdout",
		Long: "Reads one opponent move per line from stdin and writes the agent's reply to stdout.\n" +
			"Send -1 or start to let the agent open, end to stop.",
		Args: cobra.NoArgs,
		RunE: runPlay,
	}

	match := &cobra.Command{
		Use:   "match",
		Short: "Play a match against the random player and report the win rate",
		Args:  cobra.NoArgs,
		RunE:  runMatch,
	}
	match.Flags().IntVar(&games, "games", 0, "number of games (overrides the configuration)")
	match.Flags().IntVar(&parallel, "parallel", 0, "games played at once (overrides the configuration)")
	match.Flags().StringVar(&outputDir, "output", "", "directory for CSV records (overrides the configuration)")
	match.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	root.AddCommand(play, match)
	return root
}

// loadConfig reads the configuration file, applies the flags and sets up
// logging.
func loadConfig() (meta.Config, error) {
	config := meta.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = meta.LoadConfig(configPath); err != nil {
			return config, err
		}
	}

	if logLevel != "" {
		config.Log.Level = logLevel
	}
	if seed != 0 {
		config.Search.Seed = seed
	}
	if games > 0 {
		config.Match.Games = games
	}
	if parallel > 0 {
		config.Match.Parallel = parallel
	}
	if outputDir != "" {
		config.Match.OutputDir = outputDir
	}
	if metricsAddr != "" {
		config.Match.MetricsAddr = metricsAddr
	}
	if err := config.Validate(); err != nil {
		return config, err
	}

	level, _ := zerolog.ParseLevel(config.Log.Level)
	zerolog.SetGlobalLevel(level)
	if config.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return config, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	s := config.Search.Seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	options := []searcher.Option{
		searcher.WithSeed(s),
		searcher.WithDuration(config.Search.TimeLimit),
		searcher.WithMaxIterations(config.Search.MaxIterations),
		searcher.WithExploration(config.Search.Exploration),
		searcher.WithCutoff(config.Search.Cutoff),
	}
	board := game.NewBoard(config.Board.Cols, config.Board.Rows, config.Board.StartRows)
	a := agent.NewMCTSAgent(
		board,
		searcher.NewMCTS(options...),
		searcher.NewTimekeeper(config.Search.TotalTimeLimit),
		rand.New(rand.NewSource(s+1)),
	)

	comm := communication.NewStreamCommunicator(cmd.InOrStdin(), cmd.OutOrStdout())
	gm := gamemaster.NewGameMaster(comm, a)
	moves, err := gm.RunGame()
	if err != nil {
		return fmt.Errorf("game aborted after %d moves: %w", moves, err)
	}
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var prom *metrics.Prometheus
	if config.Match.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		prom = metrics.NewPrometheus(registry)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: config.Match.MetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer server.Shutdown(context.Background())
		log.Info().Msgf("serving metrics on %s/metrics", config.Match.MetricsAddr)
	}

	result, err := experiments.RunMatch(ctx, config, prom)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "win rate: %.2f (%d/%d games, %d ties)\n",
		result.WinRate(), result.Wins, result.Games, result.Ties)
	return nil
}
