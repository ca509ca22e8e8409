package experiments

import (
	"checkers/engine"
	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/meta"
	"checkers/player"
	"checkers/searcher"
	"checkers/searcher/agent"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

const (
	mctsAgentID   = 1
	randomAgentID = 2
)

// MatchResult summarises a match of the search agent against the random
// player. Ties count as wins for the search agent.
type MatchResult struct {
	Games    int
	Wins     int
	Losses   int
	Ties     int
	Duration time.Duration
	Dir      string // directory of the CSV records, "" when none were written
}

func (r MatchResult) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

type gameResult struct {
	mctsPlayer  searcher.Player
	winner      searcher.Player
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
}

// RunMatch plays config.Match.Games games between the search agent and the
// random player, alternating who opens. Up to config.Match.Parallel games run
// at once; each game owns its agents, boards and random sources. prom may be
// nil.
func RunMatch(ctx context.Context, config meta.Config, prom *metrics.Prometheus) (MatchResult, error) {
	start := time.Now()
	seed := config.Search.Seed
	if seed == 0 {
		seed = uint64(start.UnixNano())
	}

	log.Info().Msgf("starting match of %d games on a %dx%d board...", config.Match.Games, config.Board.Rows, config.Board.Cols)

	results := make([]gameResult, config.Match.Games)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(config.Match.Parallel)
	for i := range results {
		i := i // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			log.Info().Msgf("starting game %d of %d...", i+1, config.Match.Games)
			results[i] = runGame(config, i%2 == 0, seed+uint64(3*i), prom)
			log.Info().Msgf("completed game %d with winner: %s (search agent played %s)",
				i+1, results[i].winner, results[i].mctsPlayer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MatchResult{}, fmt.Errorf("match interrupted: %w", err)
	}

	result := MatchResult{Games: len(results)}
	for _, r := range results {
		switch r.winner {
		case searcher.Tie:
			result.Ties++
			result.Wins++
		case r.mctsPlayer:
			result.Wins++
		default:
			result.Losses++
		}
	}
	result.Duration = time.Since(start)

	log.Info().Msgf("completed match: win rate %.2f (%d wins, %d losses, %d ties) in %s",
		result.WinRate(), result.Wins, result.Losses, result.Ties, result.Duration.Round(time.Millisecond))

	if config.Match.OutputDir != "" {
		dir, err := store(config, results)
		if err != nil {
			return result, err
		}
		result.Dir = dir
	}
	return result, nil
}

// runGame plays one game. mctsFirst makes the search agent open as Black.
func runGame(config meta.Config, mctsFirst bool, seed uint64, prom *metrics.Prometheus) gameResult {
	board := game.NewBoard(config.Board.Cols, config.Board.Rows, config.Board.StartRows)

	mctsAgent := agent.NewMCTSAgent(
		board,
		createMCTS(config.Search, seed, prom),
		searcher.NewTimekeeper(config.Search.TotalTimeLimit),
		rand.New(rand.NewSource(seed+1)),
	)
	randomPlayer := player.NewPlayer(board, rand.New(rand.NewSource(seed+2)))

	var black, white agent.Agent = mctsAgent, randomPlayer
	mctsPlayer := searcher.Black
	if !mctsFirst {
		black, white = randomPlayer, mctsAgent
		mctsPlayer = searcher.White
	}

	winner, gameMetric, moveMetrics := engine.LocalEngine(board, black, white, meta.MaxTurns).Run()
	return gameResult{
		mctsPlayer:  mctsPlayer,
		winner:      winner,
		gameMetric:  gameMetric,
		moveMetrics: moveMetrics,
	}
}

func createMCTS(config meta.SearchConfig, seed uint64, prom *metrics.Prometheus) *searcher.MCTS {
	options := []searcher.Option{
		searcher.WithSeed(seed),
		searcher.WithExploration(config.Exploration),
	}

	if config.MaxIterations > 0 {
		options = append(options, searcher.WithMaxIterations(config.MaxIterations))
	}
	if config.TimeLimit > 0 {
		options = append(options, searcher.WithDuration(config.TimeLimit))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	if prom != nil {
		options = append(options, searcher.WithCollector(prom.Collector()))
	} else {
		options = append(options, searcher.WithMetrics())
	}
	return searcher.NewMCTS(options...)
}

func store(config meta.Config, results []gameResult) (string, error) {
	writer, err := metrics.NewWriter(config.Match.OutputDir, "match")
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	configs := []metrics.AgentConfig{
		{
			ID:             mctsAgentID,
			Kind:           "mcts",
			Duration:       config.Search.TimeLimit,
			MaxIterations:  config.Search.MaxIterations,
			Exploration:    config.Search.Exploration,
			Cutoff:         config.Search.Cutoff,
			TotalTimeLimit: config.Search.TotalTimeLimit,
		},
		{ID: randomAgentID, Kind: "random"},
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}

	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	for i, r := range results {
		agent1, agent2 := mctsAgentID, randomAgentID
		if r.mctsPlayer == searcher.White {
			agent1, agent2 = randomAgentID, mctsAgentID
		}
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         i + 1,
			Agent1:     agent1,
			Agent2:     agent2,
			GameMetric: r.gameMetric,
		})
		for _, mm := range r.moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{
				Game:       i + 1,
				MoveMetric: mm,
			})
		}
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored match records in %s", writer.Dir())
	return writer.Dir(), nil
}
