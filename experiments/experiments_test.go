package experiments

import (
	"checkers/experiments/metrics"
	"checkers/meta"
	"checkers/searcher"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func smallMatch(t *testing.T) meta.Config {
	config := meta.DefaultConfig()
	config.Board = meta.BoardConfig{Cols: 6, Rows: 6, StartRows: 2}
	config.Search.TimeLimit = 20 * time.Millisecond
	config.Search.MaxIterations = 20
	config.Search.Seed = 1
	config.Match.Games = 4
	config.Match.Parallel = 2
	config.Match.OutputDir = t.TempDir()
	return config
}

func TestRunMatch(t *testing.T) {
	t.Run("playing a match and storing records", func(t *testing.T) {
		config := smallMatch(t)

		result, err := RunMatch(context.Background(), config, nil)

		require.NoError(t, err)
		require.Equal(t, 4, result.Games)
		require.Equal(t, result.Games, result.Wins+result.Losses, "Every game is a win or a loss")
		require.LessOrEqual(t, result.Ties, result.Wins, "Ties count as wins")
		require.InDelta(t, float64(result.Wins)/4, result.WinRate(), 1e-9)
		for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			require.FileExists(t, filepath.Join(result.Dir, file))
		}
		require.Equal(t, config.Match.OutputDir, filepath.Dir(filepath.Dir(result.Dir)))
	})

	t.Run("alternating the opening side", func(t *testing.T) {
		config := smallMatch(t)

		first := runGame(config, true, 1, nil)
		second := runGame(config, false, 4, nil)

		require.Equal(t, searcher.Black, first.mctsPlayer)
		require.Equal(t, searcher.White, second.mctsPlayer)
		require.Empty(t, first.moveMetrics[0].Fallback, "Search agent should open the first game")
		require.NotEmpty(t, second.moveMetrics[0].Fallback, "Random player should open the second game")
	})

	t.Run("skipping records without an output directory", func(t *testing.T) {
		config := smallMatch(t)
		config.Match.Games = 1
		config.Match.OutputDir = ""

		result, err := RunMatch(context.Background(), config, nil)

		require.NoError(t, err)
		require.Empty(t, result.Dir)
	})

	t.Run("feeding prometheus metrics", func(t *testing.T) {
		config := smallMatch(t)
		config.Match.Games = 2
		registry := prometheus.NewRegistry()

		_, err := RunMatch(context.Background(), config, metrics.NewPrometheus(registry))
		require.NoError(t, err)

		families, err := registry.Gather()
		require.NoError(t, err)
		names := []string{}
		for _, family := range families {
			names = append(names, family.GetName())
		}
		require.Contains(t, names, "checkers_search_episodes_total")
	})

	t.Run("stopping on cancellation", func(t *testing.T) {
		config := smallMatch(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := RunMatch(ctx, config, nil)

		require.ErrorIs(t, err, context.Canceled)
		entries, _ := os.ReadDir(config.Match.OutputDir)
		require.Empty(t, entries, "Nothing should be stored for an interrupted match")
	})
}
