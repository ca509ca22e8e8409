package meta

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the full agent configuration. It is loaded from YAML; keys that
// are absent keep their defaults.
type Config struct {
	Board  BoardConfig  `yaml:"board"`
	Search SearchConfig `yaml:"search"`
	Match  MatchConfig  `yaml:"match"`
	Log    LogConfig    `yaml:"log"`
}

type BoardConfig struct {
	Cols      int `yaml:"cols"`
	Rows      int `yaml:"rows"`
	StartRows int `yaml:"start_rows"`
}

type SearchConfig struct {
	TimeLimit      time.Duration `yaml:"time_limit"`
	TotalTimeLimit time.Duration `yaml:"total_time_limit"`
	MaxIterations  int           `yaml:"max_iterations"`
	Exploration    float64       `yaml:"exploration"`
	Cutoff         int           `yaml:"cutoff"`
	Seed           uint64        `yaml:"seed"` // 0 seeds from the clock
}

type MatchConfig struct {
	Games       int    `yaml:"games"`
	Parallel    int    `yaml:"parallel"`
	OutputDir   string `yaml:"output_dir"`
	MetricsAddr string `yaml:"metrics_addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Cols:      Cols,
			Rows:      Rows,
			StartRows: StartRows,
		},
		Search: SearchConfig{
			TimeLimit:      TimeLimit,
			TotalTimeLimit: TotalTimeLimit,
			MaxIterations:  MaxIterations,
			Exploration:    Exploration,
			Cutoff:         Cutoff,
		},
		Match: MatchConfig{
			Games:     NumGames,
			Parallel:  1,
			OutputDir: "experiments",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c Config) Validate() error {
	b := c.Board
	if b.Cols < 2 || b.Rows < 2 {
		return fmt.Errorf("%w: board must be at least 2x2, got %dx%d", ErrInvalidConfig, b.Cols, b.Rows)
	}
	if b.StartRows < 1 || 2*b.StartRows >= b.Rows {
		return fmt.Errorf("%w: %d start rows do not fit %d rows", ErrInvalidConfig, b.StartRows, b.Rows)
	}

	s := c.Search
	if s.TimeLimit <= 0 && s.MaxIterations <= 0 {
		return fmt.Errorf("%w: search needs a time limit or an iteration cap", ErrInvalidConfig)
	}
	if s.Exploration < 0 {
		return fmt.Errorf("%w: negative exploration constant %v", ErrInvalidConfig, s.Exploration)
	}
	if s.Cutoff <= 0 {
		return fmt.Errorf("%w: rollout cutoff must be positive, got %d", ErrInvalidConfig, s.Cutoff)
	}

	if c.Match.Games <= 0 || c.Match.Parallel <= 0 {
		return fmt.Errorf("%w: match needs positive games and parallelism", ErrInvalidConfig)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
