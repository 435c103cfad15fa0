// Package config loads the simulator configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/cardwars/warsim/internal/game"
)

// Config is the top-level configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Replay     ReplayConfig     `mapstructure:"replay"`
}

// SimulationConfig controls the games to run.
type SimulationConfig struct {
	// MaxHands caps the number of turns per game.
	MaxHands int `mapstructure:"max_hands"`
	// RecycleMode is one of fifo, filo, or shuffled.
	RecycleMode string `mapstructure:"recycle_mode"`
	// RandomizeWinnings randomizes winnings order before discard.
	RandomizeWinnings bool `mapstructure:"randomize_winnings"`
	// Games is the batch size.
	Games int `mapstructure:"games"`
	// Seed is the base random seed; 0 lets the CLI derive one from time.
	Seed int64 `mapstructure:"seed"`
	// Parallelism bounds concurrent games; 0 means GOMAXPROCS.
	Parallelism int `mapstructure:"parallelism"`
}

// Mode resolves the configured recycle mode name.
func (c SimulationConfig) Mode() (game.RecycleMode, error) {
	return game.ParseRecycleMode(c.RecycleMode)
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `mapstructure:"level"`
	// Format is json or console.
	Format string `mapstructure:"format"`
}

// DatabaseConfig controls the optional results sink.
type DatabaseConfig struct {
	// DSN is a Postgres connection string; empty disables recording.
	DSN string `mapstructure:"dsn"`
}

// ReplayConfig controls replay persistence.
type ReplayConfig struct {
	// Dir is where replay files are written; empty disables saving.
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from the given path. A missing or empty path
// yields defaults; environment variables with the WARSIM_ prefix override
// file values (e.g. WARSIM_SIMULATION_MAX_HANDS).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("simulation.max_hands", 10000)
	v.SetDefault("simulation.recycle_mode", "fifo")
	v.SetDefault("simulation.randomize_winnings", false)
	v.SetDefault("simulation.games", 1)
	v.SetDefault("simulation.seed", int64(0))
	v.SetDefault("simulation.parallelism", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.dsn", "")
	v.SetDefault("replay.dir", "")

	v.SetEnvPrefix("WARSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.Simulation.Mode(); err != nil {
		return err
	}
	if c.Simulation.MaxHands < 0 {
		return game.ErrInvalidMaxHands
	}
	if c.Simulation.Games <= 0 {
		return fmt.Errorf("simulation.games must be positive, got %d", c.Simulation.Games)
	}
	return nil
}
