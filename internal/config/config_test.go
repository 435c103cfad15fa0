package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwars/warsim/internal/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Simulation.MaxHands)
	assert.Equal(t, "fifo", cfg.Simulation.RecycleMode)
	assert.False(t, cfg.Simulation.RandomizeWinnings)
	assert.Equal(t, 1, cfg.Simulation.Games)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Database.DSN)
	assert.Empty(t, cfg.Replay.Dir)

	mode, err := cfg.Simulation.Mode()
	require.NoError(t, err)
	assert.Equal(t, game.RecycleFIFO, mode)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
simulation:
  max_hands: 250
  recycle_mode: filo
  randomize_winnings: true
  games: 16
  seed: 99
  parallelism: 4
logging:
  level: debug
  format: json
database:
  dsn: postgres://localhost/warsim
replay:
  dir: /tmp/replays
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Simulation.MaxHands)
	assert.Equal(t, "filo", cfg.Simulation.RecycleMode)
	assert.True(t, cfg.Simulation.RandomizeWinnings)
	assert.Equal(t, 16, cfg.Simulation.Games)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	assert.Equal(t, 4, cfg.Simulation.Parallelism)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "postgres://localhost/warsim", cfg.Database.DSN)
	assert.Equal(t, "/tmp/replays", cfg.Replay.Dir)

	mode, err := cfg.Simulation.Mode()
	require.NoError(t, err)
	assert.Equal(t, game.RecycleFILO, mode)
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  recycle_mode: lifo\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, game.ErrInvalidRecycleMode)
}

func TestLoadRejectsZeroGames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  games: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("WARSIM_SIMULATION_MAX_HANDS", "77")
	t.Setenv("WARSIM_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 77, cfg.Simulation.MaxHands)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
