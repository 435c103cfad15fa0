package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReplay(t *testing.T) {
	replay := NewReplay("game-123")
	assert.Equal(t, "game-123", replay.GameID)
	assert.Equal(t, 0, replay.Size())
}

func TestReplayRecord(t *testing.T) {
	replay := NewReplay("game-123")

	snapshot := &TurnSnapshot{Turn: 1, P1Hand: 25, P2Hand: 25, P1Total: 27}
	replay.Record(snapshot)

	assert.Equal(t, 1, replay.Size())
	assert.Equal(t, snapshot, replay.StateAt(0))
}

func TestReplayNavigation(t *testing.T) {
	replay := NewReplay("game-123")
	for i := 0; i < 5; i++ {
		replay.Record(&TurnSnapshot{Turn: i + 1})
	}

	replay.Rewind()

	state := replay.Next()
	require.NotNil(t, state)
	assert.Equal(t, 1, state.Turn)

	state = replay.Next()
	require.NotNil(t, state)
	assert.Equal(t, 2, state.Turn)

	// Previous steps back to the snapshot just returned, then before it.
	state = replay.Previous()
	require.NotNil(t, state)
	assert.Equal(t, 2, state.Turn)

	state = replay.Previous()
	require.NotNil(t, state)
	assert.Equal(t, 1, state.Turn)

	assert.Nil(t, replay.Previous())

	for i := 0; i < 10; i++ {
		replay.Next()
	}
	assert.Nil(t, replay.Next())
}

func TestReplayAdvanceClamps(t *testing.T) {
	replay := NewReplay("game-123")
	for i := 0; i < 10; i++ {
		replay.Record(&TurnSnapshot{Turn: i + 1})
	}
	replay.Rewind()

	state := replay.Advance(3)
	require.NotNil(t, state)
	assert.Equal(t, 4, state.Turn)

	state = replay.Advance(100)
	require.NotNil(t, state)
	assert.Equal(t, 10, state.Turn)

	state = replay.Advance(-100)
	require.NotNil(t, state)
	assert.Equal(t, 1, state.Turn)
}

func TestReplayStateAtOutOfRange(t *testing.T) {
	replay := NewReplay("game-123")
	replay.Record(&TurnSnapshot{Turn: 1})

	assert.Nil(t, replay.StateAt(-1))
	assert.Nil(t, replay.StateAt(1))
	assert.NotNil(t, replay.StateAt(0))
}

func TestReplaySaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	replay := NewReplay("game-save")
	for i := 0; i < 4; i++ {
		replay.Record(&TurnSnapshot{
			Turn:    i + 1,
			P1Hand:  26 - i,
			P2Hand:  26 + i,
			P1Total: 26 - i,
		})
	}

	require.NoError(t, replay.SaveToFile(dir))

	_, err := os.Stat(filepath.Join(dir, "game-save.replay"))
	require.NoError(t, err)

	loaded, err := LoadReplayFromFile(dir, "game-save")
	require.NoError(t, err)

	assert.Equal(t, "game-save", loaded.GameID)
	require.Equal(t, replay.Size(), loaded.Size())
	for i := 0; i < replay.Size(); i++ {
		assert.Equal(t, replay.StateAt(i), loaded.StateAt(i))
	}
}

func TestLoadReplayMissingFile(t *testing.T) {
	_, err := LoadReplayFromFile(t.TempDir(), "nope")
	assert.Error(t, err)
}

func TestEngineRecordsSnapshots(t *testing.T) {
	replay := NewReplay("engine-game")
	engine := newTestEngine(t, Config{
		MaxHands: 50,
		Seed:     21,
		Replay:   replay,
	})

	summary := engine.Play()

	require.Equal(t, summary.HandsPlayed, replay.Size())
	for i := 0; i < replay.Size(); i++ {
		state := replay.StateAt(i)
		assert.Equal(t, i+1, state.Turn)
		assert.Equal(t, 52, state.P1Hand+state.P1Discard+state.P2Hand+state.P2Discard+state.Winnings)
		assert.Equal(t, summary.Tracks[i+1], state.P1Total)
	}
}
