package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TurnSnapshot captures the card distribution after one resolved turn.
type TurnSnapshot struct {
	Turn      int
	P1Hand    int
	P1Discard int
	P2Hand    int
	P2Discard int
	Winnings  int
	P1Total   int
}

// Replay records sequential turn snapshots of a game for later playback.
// Attach one via Config.Replay and the engine records a snapshot per
// resolved turn.
type Replay struct {
	GameID  string
	States  []*TurnSnapshot
	current int
	mu      sync.RWMutex
}

// NewReplay creates an empty replay for the given game.
func NewReplay(gameID string) *Replay {
	return &Replay{
		GameID: gameID,
		States: make([]*TurnSnapshot, 0),
	}
}

// Record appends a snapshot to the replay.
func (r *Replay) Record(snapshot *TurnSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
}

// Rewind resets playback to the beginning.
func (r *Replay) Rewind() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = 0
}

// Next returns the snapshot at the playback position and advances it, or
// nil at the end.
func (r *Replay) Next() *TurnSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current < len(r.States) {
		state := r.States[r.current]
		r.current++
		return state
	}
	return nil
}

// Previous steps the playback position back and returns that snapshot, or
// nil at the beginning.
func (r *Replay) Previous() *TurnSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current > 0 {
		r.current--
		return r.States[r.current]
	}
	return nil
}

// Advance moves the playback position forward by count snapshots,
// clamping to the recorded range, and returns the snapshot there.
func (r *Replay) Advance(count int) *TurnSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.current + count
	if next >= len(r.States) {
		next = len(r.States) - 1
	}
	if next < 0 {
		next = 0
	}

	r.current = next
	if r.current < len(r.States) {
		return r.States[r.current]
	}
	return nil
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// StateAt returns the snapshot at a specific index, or nil out of range.
func (r *Replay) StateAt(index int) *TurnSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index]
	}
	return nil
}

// replayMetadata describes a saved replay file.
type replayMetadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	StateCount int
}

// SaveToFile writes the replay to <directory>/<gameID>.replay as a gzipped
// gob stream.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:     r.GameID,
		Timestamp:  time.Now(),
		Version:    1,
		StateCount: len(r.States),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	for i, state := range r.States {
		if err := encoder.Encode(state); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}

	return nil
}

// LoadReplayFromFile reads a replay previously written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != 1 {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID)
	for i := 0; i < metadata.StateCount; i++ {
		var state TurnSnapshot
		if err := decoder.Decode(&state); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		replay.States = append(replay.States, &state)
	}

	return replay, nil
}
