package game

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recycleFixture(t *testing.T, mode RecycleMode) (*Engine, *player) {
	t.Helper()
	engine, err := NewEngine(Config{
		MaxHands:    10,
		RecycleMode: mode,
		Hands:       &Deal{P1: []Card{2}, P2: []Card{2}},
		Seed:        11,
	})
	require.NoError(t, err)

	p := engine.players[0]
	p.hand = nil
	p.discard = []Card{3, 5, 7}
	return engine, p
}

func TestRecycleFIFOKeepsDiscardOrder(t *testing.T) {
	engine, p := recycleFixture(t, RecycleFIFO)

	engine.recycleDiscard(p)

	assert.Equal(t, []Card{3, 5, 7}, p.hand)
	assert.Empty(t, p.discard)
}

func TestRecycleFILOReversesDiscard(t *testing.T) {
	engine, p := recycleFixture(t, RecycleFILO)

	engine.recycleDiscard(p)

	assert.Equal(t, []Card{7, 5, 3}, p.hand)
	assert.Empty(t, p.discard)
}

func TestRecycleShuffledPermutesDiscard(t *testing.T) {
	engine, p := recycleFixture(t, RecycleShuffled)

	engine.recycleDiscard(p)

	require.Len(t, p.hand, 3)
	assert.Empty(t, p.discard)

	got := append([]Card(nil), p.hand...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []Card{3, 5, 7}, got)
}

func TestRecycleAppendsBehindRemainingHand(t *testing.T) {
	engine, p := recycleFixture(t, RecycleFIFO)
	p.hand = []Card{9}

	engine.recycleDiscard(p)

	assert.Equal(t, []Card{9, 3, 5, 7}, p.hand)
}
