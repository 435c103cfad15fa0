package game

import (
	"fmt"
	"strconv"
)

// Card is a playing-card rank. War ignores suits entirely, so a card is
// just its rank; face cards use the ranks 11-14.
type Card int

const (
	// NoCard marks an empty cell in a padded hand table.
	NoCard Card = 0

	Jack  Card = 11
	Queen Card = 12
	King  Card = 13
	Ace   Card = 14
)

// Rank bounds for a valid War card.
const (
	MinRank Card = 2
	MaxRank Card = 14
)

// Valid reports whether c is a playable rank.
func (c Card) Valid() bool {
	return c >= MinRank && c <= MaxRank
}

func (c Card) String() string {
	if c == NoCard {
		return " "
	}
	return strconv.Itoa(int(c))
}

// newDeck builds the standard 52-card War deck: ranks 2 through 14, four
// of each, in rank order. Callers shuffle before dealing.
func newDeck() []Card {
	deck := make([]Card, 0, 52)
	for suit := 0; suit < 4; suit++ {
		for rank := MinRank; rank <= MaxRank; rank++ {
			deck = append(deck, rank)
		}
	}
	return deck
}

// RecycleMode controls the order in which a drained discard pile is
// folded back into a player's draw hand.
type RecycleMode int

const (
	// RecycleFIFO appends the discard pile in its existing oldest-first order.
	RecycleFIFO RecycleMode = iota
	// RecycleFILO appends the discard pile newest-first.
	RecycleFILO
	// RecycleShuffled appends the discard pile in a uniformly random order.
	RecycleShuffled
)

func (m RecycleMode) String() string {
	switch m {
	case RecycleFIFO:
		return "fifo"
	case RecycleFILO:
		return "filo"
	case RecycleShuffled:
		return "shuffled"
	default:
		return "unknown"
	}
}

// ParseRecycleMode resolves a mode name to its RecycleMode. Resolution
// happens once, at configuration time; unknown names return
// ErrInvalidRecycleMode.
func ParseRecycleMode(s string) (RecycleMode, error) {
	switch s {
	case "fifo":
		return RecycleFIFO, nil
	case "filo":
		return RecycleFILO, nil
	case "shuffled":
		return RecycleShuffled, nil
	default:
		return RecycleFIFO, fmt.Errorf("%w: %q", ErrInvalidRecycleMode, s)
	}
}
