package game

import "errors"

// ErrInvalidRecycleMode indicates an unrecognized discard-recycle mode.
var ErrInvalidRecycleMode = errors.New("recycle mode must be fifo, filo, or shuffled")

// ErrInvalidMaxHands indicates a negative turn cap.
var ErrInvalidMaxHands = errors.New("max hands must be non-negative")

// ErrInvalidHand indicates a supplied starting hand holds an out-of-range rank.
var ErrInvalidHand = errors.New("starting hands must hold ranks between 2 and 14")

// ErrOutOfCards indicates a draw from a player whose hand and discard are
// both empty. It signals normal end of game, not a fault.
var ErrOutOfCards = errors.New("player has no cards left to draw")

// ErrShuffledTable indicates a hand-table request under shuffled recycling,
// which destroys the ordering the table needs.
var ErrShuffledTable = errors.New("cannot build a hand table with shuffled recycling")
