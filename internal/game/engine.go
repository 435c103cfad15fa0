package game

import (
	"errors"
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

// Outcome represents the completion state of a game.
type Outcome int

const (
	// OutcomeInProgress means the game has not terminated.
	OutcomeInProgress Outcome = iota
	// OutcomeExhausted means a player ran out of cards entirely.
	OutcomeExhausted
	// OutcomeTurnCapped means the turn cap was reached first.
	OutcomeTurnCapped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "IN_PROGRESS"
	case OutcomeExhausted:
		return "EXHAUSTED"
	case OutcomeTurnCapped:
		return "TURN_CAPPED"
	default:
		return "UNKNOWN"
	}
}

// Summary is the append-only record of a game: how many turns ran, how it
// ended, player 1's total card count after every resolved turn, the
// original deal for both players, and the configuration echo.
type Summary struct {
	HandsPlayed       int
	Outcome           Outcome
	Tracks            []int
	P1Dealt           []Card
	P2Dealt           []Card
	RecycleMode       RecycleMode
	RandomizeWinnings bool
}

// Deal is an explicit pair of starting hands.
type Deal struct {
	P1 []Card
	P2 []Card
}

// Config holds the construction parameters for an Engine.
type Config struct {
	// MaxHands caps the number of turns a Play call will simulate.
	MaxHands int
	// RecycleMode controls discard-pile recycling order.
	RecycleMode RecycleMode
	// RandomizeWinnings randomizes which player's cards land first in the
	// winnings pool, and therefore in the eventual discard pile.
	RandomizeWinnings bool
	// Hands supplies an explicit deal. When nil a standard deck is
	// shuffled and split 26/26.
	Hands *Deal
	// Seed seeds the engine's random source when Rand is nil. Identical
	// seeds give identical games.
	Seed int64
	// Rand overrides the random source entirely.
	Rand *rand.Rand
	// Replay, when set, receives a snapshot after every resolved turn.
	Replay *Replay

	Logger *zap.Logger
}

// player holds one side's cards. The hand front is the next card to play;
// the discard accumulates won cards in the order they were claimed.
type player struct {
	hand    []Card
	discard []Card
}

func (p *player) total() int {
	return len(p.hand) + len(p.discard)
}

// Engine resolves War turns over two players' card collections. A single
// mutex guards every public operation so the multi-field mutations of
// play, seek, and reset appear atomic to callers.
type Engine struct {
	mu sync.Mutex

	maxHands  int
	mode      RecycleMode
	randomize bool
	rng       *rand.Rand
	logger    *zap.Logger
	replay    *Replay

	dealt    [2][]Card
	players  [2]*player
	winnings []Card

	tracks      []int
	handsPlayed int
	outcome     Outcome
	deckSize    int
}

// NewEngine validates the configuration, deals the starting hands, and
// returns an engine positioned at turn zero.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.MaxHands < 0 {
		return nil, ErrInvalidMaxHands
	}
	if cfg.RecycleMode < RecycleFIFO || cfg.RecycleMode > RecycleShuffled {
		return nil, ErrInvalidRecycleMode
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		maxHands:  cfg.MaxHands,
		mode:      cfg.RecycleMode,
		randomize: cfg.RandomizeWinnings,
		rng:       rng,
		logger:    logger,
		replay:    cfg.Replay,
		outcome:   OutcomeInProgress,
	}

	if cfg.Hands == nil {
		deck := newDeck()
		rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		e.dealt[0] = cloneCards(deck[:26])
		e.dealt[1] = cloneCards(deck[26:])
	} else {
		for _, hand := range [][]Card{cfg.Hands.P1, cfg.Hands.P2} {
			for _, c := range hand {
				if !c.Valid() {
					return nil, ErrInvalidHand
				}
			}
		}
		e.dealt[0] = cloneCards(cfg.Hands.P1)
		e.dealt[1] = cloneCards(cfg.Hands.P2)
	}
	e.deckSize = len(e.dealt[0]) + len(e.dealt[1])

	e.players[0] = &player{hand: cloneCards(e.dealt[0])}
	e.players[1] = &player{hand: cloneCards(e.dealt[1])}
	e.tracks = []int{len(e.dealt[0])}

	e.logger.Debug("engine dealt",
		zap.Int("p1_cards", len(e.dealt[0])),
		zap.Int("p2_cards", len(e.dealt[1])),
		zap.Stringer("recycle_mode", e.mode),
		zap.Bool("randomize_winnings", e.randomize),
	)

	return e, nil
}

// Play simulates turns up to the configured cap and returns the summary.
func (e *Engine) Play() Summary {
	return e.PlayTo(e.maxHands)
}

// PlayTo simulates turns until the game terminates or maxHands total turns
// have been played, then returns the summary.
func (e *Engine) PlayTo(maxHands int) Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playLocked(maxHands)
	return e.summaryLocked()
}

// Summary returns a copy of the current game summary. Mutating the copy
// has no effect on engine state.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.summaryLocked()
}

// Seek positions the game at the given turn, resetting first when play has
// already moved past it, and returns the hand table at that point.
func (e *Engine) Seek(turn int) (*HandTable, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handsPlayed > turn {
		e.resetLocked()
	}
	e.playLocked(turn)
	return e.tableLocked()
}

// Skip plays the given number of additional turns beyond the current
// position and returns the hand table at that point.
func (e *Engine) Skip(turns int) (*HandTable, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playLocked(e.handsPlayed + turns)
	return e.tableLocked()
}

// Reset restores the original deal, clears discards and the winnings pool,
// and rewinds the summary to its single starting snapshot.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
}

// Leader reports which player currently holds more cards (1 or 2), or 0
// on a tie. For an exhausted game this is the surviving player.
func (e *Engine) Leader() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	p1, p2 := e.players[0].total(), e.players[1].total()
	switch {
	case p1 > p2:
		return 1
	case p2 > p1:
		return 2
	default:
		return 0
	}
}

func (e *Engine) playLocked(maxHands int) {
	hand := e.handsPlayed
	for {
		over, outcome := e.gameOver(hand, maxHands)
		if over {
			e.outcome = outcome
			break
		}
		if err := e.resolveTurn(); err != nil {
			// A failed draw is the normal end-of-game signal.
			if !errors.Is(err, ErrOutOfCards) {
				e.logger.Error("turn resolution failed", zap.Error(err))
			}
			e.outcome = OutcomeExhausted
			break
		}
		hand++
		e.tracks = append(e.tracks, e.players[0].total())
		if e.replay != nil {
			e.replay.Record(e.snapshotLocked(hand))
		}
	}
	e.handsPlayed = hand

	e.logger.Debug("play stopped",
		zap.Int("hands_played", e.handsPlayed),
		zap.Stringer("outcome", e.outcome),
	)
}

// resolveTurn runs a single battle. A tie starts a war: both players wager
// face-down cards into the winnings pool, but the war is not resolved
// here; the next turn's comparison claims the enlarged pool, and may chain
// further wars onto it.
func (e *Engine) resolveTurn() error {
	p1, p2 := e.players[0], e.players[1]

	c1, err := e.drawTopCard(p1)
	if err != nil {
		return err
	}
	c2, err := e.drawTopCard(p2)
	if err != nil {
		return err
	}

	e.addToWinnings([]Card{c1}, []Card{c2})

	switch {
	case c1 > c2:
		e.awardWinnings(p1)
	case c2 > c1:
		e.awardWinnings(p2)
	default:
		n := wagerSize(c1)
		var w1, w2 []Card
		for i := n; i > 0 && p1.total() > 1; i-- {
			card, err := e.drawTopCard(p1)
			if err != nil {
				return err
			}
			w1 = append(w1, card)
		}
		for i := n; i > 0 && p2.total() > 1; i-- {
			card, err := e.drawTopCard(p2)
			if err != nil {
				return err
			}
			w2 = append(w2, card)
		}
		e.addToWinnings(w1, w2)
	}
	return nil
}

// wagerSize is the number of face-down cards each player wagers in a war,
// following the house rule of wagering by face value.
func wagerSize(rank Card) int {
	switch rank {
	case Ace:
		return 4
	case King:
		return 3
	case Queen:
		return 2
	default:
		return 1
	}
}

// drawTopCard removes and returns the front card of the player's hand,
// recycling the discard pile first when the hand is empty.
func (e *Engine) drawTopCard(p *player) (Card, error) {
	if len(p.hand) == 0 {
		if len(p.discard) == 0 {
			return NoCard, ErrOutOfCards
		}
		e.recycleDiscard(p)
	}
	card := p.hand[0]
	p.hand = p.hand[1:]
	return card, nil
}

// recycleDiscard folds the player's discard pile back into the hand in the
// order the configured mode dictates, then empties the pile.
func (e *Engine) recycleDiscard(p *player) {
	switch e.mode {
	case RecycleFIFO:
		p.hand = append(p.hand, p.discard...)
	case RecycleFILO:
		for i := len(p.discard) - 1; i >= 0; i-- {
			p.hand = append(p.hand, p.discard[i])
		}
	case RecycleShuffled:
		e.rng.Shuffle(len(p.discard), func(i, j int) {
			p.discard[i], p.discard[j] = p.discard[j], p.discard[i]
		})
		p.hand = append(p.hand, p.discard...)
	}
	p.discard = p.discard[:0]
}

// addToWinnings appends both players' drawn cards to the winnings pool,
// optionally swapping which group lands first. The swap changes the order
// cards later reach a discard pile, not who wins them.
func (e *Engine) addToWinnings(g1, g2 []Card) {
	if e.randomize && e.rng.Intn(2) == 1 {
		g1, g2 = g2, g1
	}
	e.winnings = append(e.winnings, g1...)
	e.winnings = append(e.winnings, g2...)
}

// awardWinnings drains the pool into the winner's discard pile.
func (e *Engine) awardWinnings(p *player) {
	p.discard = append(p.discard, e.winnings...)
	e.winnings = e.winnings[:0]
}

// gameOver is a pure predicate: the game ends when either player is out of
// cards entirely, or when the turn count reaches the cap.
func (e *Engine) gameOver(turnsPlayed, maxHands int) (bool, Outcome) {
	if e.players[0].total() == 0 || e.players[1].total() == 0 {
		return true, OutcomeExhausted
	}
	if turnsPlayed >= maxHands {
		return true, OutcomeTurnCapped
	}
	return false, OutcomeInProgress
}

func (e *Engine) resetLocked() {
	e.players[0] = &player{hand: cloneCards(e.dealt[0])}
	e.players[1] = &player{hand: cloneCards(e.dealt[1])}
	e.winnings = nil
	e.tracks = []int{len(e.dealt[0])}
	e.handsPlayed = 0
	e.outcome = OutcomeInProgress
}

func (e *Engine) summaryLocked() Summary {
	return Summary{
		HandsPlayed:       e.handsPlayed,
		Outcome:           e.outcome,
		Tracks:            append([]int(nil), e.tracks...),
		P1Dealt:           cloneCards(e.dealt[0]),
		P2Dealt:           cloneCards(e.dealt[1]),
		RecycleMode:       e.mode,
		RandomizeWinnings: e.randomize,
	}
}

func (e *Engine) snapshotLocked(turn int) *TurnSnapshot {
	return &TurnSnapshot{
		Turn:      turn,
		P1Hand:    len(e.players[0].hand),
		P1Discard: len(e.players[0].discard),
		P2Hand:    len(e.players[1].hand),
		P2Discard: len(e.players[1].discard),
		Winnings:  len(e.winnings),
		P1Total:   e.players[0].total(),
	}
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append([]Card(nil), cards...)
}
