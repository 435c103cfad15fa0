// Package sim runs batches of independent War games and aggregates their
// outcomes into standings.
package sim

import (
	"context"
	"errors"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cardwars/warsim/internal/game"
)

// ErrNoGames indicates a batch with nothing to simulate.
var ErrNoGames = errors.New("batch must contain at least one game")

// RunConfig describes a simulation batch.
type RunConfig struct {
	// Games is the number of independent games to simulate.
	Games int
	// MaxHands caps each game's turn count.
	MaxHands int
	// RecycleMode and RandomizeWinnings are passed through to every game.
	RecycleMode       game.RecycleMode
	RandomizeWinnings bool
	// Seed is the base seed; game i plays with Seed+i, so a batch is
	// reproducible end to end.
	Seed int64
	// Parallelism bounds concurrent games. Zero means GOMAXPROCS.
	Parallelism int
}

// GameRecord is the outcome of a single game in a batch.
type GameRecord struct {
	ID          uuid.UUID
	Seed        int64
	Outcome     game.Outcome
	HandsPlayed int
	// Winner is 1 or 2, or 0 when a capped game ends with even holdings.
	Winner int
}

// Aggregate summarizes a batch.
type Aggregate struct {
	Games       int
	Exhausted   int
	TurnCapped  int
	P1Wins      int
	P2Wins      int
	Undecided   int
	MeanHands   float64
	LongestGame int
}

// Runner simulates batches of games.
type Runner struct {
	cfg    RunConfig
	logger *zap.Logger
}

// NewRunner creates a batch runner.
func NewRunner(cfg RunConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run simulates the configured batch and returns per-game records in game
// order plus the batch aggregate. A canceled context stops scheduling new
// games and returns the context error.
func (r *Runner) Run(ctx context.Context) ([]GameRecord, Aggregate, error) {
	if r.cfg.Games <= 0 {
		return nil, Aggregate{}, ErrNoGames
	}

	parallelism := r.cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	r.logger.Info("starting batch",
		zap.Int("games", r.cfg.Games),
		zap.Int("max_hands", r.cfg.MaxHands),
		zap.Stringer("recycle_mode", r.cfg.RecycleMode),
		zap.Int64("seed", r.cfg.Seed),
		zap.Int("parallelism", parallelism),
	)

	records := make([]GameRecord, r.cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := 0; i < r.cfg.Games; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		i := i
		g.Go(func() error {
			record, err := r.playOne(r.cfg.Seed + int64(i))
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Aggregate{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Aggregate{}, err
	}

	agg := aggregate(records)
	r.logger.Info("batch complete",
		zap.Int("games", agg.Games),
		zap.Int("exhausted", agg.Exhausted),
		zap.Int("turn_capped", agg.TurnCapped),
		zap.Int("p1_wins", agg.P1Wins),
		zap.Int("p2_wins", agg.P2Wins),
		zap.Float64("mean_hands", agg.MeanHands),
	)
	return records, agg, nil
}

func (r *Runner) playOne(seed int64) (GameRecord, error) {
	engine, err := game.NewEngine(game.Config{
		MaxHands:          r.cfg.MaxHands,
		RecycleMode:       r.cfg.RecycleMode,
		RandomizeWinnings: r.cfg.RandomizeWinnings,
		Seed:              seed,
		Logger:            r.logger,
	})
	if err != nil {
		return GameRecord{}, err
	}

	summary := engine.Play()
	record := GameRecord{
		ID:          uuid.New(),
		Seed:        seed,
		Outcome:     summary.Outcome,
		HandsPlayed: summary.HandsPlayed,
		Winner:      engine.Leader(),
	}

	r.logger.Debug("game finished",
		zap.String("game_id", record.ID.String()),
		zap.Int64("seed", record.Seed),
		zap.Stringer("outcome", record.Outcome),
		zap.Int("hands_played", record.HandsPlayed),
		zap.Int("winner", record.Winner),
	)
	return record, nil
}

func aggregate(records []GameRecord) Aggregate {
	agg := Aggregate{Games: len(records)}
	totalHands := 0
	for _, rec := range records {
		totalHands += rec.HandsPlayed
		if rec.HandsPlayed > agg.LongestGame {
			agg.LongestGame = rec.HandsPlayed
		}
		switch rec.Outcome {
		case game.OutcomeExhausted:
			agg.Exhausted++
		case game.OutcomeTurnCapped:
			agg.TurnCapped++
		}
		switch rec.Winner {
		case 1:
			agg.P1Wins++
		case 2:
			agg.P2Wins++
		default:
			agg.Undecided++
		}
	}
	if agg.Games > 0 {
		agg.MeanHands = float64(totalHands) / float64(agg.Games)
	}
	return agg
}
