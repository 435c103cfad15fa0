package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cardwars/warsim/internal/config"
	"github.com/cardwars/warsim/internal/game"
	"github.com/cardwars/warsim/internal/results"
	"github.com/cardwars/warsim/internal/sim"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	games      = flag.Int("games", 0, "number of games to simulate (overrides config)")
	hands      = flag.Int("hands", 0, "turn cap per game (overrides config)")
	mode       = flag.String("mode", "", "discard recycle mode: fifo, filo, or shuffled (overrides config)")
	seed       = flag.Int64("seed", 0, "base random seed (overrides config)")
	randomize  = flag.Bool("randomize-winnings", false, "randomize winnings order before discard")
	showTable  = flag.Bool("table", false, "print the final hand table (single game, fifo/filo only)")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg)

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting war simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	recycleMode, err := cfg.Simulation.Mode()
	if err != nil {
		logger.Fatal("invalid recycle mode", zap.Error(err))
	}

	baseSeed := cfg.Simulation.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
		logger.Info("derived base seed from clock", zap.Int64("seed", baseSeed))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	var records []sim.GameRecord
	var agg sim.Aggregate
	if cfg.Simulation.Games == 1 {
		records, agg, err = runSingle(cfg, recycleMode, baseSeed, logger)
	} else {
		records, agg, err = runBatch(ctx, cfg, recycleMode, baseSeed, logger)
	}
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	logger.Info("simulation complete",
		zap.Int("games", agg.Games),
		zap.Int("exhausted", agg.Exhausted),
		zap.Int("turn_capped", agg.TurnCapped),
		zap.Int("p1_wins", agg.P1Wins),
		zap.Int("p2_wins", agg.P2Wins),
		zap.Int("undecided", agg.Undecided),
		zap.Float64("mean_hands", agg.MeanHands),
		zap.Int("longest_game", agg.LongestGame),
	)

	if cfg.Database.DSN != "" {
		if err := recordResults(ctx, cfg.Database.DSN, records, agg, logger); err != nil {
			logger.Error("failed to record results", zap.Error(err))
		}
	}
}

// runSingle plays one game directly so the table view and replay recorder
// can be attached.
func runSingle(cfg *config.Config, mode game.RecycleMode, seed int64, logger *zap.Logger) ([]sim.GameRecord, sim.Aggregate, error) {
	gameID := uuid.New()

	var replay *game.Replay
	if cfg.Replay.Dir != "" {
		replay = game.NewReplay(gameID.String())
	}

	engine, err := game.NewEngine(game.Config{
		MaxHands:          cfg.Simulation.MaxHands,
		RecycleMode:       mode,
		RandomizeWinnings: cfg.Simulation.RandomizeWinnings,
		Seed:              seed,
		Replay:            replay,
		Logger:            logger,
	})
	if err != nil {
		return nil, sim.Aggregate{}, err
	}

	summary := engine.Play()
	logger.Info("game finished",
		zap.String("game_id", gameID.String()),
		zap.Stringer("outcome", summary.Outcome),
		zap.Int("hands_played", summary.HandsPlayed),
	)

	if *showTable {
		table, err := engine.Table()
		if err != nil {
			logger.Warn("cannot render hand table", zap.Error(err))
		} else {
			fmt.Println(table)
		}
	}

	if replay != nil {
		if err := replay.SaveToFile(cfg.Replay.Dir); err != nil {
			logger.Error("failed to save replay", zap.Error(err))
		} else {
			logger.Info("replay saved",
				zap.String("directory", cfg.Replay.Dir),
				zap.Int("snapshots", replay.Size()),
			)
		}
	}

	records := []sim.GameRecord{{
		ID:          gameID,
		Seed:        seed,
		Outcome:     summary.Outcome,
		HandsPlayed: summary.HandsPlayed,
		Winner:      engine.Leader(),
	}}
	agg := sim.Aggregate{Games: 1, MeanHands: float64(summary.HandsPlayed), LongestGame: summary.HandsPlayed}
	switch summary.Outcome {
	case game.OutcomeExhausted:
		agg.Exhausted = 1
	case game.OutcomeTurnCapped:
		agg.TurnCapped = 1
	}
	switch records[0].Winner {
	case 1:
		agg.P1Wins = 1
	case 2:
		agg.P2Wins = 1
	default:
		agg.Undecided = 1
	}
	return records, agg, nil
}

func runBatch(ctx context.Context, cfg *config.Config, mode game.RecycleMode, seed int64, logger *zap.Logger) ([]sim.GameRecord, sim.Aggregate, error) {
	runner := sim.NewRunner(sim.RunConfig{
		Games:             cfg.Simulation.Games,
		MaxHands:          cfg.Simulation.MaxHands,
		RecycleMode:       mode,
		RandomizeWinnings: cfg.Simulation.RandomizeWinnings,
		Seed:              seed,
		Parallelism:       cfg.Simulation.Parallelism,
	}, logger)
	return runner.Run(ctx)
}

func recordResults(ctx context.Context, dsn string, records []sim.GameRecord, agg sim.Aggregate, logger *zap.Logger) error {
	store, err := results.New(ctx, dsn, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return store.RecordBatch(ctx, uuid.New(), records, agg)
}

// applyOverrides copies non-zero flag values over the loaded configuration.
func applyOverrides(cfg *config.Config) {
	if *games > 0 {
		cfg.Simulation.Games = *games
	}
	if *hands > 0 {
		cfg.Simulation.MaxHands = *hands
	}
	if *mode != "" {
		cfg.Simulation.RecycleMode = *mode
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *randomize {
		cfg.Simulation.RandomizeWinnings = true
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
