// Package results persists batch simulation outcomes to Postgres. The
// engine itself performs no I/O; this sink is wired in by the CLI when a
// DSN is configured.
package results

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cardwars/warsim/internal/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS war_batches (
	id           UUID PRIMARY KEY,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	games        INT NOT NULL,
	exhausted    INT NOT NULL,
	turn_capped  INT NOT NULL,
	p1_wins      INT NOT NULL,
	p2_wins      INT NOT NULL,
	undecided    INT NOT NULL,
	mean_hands   DOUBLE PRECISION NOT NULL,
	longest_game INT NOT NULL
);

CREATE TABLE IF NOT EXISTS war_games (
	id           UUID PRIMARY KEY,
	batch_id     UUID NOT NULL REFERENCES war_batches(id) ON DELETE CASCADE,
	seed         BIGINT NOT NULL,
	outcome      TEXT NOT NULL,
	hands_played INT NOT NULL,
	winner       INT NOT NULL
);
`

// Store writes simulation results through a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New connects to the database behind dsn and verifies the connection.
func New(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("results store connected",
		zap.String("database", cfg.ConnConfig.Database),
	)
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the results tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordBatch writes the batch aggregate and every game record in one
// transaction.
func (s *Store) RecordBatch(ctx context.Context, batchID uuid.UUID, records []sim.GameRecord, agg sim.Aggregate) error {
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insertBatch := `
			INSERT INTO war_batches
				(id, games, exhausted, turn_capped, p1_wins, p2_wins, undecided, mean_hands, longest_game)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.Exec(ctx, insertBatch, batchID,
			agg.Games, agg.Exhausted, agg.TurnCapped,
			agg.P1Wins, agg.P2Wins, agg.Undecided,
			agg.MeanHands, agg.LongestGame); err != nil {
			return err
		}

		insertGame := `
			INSERT INTO war_games (id, batch_id, seed, outcome, hands_played, winner)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, rec := range records {
			if _, err := tx.Exec(ctx, insertGame, rec.ID, batchID,
				rec.Seed, rec.Outcome.String(), rec.HandsPlayed, rec.Winner); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record batch %s: %w", batchID, err)
	}

	s.logger.Info("batch recorded",
		zap.String("batch_id", batchID.String()),
		zap.Int("games", len(records)),
	)
	return nil
}
