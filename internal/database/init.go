package database

import (
	"context"
	"fmt"

	"github.com/yourusername/sportcast/internal/config"
)

// schema holds the DDL for the prediction store. All statements are
// idempotent so Initialize can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS decisions (
    id            UUID PRIMARY KEY,
    match_id      UUID NOT NULL,
    sport         TEXT NOT NULL,
    home_team     TEXT NOT NULL,
    away_team     TEXT NOT NULL,
    outcome       TEXT NOT NULL,
    probabilities JSONB NOT NULL,
    confidence    DOUBLE PRECISION NOT NULL,
    risk_label    TEXT NOT NULL,
    key_factors   JSONB,
    value_bets    JSONB,
    arbitrage     JSONB,
    models_used   INT NOT NULL DEFAULT 0,
    models_excluded INT NOT NULL DEFAULT 0,
    odds_available  BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_decisions_match ON decisions (match_id);
CREATE INDEX IF NOT EXISTS idx_decisions_sport_created ON decisions (sport, created_at DESC);

CREATE TABLE IF NOT EXISTS training_samples (
    id         BIGSERIAL PRIMARY KEY,
    sport      TEXT NOT NULL,
    features   DOUBLE PRECISION[] NOT NULL,
    label      INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_training_samples_sport ON training_samples (sport, created_at DESC);

CREATE TABLE IF NOT EXISTS training_runs (
    id          BIGSERIAL PRIMARY KEY,
    sport       TEXT NOT NULL,
    samples     INT NOT NULL,
    accuracy    DOUBLE PRECISION NOT NULL,
    class_counts JSONB,
    trained_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS odds_snapshots (
    id          BIGSERIAL PRIMARY KEY,
    sport       TEXT NOT NULL,
    event_id    TEXT NOT NULL,
    bookmaker   TEXT NOT NULL,
    market_key  TEXT NOT NULL,
    outcome     TEXT NOT NULL,
    price       DOUBLE PRECISION NOT NULL,
    point       DOUBLE PRECISION,
    captured_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_odds_snapshots_event ON odds_snapshots (event_id, captured_at DESC);
`

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
