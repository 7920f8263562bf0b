package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sportcast/internal/database"
	"github.com/yourusername/sportcast/internal/models"
)

// PostgresOddsSnapshotRepository implements OddsSnapshotRepository for PostgreSQL
type PostgresOddsSnapshotRepository struct {
	db *database.DB
}

// NewPostgresOddsSnapshotRepository creates a new odds snapshot repository
func NewPostgresOddsSnapshotRepository(db *database.DB) OddsSnapshotRepository {
	return &PostgresOddsSnapshotRepository{db: db}
}

// InsertBatch inserts multiple odds snapshots using bulk insert
func (r *PostgresOddsSnapshotRepository) InsertBatch(ctx context.Context, snapshots []*models.OddsSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	columns := []string{"sport", "event_id", "bookmaker", "market_key", "outcome", "price", "point", "captured_at"}

	copyFromSource := make([][]interface{}, len(snapshots))
	for i, s := range snapshots {
		copyFromSource[i] = []interface{}{
			s.Sport, s.EventID, s.Bookmaker, s.MarketKey, s.Outcome, s.Price, s.Point, s.CapturedAt,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"odds_snapshots"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert odds snapshots: %w", err)
	}

	if count != int64(len(snapshots)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(snapshots))
	}

	return nil
}

// GetByEventID retrieves snapshots for an event within a time range
func (r *PostgresOddsSnapshotRepository) GetByEventID(ctx context.Context, eventID string, start, end time.Time) ([]*models.OddsSnapshot, error) {
	query := `
		SELECT sport, event_id, bookmaker, market_key, outcome, price, point, captured_at
		FROM odds_snapshots
		WHERE event_id = $1 AND captured_at >= $2 AND captured_at <= $3
		ORDER BY captured_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, eventID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds snapshots: %w", err)
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

// GetLatestForEvent retrieves the most recent snapshot set for an event,
// one row per bookmaker, market and outcome.
func (r *PostgresOddsSnapshotRepository) GetLatestForEvent(ctx context.Context, eventID string) ([]*models.OddsSnapshot, error) {
	query := `
		SELECT DISTINCT ON (bookmaker, market_key, outcome)
		       sport, event_id, bookmaker, market_key, outcome, price, point, captured_at
		FROM odds_snapshots
		WHERE event_id = $1
		ORDER BY bookmaker, market_key, outcome, captured_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest odds snapshots: %w", err)
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

func collectSnapshots(rows pgx.Rows) ([]*models.OddsSnapshot, error) {
	var snapshots []*models.OddsSnapshot
	for rows.Next() {
		s := &models.OddsSnapshot{}
		err := rows.Scan(&s.Sport, &s.EventID, &s.Bookmaker, &s.MarketKey, &s.Outcome, &s.Price, &s.Point, &s.CapturedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
