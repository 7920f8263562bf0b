package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sportcast/internal/database"
	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/features"
	"github.com/yourusername/sportcast/internal/models"
)

// PostgresTrainingSampleRepository implements TrainingSampleRepository for PostgreSQL
type PostgresTrainingSampleRepository struct {
	db *database.DB
}

// NewPostgresTrainingSampleRepository creates a new training sample repository
func NewPostgresTrainingSampleRepository(db *database.DB) TrainingSampleRepository {
	return &PostgresTrainingSampleRepository{db: db}
}

// Insert stores a single training sample
func (r *PostgresTrainingSampleRepository) Insert(ctx context.Context, sport string, sample *models.TrainingSample) error {
	query := `INSERT INTO training_samples (sport, features, label) VALUES ($1, $2, $3)`

	_, err := r.db.GetPool().Exec(ctx, query, sport, sample.Features.Values(), sample.Label)
	if err != nil {
		return fmt.Errorf("failed to insert training sample: %w", err)
	}

	return nil
}

// InsertBatch stores multiple training samples using bulk insert
func (r *PostgresTrainingSampleRepository) InsertBatch(ctx context.Context, sport string, samples []*models.TrainingSample) error {
	if len(samples) == 0 {
		return nil
	}

	columns := []string{"sport", "features", "label"}

	copyFromSource := make([][]interface{}, len(samples))
	for i, sample := range samples {
		copyFromSource[i] = []interface{}{sport, sample.Features.Values(), sample.Label}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"training_samples"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert training samples: %w", err)
	}

	if count != int64(len(samples)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(samples))
	}

	return nil
}

// GetBySport retrieves the most recent training samples for a sport. Stored
// feature arrays are rebound to the canonical column order; rows whose width
// no longer matches the current feature set are dropped.
func (r *PostgresTrainingSampleRepository) GetBySport(ctx context.Context, sport string, limit int) ([]*models.TrainingSample, error) {
	query := `
		SELECT features, label
		FROM training_samples
		WHERE sport = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query training samples: %w", err)
	}
	defer rows.Close()

	names := features.Names()

	var samples []*models.TrainingSample
	for rows.Next() {
		var values []float64
		var label int
		if err := rows.Scan(&values, &label); err != nil {
			return nil, fmt.Errorf("failed to scan training sample: %w", err)
		}

		if len(values) != len(names) {
			continue
		}

		fv, err := models.NewFeatureVector(names, values)
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild feature vector: %w", err)
		}
		samples = append(samples, &models.TrainingSample{Features: fv, Label: label})
	}

	return samples, rows.Err()
}

// Count returns the number of stored samples for a sport
func (r *PostgresTrainingSampleRepository) Count(ctx context.Context, sport string) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM training_samples WHERE sport = $1`, sport).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count training samples: %w", err)
	}
	return count, nil
}

// SaveTrainingRun records the outcome of a training run
func (r *PostgresTrainingSampleRepository) SaveTrainingRun(ctx context.Context, sport string, report *ensemble.TrainingReport) error {
	classCounts, err := json.Marshal(report.ClassCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal class counts: %w", err)
	}

	query := `
		INSERT INTO training_runs (sport, samples, accuracy, class_counts, trained_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		sport,
		report.TrainingSamples+report.ValidationSamples,
		report.ValidationAccuracy,
		classCounts,
		report.TrainedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save training run: %w", err)
	}

	return nil
}
