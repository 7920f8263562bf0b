package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/models"
)

// DecisionRepository defines the interface for persisted prediction decisions
type DecisionRepository interface {
	Save(ctx context.Context, match *models.Match, decision *models.Decision) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Decision, error)
	GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Decision, error)
	GetRecent(ctx context.Context, sport string, limit int) ([]*models.Decision, error)
}

// TrainingSampleRepository defines the interface for training data access
type TrainingSampleRepository interface {
	Insert(ctx context.Context, sport string, sample *models.TrainingSample) error
	InsertBatch(ctx context.Context, sport string, samples []*models.TrainingSample) error
	GetBySport(ctx context.Context, sport string, limit int) ([]*models.TrainingSample, error)
	Count(ctx context.Context, sport string) (int, error)
	SaveTrainingRun(ctx context.Context, sport string, report *ensemble.TrainingReport) error
}

// OddsSnapshotRepository defines the interface for stored quote observations
type OddsSnapshotRepository interface {
	InsertBatch(ctx context.Context, snapshots []*models.OddsSnapshot) error
	GetByEventID(ctx context.Context, eventID string, start, end time.Time) ([]*models.OddsSnapshot, error)
	GetLatestForEvent(ctx context.Context, eventID string) ([]*models.OddsSnapshot, error)
}
