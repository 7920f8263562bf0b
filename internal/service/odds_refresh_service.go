package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/logger"
	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/repository"
)

// SnapshotSource fetches the current quote snapshots for a sport.
type SnapshotSource interface {
	Snapshots(ctx context.Context, sport string) ([]*models.OddsSnapshot, error)
	InvalidateSport(sport string)
}

// OddsRefreshService periodically pulls fresh quotes from the feed and
// archives them for market history.
type OddsRefreshService struct {
	feed      SnapshotSource
	snapshots repository.OddsSnapshotRepository
	sports    []string
	logger    *logrus.Logger
	plog      *logger.PredictionLogger
}

// NewOddsRefreshService creates an odds refresh service.
func NewOddsRefreshService(
	feed SnapshotSource,
	snapshots repository.OddsSnapshotRepository,
	sports []string,
	log *logrus.Logger,
) *OddsRefreshService {
	return &OddsRefreshService{
		feed:      feed,
		snapshots: snapshots,
		sports:    sports,
		logger:    log,
		plog:      logger.NewPredictionLogger(log),
	}
}

// Refresh drops the cached feed state and archives a fresh snapshot set
// for every configured sport. One failing sport does not stop the rest.
func (s *OddsRefreshService) Refresh(ctx context.Context) error {
	var firstErr error

	for _, sport := range s.sports {
		s.feed.InvalidateSport(sport)

		snaps, err := s.feed.Snapshots(ctx, sport)
		if err != nil {
			s.logger.WithError(err).WithField("sport", sport).Warn("Odds refresh failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("refreshing %s: %w", sport, err)
			}
			continue
		}

		if len(snaps) == 0 {
			continue
		}

		if s.snapshots != nil {
			if err := s.snapshots.InsertBatch(ctx, snaps); err != nil {
				s.logger.WithError(err).WithField("sport", sport).Warn("Failed to archive odds snapshots")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
		}

		s.plog.LogOddsSnapshot(sport, countEvents(snaps), len(snaps), countBookmakers(snaps))
	}

	return firstErr
}

func countEvents(snaps []*models.OddsSnapshot) int {
	seen := make(map[string]struct{})
	for _, s := range snaps {
		seen[s.EventID] = struct{}{}
	}
	return len(seen)
}

func countBookmakers(snaps []*models.OddsSnapshot) int {
	seen := make(map[string]struct{})
	for _, s := range snaps {
		seen[s.Bookmaker] = struct{}{}
	}
	return len(seen)
}

// lastRefreshWindow bounds how far back a history query reaches when the
// caller does not supply a range.
const lastRefreshWindow = 24 * time.Hour

// History returns the archived snapshots for an event over the last day.
// It fails with ErrNoOddsData when nothing was captured in the window.
func (s *OddsRefreshService) History(ctx context.Context, eventID string) ([]*models.OddsSnapshot, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("%w: snapshot archive disabled", models.ErrNoOddsData)
	}
	end := time.Now().UTC()
	snaps, err := s.snapshots.GetByEventID(ctx, eventID, end.Add(-lastRefreshWindow), end)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: event %s", models.ErrNoOddsData, eventID)
	}
	return snaps, nil
}
