// Package service holds the long-running workflows the scheduler drives:
// ensemble retraining and odds feed refresh.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/logger"
	"github.com/yourusername/sportcast/internal/metrics"
	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/repository"
)

// DefaultMinTrainingSamples is the floor below which retraining is skipped.
const DefaultMinTrainingSamples = 50

// DefaultMaxTrainingSamples caps how many recent samples one run loads.
const DefaultMaxTrainingSamples = 10000

// TrainingService retrains the stacking ensemble from stored samples.
type TrainingService struct {
	samples    repository.TrainingSampleRepository
	combiner   *ensemble.Combiner
	sport      string
	minSamples int
	maxSamples int
	logger     *logrus.Logger
	plog       *logger.PredictionLogger
}

// NewTrainingService creates a training service.
func NewTrainingService(
	samples repository.TrainingSampleRepository,
	combiner *ensemble.Combiner,
	sport string,
	log *logrus.Logger,
) *TrainingService {
	return &TrainingService{
		samples:    samples,
		combiner:   combiner,
		sport:      sport,
		minSamples: DefaultMinTrainingSamples,
		maxSamples: DefaultMaxTrainingSamples,
		logger:     log,
		plog:       logger.NewPredictionLogger(log),
	}
}

// readinessChecker is the optional health check a registered model can
// expose. Remote adapters implement it; local adapters do not need to.
type readinessChecker interface {
	CheckReady(ctx context.Context) bool
}

// Retrain loads the most recent samples and retrains the ensemble. The
// previous trained state keeps serving until the swap succeeds, so a
// failed run never degrades inference.
func (s *TrainingService) Retrain(ctx context.Context) error {
	start := time.Now()
	s.refreshRemoteReadiness(ctx)

	count, err := s.samples.Count(ctx, s.sport)
	if err != nil {
		metrics.RecordTrainingRun("error", time.Since(start).Seconds())
		return fmt.Errorf("failed to count training samples: %w", err)
	}

	if count < s.minSamples {
		s.logger.WithFields(logrus.Fields{
			"sport":       s.sport,
			"samples":     count,
			"min_samples": s.minSamples,
		}).Info("Skipping retraining, not enough samples")
		metrics.RecordTrainingRun("skipped", time.Since(start).Seconds())
		return nil
	}

	stored, err := s.samples.GetBySport(ctx, s.sport, s.maxSamples)
	if err != nil {
		metrics.RecordTrainingRun("error", time.Since(start).Seconds())
		return fmt.Errorf("failed to load training samples: %w", err)
	}

	batch := make([]models.TrainingSample, len(stored))
	for i, sample := range stored {
		batch[i] = *sample
	}

	report, err := s.combiner.Train(batch)
	if err != nil {
		metrics.RecordTrainingRun("error", time.Since(start).Seconds())
		return fmt.Errorf("training failed: %w", err)
	}

	if err := s.samples.SaveTrainingRun(ctx, s.sport, report); err != nil {
		s.logger.WithError(err).Warn("Failed to persist training run report")
	}

	elapsed := time.Since(start).Seconds()
	metrics.RecordTrainingRun("success", elapsed)
	metrics.UpdateMetaLearnerAccuracy(report.ValidationAccuracy)
	metrics.UpdateTrainedModels(float64(readyModels(s.combiner)))
	s.plog.LogModelTraining(s.sport, report.TrainingSamples, report.ValidationSamples, report.ValidationAccuracy, elapsed)

	return nil
}

// refreshRemoteReadiness re-checks every model that exposes a health
// check, so a remote that came back up rejoins the ensemble on the next
// tick without a restart.
func (s *TrainingService) refreshRemoteReadiness(ctx context.Context) {
	for _, entry := range s.combiner.Registry().Snapshot().Entries() {
		checker, ok := entry.Model.(readinessChecker)
		if !ok {
			continue
		}
		if !checker.CheckReady(ctx) {
			s.logger.WithField("model", entry.Name).Warn("Remote model not ready, excluded until next check")
		}
	}
}

func readyModels(c *ensemble.Combiner) int {
	ready := 0
	for _, entry := range c.Registry().Snapshot().Entries() {
		if entry.Model.Ready() {
			ready++
		}
	}
	return ready
}
