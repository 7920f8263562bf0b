package ensemble

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

// Prediction is the ensemble's output for one feature vector.
type Prediction struct {
	Probabilities  models.Distribution
	PredictedClass int
	Confidence     float64
	Contributors   int
	Excluded       int
}

// Combiner wires the registry, the aggregator and the meta-learner into the
// two operations the rest of the system calls: Train and Predict.
type Combiner struct {
	registry   *Registry
	aggregator *Aggregator
	meta       *MetaLearner
	logger     *logrus.Logger
}

// NewCombiner creates a combiner over a registry.
func NewCombiner(registry *Registry, logger *logrus.Logger) *Combiner {
	return &Combiner{
		registry:   registry,
		aggregator: NewAggregator(logger),
		meta:       NewMetaLearner(logger),
		logger:     logger,
	}
}

// Registry exposes the underlying registry for operator actions.
func (c *Combiner) Registry() *Registry {
	return c.registry
}

// Trained reports whether the meta-learner has completed a training run.
func (c *Combiner) Trained() bool {
	return c.meta.Trained()
}

// Report returns the last meta-learner training report, or nil.
func (c *Combiner) Report() *TrainingReport {
	return c.meta.Report()
}

// Train fits every trainable adapter on the sample batch, builds stacked
// records through the aggregator and trains the meta-learner on them.
// Adapter fit failures are isolated: the adapter stays not-ready and its
// block contributes zeros, the run continues.
func (c *Combiner) Train(samples []models.TrainingSample) (*TrainingReport, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty training batch", models.ErrInsufficientData)
	}

	snap := c.registry.Snapshot()
	if snap.Len() == 0 {
		return nil, fmt.Errorf("%w: no adapters registered", models.ErrInsufficientData)
	}

	for _, entry := range snap.Entries() {
		trainable, ok := entry.Model.(Trainable)
		if !ok {
			continue
		}
		if err := trainable.Fit(samples); err != nil {
			c.logger.WithError(err).WithField("adapter", entry.Name).Error("Adapter training failed, adapter stays not ready")
			continue
		}
		c.logger.WithFields(logrus.Fields{
			"adapter": entry.Name,
			"samples": len(samples),
		}).Info("Adapter trained")
	}

	records := make([]*StackedRecord, len(samples))
	labels := make([]int, len(samples))
	for i, s := range samples {
		records[i] = c.aggregator.BuildStacked(snap, s.Features)
		labels[i] = s.Label
	}

	return c.meta.Train(records, labels)
}

// Predict turns one feature vector into the ensemble distribution with its
// confidence score.
func (c *Combiner) Predict(fv *models.FeatureVector) (*Prediction, error) {
	snap := c.registry.Snapshot()
	rec := c.aggregator.BuildStacked(snap, fv)

	probs, err := c.meta.PredictFromRecord(rec)
	if err != nil {
		return nil, err
	}

	return &Prediction{
		Probabilities:  probs,
		PredictedClass: probs.ArgMax(),
		Confidence:     ConfidenceScore(rec.Individual, probs),
		Contributors:   rec.ContributorCount(),
		Excluded:       len(rec.Present) - rec.ContributorCount(),
	}, nil
}
