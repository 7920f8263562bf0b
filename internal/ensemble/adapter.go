// Package ensemble combines heterogeneous base classifiers behind a uniform
// prediction contract: a weighted registry turns one feature vector into a
// stacked record of per-model outputs, and a second-stage meta-learner merges
// those into the system's primary probability distribution.
package ensemble

import (
	"fmt"
	"math"

	"github.com/yourusername/sportcast/internal/models"
)

// BaseModel is the uniform wrapper around any trained classifier. Adapters
// that are not ready are skipped by the aggregator, never erroring the
// pipeline.
type BaseModel interface {
	Name() string
	Ready() bool
	Classes() int
	Predict(fv *models.FeatureVector) (int, error)
	PredictProbabilities(fv *models.FeatureVector) (models.Distribution, error)
}

// Trainable is implemented by adapters whose underlying classifier is fitted
// in-process from labelled feature vectors.
type Trainable interface {
	Fit(samples []models.TrainingSample) error
}

// sanitizeDistribution enforces the adapter numeric contract: probabilities
// non-negative and summing to 1 within tolerance. Vectors that are merely
// off-scale are renormalized; vectors that cannot be rescued are rejected.
func sanitizeDistribution(raw []float64, classes int) (models.Distribution, error) {
	if len(raw) != classes {
		return nil, fmt.Errorf("%w: got %d classes, want %d", models.ErrDegenerateDistribution, len(raw), classes)
	}
	d := models.Distribution(raw)
	if err := d.Validate(); err == nil {
		return d, nil
	}
	normalized, err := d.Normalize()
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// softmax converts raw scores into a probability distribution. Scores are
// shifted by their maximum before exponentiating to avoid overflow.
func softmax(scores []float64) models.Distribution {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	out := make(models.Distribution, len(scores))
	sum := 0.0
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// countClasses returns the number of distinct labels in the sample set.
func countClasses(samples []models.TrainingSample) int {
	seen := make(map[int]struct{})
	for _, s := range samples {
		seen[s.Label] = struct{}{}
	}
	return len(seen)
}
