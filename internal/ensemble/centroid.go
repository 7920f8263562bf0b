package ensemble

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/yourusername/sportcast/internal/models"
)

// centroidState is the fully fitted, immutable centroid set. Fit assembles
// a new state and swaps it in atomically.
type centroidState struct {
	features  int
	centroids [][]float64
	seen      []bool
}

// CentroidAdapter wraps a nearest-centroid classifier: class scores are the
// negated euclidean distances to per-class feature centroids, passed through
// a softmax. Cheap to fit, useful as a structurally different ensemble
// member next to the probabilistic models.
type CentroidAdapter struct {
	name    string
	classes int
	state   atomic.Pointer[centroidState]
}

// NewCentroidAdapter creates an untrained nearest-centroid adapter.
func NewCentroidAdapter(name string, classes int) *CentroidAdapter {
	return &CentroidAdapter{name: name, classes: classes}
}

// Name returns the adapter's unique name.
func (a *CentroidAdapter) Name() string { return a.name }

// Ready reports whether the underlying classifier has been fitted.
func (a *CentroidAdapter) Ready() bool { return a.state.Load() != nil }

// Classes returns the outcome class count.
func (a *CentroidAdapter) Classes() int { return a.classes }

// Fit computes per-class feature centroids.
func (a *CentroidAdapter) Fit(samples []models.TrainingSample) error {
	if len(samples) == 0 {
		return models.ErrInsufficientData
	}
	if countClasses(samples) < 2 {
		return models.ErrDegenerateLabels
	}
	features := samples[0].Features.Len()
	centroids := make([][]float64, a.classes)
	counts := make([]float64, a.classes)
	seen := make([]bool, a.classes)
	for c := range centroids {
		centroids[c] = make([]float64, features)
	}
	for _, s := range samples {
		if s.Label < 0 || s.Label >= a.classes {
			return fmt.Errorf("label %d out of range for %d classes", s.Label, a.classes)
		}
		counts[s.Label]++
		seen[s.Label] = true
		for i, v := range s.Features.Values() {
			centroids[s.Label][i] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for i := range centroids[c] {
			centroids[c][i] /= counts[c]
		}
	}

	a.state.Store(&centroidState{
		features:  features,
		centroids: centroids,
		seen:      seen,
	})
	return nil
}

// PredictProbabilities returns softmax over negated centroid distances.
func (a *CentroidAdapter) PredictProbabilities(fv *models.FeatureVector) (models.Distribution, error) {
	state := a.state.Load()
	if state == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrAdapterNotReady, a.name)
	}
	if fv.Len() != state.features {
		return nil, fmt.Errorf("feature width %d does not match trained width %d", fv.Len(), state.features)
	}
	values := fv.Values()
	scores := make([]float64, a.classes)
	farthest := 0.0
	for c := range state.centroids {
		dist := 0.0
		for i, v := range values {
			d := v - state.centroids[c][i]
			dist += d * d
		}
		dist = math.Sqrt(dist)
		scores[c] = -dist
		if dist > farthest {
			farthest = dist
		}
	}
	// Classes never observed in training score as far as the farthest
	// observed class so they cannot dominate the softmax.
	for c := range scores {
		if !state.seen[c] {
			scores[c] = -farthest - 1
		}
	}
	return sanitizeDistribution(softmax(scores), a.classes)
}

// Predict returns the most likely class.
func (a *CentroidAdapter) Predict(fv *models.FeatureVector) (int, error) {
	probs, err := a.PredictProbabilities(fv)
	if err != nil {
		return 0, err
	}
	return probs.ArgMax(), nil
}

var _ BaseModel = (*CentroidAdapter)(nil)
var _ Trainable = (*CentroidAdapter)(nil)
