package ensemble

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/yourusername/sportcast/internal/models"
)

// varianceFloor keeps per-class variances away from zero for constant
// feature columns.
const varianceFloor = 1e-9

// nbState is the fully fitted, immutable gaussian parameter set. Fit
// assembles a new state and swaps it in atomically.
type nbState struct {
	features  int
	logPriors []float64
	means     [][]float64
	variances [][]float64
}

// NaiveBayesAdapter wraps a gaussian naive Bayes classifier behind the
// BaseModel contract.
type NaiveBayesAdapter struct {
	name    string
	classes int
	state   atomic.Pointer[nbState]
}

// NewNaiveBayesAdapter creates an untrained gaussian naive Bayes adapter.
func NewNaiveBayesAdapter(name string, classes int) *NaiveBayesAdapter {
	return &NaiveBayesAdapter{name: name, classes: classes}
}

// Name returns the adapter's unique name.
func (a *NaiveBayesAdapter) Name() string { return a.name }

// Ready reports whether the underlying classifier has been fitted.
func (a *NaiveBayesAdapter) Ready() bool { return a.state.Load() != nil }

// Classes returns the outcome class count.
func (a *NaiveBayesAdapter) Classes() int { return a.classes }

// Fit estimates per-class feature means, variances and priors.
func (a *NaiveBayesAdapter) Fit(samples []models.TrainingSample) error {
	if len(samples) == 0 {
		return models.ErrInsufficientData
	}
	if countClasses(samples) < 2 {
		return models.ErrDegenerateLabels
	}
	features := samples[0].Features.Len()

	counts := make([]float64, a.classes)
	means := make([][]float64, a.classes)
	variances := make([][]float64, a.classes)
	for c := 0; c < a.classes; c++ {
		means[c] = make([]float64, features)
		variances[c] = make([]float64, features)
	}

	for _, s := range samples {
		if s.Label < 0 || s.Label >= a.classes {
			return fmt.Errorf("label %d out of range for %d classes", s.Label, a.classes)
		}
		counts[s.Label]++
		for i, v := range s.Features.Values() {
			means[s.Label][i] += v
		}
	}
	for c := 0; c < a.classes; c++ {
		if counts[c] == 0 {
			continue
		}
		for i := range means[c] {
			means[c][i] /= counts[c]
		}
	}
	for _, s := range samples {
		for i, v := range s.Features.Values() {
			d := v - means[s.Label][i]
			variances[s.Label][i] += d * d
		}
	}
	logPriors := make([]float64, a.classes)
	total := float64(len(samples))
	for c := 0; c < a.classes; c++ {
		if counts[c] == 0 {
			// Unseen class keeps a tiny prior rather than -Inf.
			logPriors[c] = math.Log(1 / (total + float64(a.classes)))
			for i := range variances[c] {
				variances[c][i] = 1
			}
			continue
		}
		logPriors[c] = math.Log(counts[c] / total)
		for i := range variances[c] {
			variances[c][i] = variances[c][i]/counts[c] + varianceFloor
		}
	}

	a.state.Store(&nbState{
		features:  features,
		logPriors: logPriors,
		means:     means,
		variances: variances,
	})
	return nil
}

// PredictProbabilities returns the posterior class distribution.
func (a *NaiveBayesAdapter) PredictProbabilities(fv *models.FeatureVector) (models.Distribution, error) {
	state := a.state.Load()
	if state == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrAdapterNotReady, a.name)
	}
	if fv.Len() != state.features {
		return nil, fmt.Errorf("feature width %d does not match trained width %d", fv.Len(), state.features)
	}
	values := fv.Values()
	logPosteriors := make([]float64, a.classes)
	for c := 0; c < a.classes; c++ {
		lp := state.logPriors[c]
		for i, v := range values {
			variance := state.variances[c][i]
			d := v - state.means[c][i]
			lp += -0.5*math.Log(2*math.Pi*variance) - d*d/(2*variance)
		}
		logPosteriors[c] = lp
	}
	return sanitizeDistribution(softmax(logPosteriors), a.classes)
}

// Predict returns the most likely class.
func (a *NaiveBayesAdapter) Predict(fv *models.FeatureVector) (int, error) {
	probs, err := a.PredictProbabilities(fv)
	if err != nil {
		return 0, err
	}
	return probs.ArgMax(), nil
}

var _ BaseModel = (*NaiveBayesAdapter)(nil)
var _ Trainable = (*NaiveBayesAdapter)(nil)
