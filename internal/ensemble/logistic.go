package ensemble

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/yourusername/sportcast/internal/models"
)

// logisticOptions control the gradient-descent fit of the softmax model.
type logisticOptions struct {
	LearningRate float64
	Epochs       int
	L2           float64
}

func defaultLogisticOptions() logisticOptions {
	return logisticOptions{
		LearningRate: 0.1,
		Epochs:       500,
		L2:           1e-4,
	}
}

// softmaxModel is a multinomial logistic regression fitted by batch gradient
// descent. Weights are zero-initialized so training is deterministic.
type softmaxModel struct {
	classes  int
	features int
	// weights[c] holds the feature weights for class c; the last entry is
	// the bias term.
	weights [][]float64
}

func newSoftmaxModel(classes, features int) *softmaxModel {
	weights := make([][]float64, classes)
	for c := range weights {
		weights[c] = make([]float64, features+1)
	}
	return &softmaxModel{classes: classes, features: features, weights: weights}
}

func (m *softmaxModel) scores(x []float64) []float64 {
	scores := make([]float64, m.classes)
	for c := 0; c < m.classes; c++ {
		w := m.weights[c]
		s := w[m.features] // bias
		for i, v := range x {
			s += w[i] * v
		}
		scores[c] = s
	}
	return scores
}

func (m *softmaxModel) predictProba(x []float64) models.Distribution {
	return softmax(m.scores(x))
}

func (m *softmaxModel) fit(X [][]float64, y []int, opts logisticOptions) error {
	if len(X) == 0 {
		return models.ErrInsufficientData
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature rows (%d) and labels (%d) length mismatch", len(X), len(y))
	}
	n := float64(len(X))
	grad := make([][]float64, m.classes)
	for c := range grad {
		grad[c] = make([]float64, m.features+1)
	}

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for c := range grad {
			for i := range grad[c] {
				grad[c][i] = 0
			}
		}
		for row, x := range X {
			probs := m.predictProba(x)
			for c := 0; c < m.classes; c++ {
				diff := probs[c]
				if y[row] == c {
					diff -= 1.0
				}
				for i, v := range x {
					grad[c][i] += diff * v
				}
				grad[c][m.features] += diff
			}
		}
		for c := 0; c < m.classes; c++ {
			for i := 0; i <= m.features; i++ {
				update := grad[c][i] / n
				if i < m.features {
					update += opts.L2 * m.weights[c][i]
				}
				m.weights[c][i] -= opts.LearningRate * update
			}
		}
	}
	return nil
}

// LogisticAdapter wraps a multinomial logistic regression behind the
// BaseModel contract. Fit assembles a fresh model and swaps it in
// atomically so concurrent inference never observes a partial update.
type LogisticAdapter struct {
	name    string
	classes int
	opts    logisticOptions
	model   atomic.Pointer[softmaxModel]
}

// NewLogisticAdapter creates an untrained logistic regression adapter.
func NewLogisticAdapter(name string, classes int) *LogisticAdapter {
	return &LogisticAdapter{name: name, classes: classes, opts: defaultLogisticOptions()}
}

// Name returns the adapter's unique name.
func (a *LogisticAdapter) Name() string { return a.name }

// Ready reports whether the underlying classifier has been fitted.
func (a *LogisticAdapter) Ready() bool { return a.model.Load() != nil }

// Classes returns the outcome class count.
func (a *LogisticAdapter) Classes() int { return a.classes }

// Fit trains the classifier on labelled feature vectors.
func (a *LogisticAdapter) Fit(samples []models.TrainingSample) error {
	if len(samples) == 0 {
		return models.ErrInsufficientData
	}
	if countClasses(samples) < 2 {
		return models.ErrDegenerateLabels
	}
	X := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i, s := range samples {
		X[i] = s.Features.Values()
		y[i] = s.Label
	}
	model := newSoftmaxModel(a.classes, len(X[0]))
	if err := model.fit(X, y, a.opts); err != nil {
		return fmt.Errorf("logistic fit: %w", err)
	}
	a.model.Store(model)
	return nil
}

// PredictProbabilities returns the class probability vector for a feature
// vector.
func (a *LogisticAdapter) PredictProbabilities(fv *models.FeatureVector) (models.Distribution, error) {
	model := a.model.Load()
	if model == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrAdapterNotReady, a.name)
	}
	if fv.Len() != model.features {
		return nil, fmt.Errorf("feature width %d does not match trained width %d", fv.Len(), model.features)
	}
	return sanitizeDistribution(model.predictProba(fv.Values()), a.classes)
}

// Predict returns the most likely class.
func (a *LogisticAdapter) Predict(fv *models.FeatureVector) (int, error) {
	probs, err := a.PredictProbabilities(fv)
	if err != nil {
		return 0, err
	}
	return probs.ArgMax(), nil
}

var _ BaseModel = (*LogisticAdapter)(nil)
var _ Trainable = (*LogisticAdapter)(nil)

// applyStandardization is shared by the meta-learner and remote adapters to
// reuse stored column statistics at inference.
func applyStandardization(x, mean, std []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		s := std[i]
		if s == 0 {
			s = 1
		}
		out[i] = (v - mean[i]) / s
	}
	return out
}

// columnStats computes per-column mean and standard deviation.
func columnStats(X [][]float64) (mean, std []float64) {
	if len(X) == 0 {
		return nil, nil
	}
	width := len(X[0])
	mean = make([]float64, width)
	std = make([]float64, width)
	for _, row := range X {
		for i, v := range row {
			mean[i] += v
		}
	}
	n := float64(len(X))
	for i := range mean {
		mean[i] /= n
	}
	for _, row := range X {
		for i, v := range row {
			d := v - mean[i]
			std[i] += d * d
		}
	}
	for i := range std {
		std[i] = math.Sqrt(std[i] / n)
	}
	return mean, std
}
