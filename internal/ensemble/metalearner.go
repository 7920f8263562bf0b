package ensemble

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

// splitSeed makes the stratified report split reproducible across runs.
const splitSeed = 42

// TrainingReport summarizes one meta-learner training run. The validation
// figures come from an internal 80/20 stratified split and are reporting
// only; the final model is fitted on the full batch.
type TrainingReport struct {
	TrainingSamples    int         `json:"training_samples"`
	ValidationSamples  int         `json:"validation_samples"`
	ValidationAccuracy float64     `json:"validation_accuracy"`
	ClassCounts        map[int]int `json:"class_counts"`
	Columns            []string    `json:"columns"`
	TrainedAt          time.Time   `json:"trained_at"`
}

// metaState is the fully built, immutable trained state. A training run
// assembles a new metaState and swaps it in atomically so concurrent
// inference never observes a partial update.
type metaState struct {
	layout StackLayout
	mean   []float64
	std    []float64
	model  *softmaxModel
	report TrainingReport
}

// MetaLearner is the stacking combiner: a softmax regression trained on
// standardized stacked-feature records against ground-truth outcomes.
// State moves one way from untrained to trained; re-training overwrites
// in place.
type MetaLearner struct {
	opts   logisticOptions
	logger *logrus.Logger
	state  atomic.Pointer[metaState]
}

// NewMetaLearner creates an untrained meta-learner.
func NewMetaLearner(logger *logrus.Logger) *MetaLearner {
	return &MetaLearner{opts: defaultLogisticOptions(), logger: logger}
}

// Trained reports whether a training run has completed.
func (m *MetaLearner) Trained() bool {
	return m.state.Load() != nil
}

// Report returns the last training report, or nil when untrained.
func (m *MetaLearner) Report() *TrainingReport {
	state := m.state.Load()
	if state == nil {
		return nil
	}
	report := state.report
	return &report
}

// Train fits the combiner on stacked records and their outcome labels.
// It fails with ErrInsufficientData when the batch is empty or carries no
// base-model signal, and with ErrDegenerateLabels when fewer than 2 classes
// are represented.
func (m *MetaLearner) Train(records []*StackedRecord, labels []int) (*TrainingReport, error) {
	if len(records) == 0 {
		MetaTrainingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: empty training batch", models.ErrInsufficientData)
	}
	if len(records) != len(labels) {
		MetaTrainingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("records (%d) and labels (%d) length mismatch", len(records), len(labels))
	}

	layout := records[0].Layout
	if layout.Width() == 0 {
		MetaTrainingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: no base-model signal in training records", models.ErrInsufficientData)
	}
	usable := 0
	for _, rec := range records {
		if !rec.Empty() {
			usable++
		}
	}
	if usable == 0 {
		MetaTrainingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: every training record is empty", models.ErrInsufficientData)
	}

	classCounts := make(map[int]int)
	for _, label := range labels {
		classCounts[label]++
	}
	if len(classCounts) < 2 {
		MetaTrainingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: got %d", models.ErrDegenerateLabels, len(classCounts))
	}

	X := make([][]float64, len(records))
	for i, rec := range records {
		X[i] = rec.Vector()
	}

	trainIdx, valIdx := stratifiedSplit(labels, 0.2)

	// Scaling statistics come from the training partition and are reused
	// verbatim at inference.
	trainRows := make([][]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainRows[i] = X[idx]
	}
	mean, std := columnStats(trainRows)

	scaled := make([][]float64, len(X))
	for i, row := range X {
		scaled[i] = applyStandardization(row, mean, std)
	}

	// The final model is fitted on the full scaled batch; the held-out
	// partition only feeds the report.
	model := newSoftmaxModel(layout.Classes, layout.Width())
	if err := model.fit(scaled, labels, m.opts); err != nil {
		MetaTrainingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("meta-learner fit: %w", err)
	}

	correct := 0
	for _, idx := range valIdx {
		if model.predictProba(scaled[idx]).ArgMax() == labels[idx] {
			correct++
		}
	}
	accuracy := 0.0
	if len(valIdx) > 0 {
		accuracy = float64(correct) / float64(len(valIdx))
	}

	report := TrainingReport{
		TrainingSamples:    len(trainIdx),
		ValidationSamples:  len(valIdx),
		ValidationAccuracy: accuracy,
		ClassCounts:        classCounts,
		Columns:            layout.Columns(),
		TrainedAt:          time.Now(),
	}

	m.state.Store(&metaState{layout: layout, mean: mean, std: std, model: model, report: report})

	MetaTrainingsTotal.WithLabelValues("success").Inc()
	MetaTrainingAccuracy.Set(accuracy)
	m.logger.WithFields(logrus.Fields{
		"training_samples":    report.TrainingSamples,
		"validation_samples":  report.ValidationSamples,
		"validation_accuracy": report.ValidationAccuracy,
		"columns":             len(report.Columns),
	}).Info("Meta-learner trained")

	return &report, nil
}

// PredictFromRecord evaluates the trained combiner on one stacked record.
// It fails with ErrNotTrained before the first training run and with
// ErrInsufficientData on an empty record.
func (m *MetaLearner) PredictFromRecord(rec *StackedRecord) (models.Distribution, error) {
	state := m.state.Load()
	if state == nil {
		return nil, models.ErrNotTrained
	}
	if rec.Empty() {
		return nil, fmt.Errorf("%w: empty stacked record", models.ErrInsufficientData)
	}
	if rec.Layout.Width() != state.layout.Width() || rec.Layout.Classes != state.layout.Classes {
		return nil, fmt.Errorf("stacked layout changed since training: width %d, trained %d",
			rec.Layout.Width(), state.layout.Width())
	}
	scaled := applyStandardization(rec.Vector(), state.mean, state.std)
	probs := state.model.predictProba(scaled)
	return sanitizeDistribution(probs, state.layout.Classes)
}

// stratifiedSplit partitions sample indices into train/validation sets
// keeping the per-class ratio. Every class keeps at least one training
// sample.
func stratifiedSplit(labels []int, valFraction float64) (train, val []int) {
	byClass := make(map[int][]int)
	classes := make([]int, 0)
	for i, label := range labels {
		if _, seen := byClass[label]; !seen {
			classes = append(classes, label)
		}
		byClass[label] = append(byClass[label], i)
	}

	rng := rand.New(rand.NewSource(splitSeed))
	for _, class := range classes {
		idx := byClass[class]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		nVal := int(float64(len(idx)) * valFraction)
		if nVal >= len(idx) {
			nVal = len(idx) - 1
		}
		val = append(val, idx[:nVal]...)
		train = append(train, idx[nVal:]...)
	}
	return train, val
}
