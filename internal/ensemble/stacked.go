package ensemble

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

// StackLayout fixes the column order of stacked records: for every adapter,
// K weight-scaled class probabilities followed by the weight-scaled hard
// prediction. The layout recorded at training time is reused verbatim at
// inference so column positions never shift.
type StackLayout struct {
	Adapters []string `json:"adapters"`
	Classes  int      `json:"classes"`
}

// Width returns the flattened vector width.
func (l StackLayout) Width() int {
	return len(l.Adapters) * (l.Classes + 1)
}

// Columns returns the namespaced column names in layout order.
func (l StackLayout) Columns() []string {
	cols := make([]string, 0, l.Width())
	for _, name := range l.Adapters {
		for c := 0; c < l.Classes; c++ {
			cols = append(cols, fmt.Sprintf("%s_class_%d_proba", name, c))
		}
		cols = append(cols, fmt.Sprintf("%s_class_pred", name))
	}
	return cols
}

// StackedRecord is the per-prediction record of base model outputs. Blocks
// for adapters that were skipped or failed stay zeroed with Present=false;
// Individual keeps the unscaled distributions for the confidence scorer.
type StackedRecord struct {
	Layout     StackLayout
	Probas     [][]float64 // weight-scaled, one row per adapter
	Preds      []float64   // weight-scaled hard predictions
	Present    []bool
	Individual []models.Distribution // unscaled, present adapters only
}

// Empty reports whether no adapter contributed to the record.
func (r *StackedRecord) Empty() bool {
	for _, p := range r.Present {
		if p {
			return false
		}
	}
	return true
}

// ContributorCount returns how many adapters contributed.
func (r *StackedRecord) ContributorCount() int {
	n := 0
	for _, p := range r.Present {
		if p {
			n++
		}
	}
	return n
}

// Vector flattens the record in layout order.
func (r *StackedRecord) Vector() []float64 {
	out := make([]float64, 0, r.Layout.Width())
	for i := range r.Layout.Adapters {
		out = append(out, r.Probas[i]...)
		out = append(out, r.Preds[i])
	}
	return out
}

// Aggregator turns one feature vector into a stacked record using a registry
// snapshot. Failures are confined to the failing adapter: the call logs,
// zeroes that adapter's block and keeps going.
type Aggregator struct {
	logger *logrus.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *logrus.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Layout derives the stacked layout from a registry snapshot. All registered
// adapters occupy a block, ready or not, so records built from successive
// snapshots of the same registry stay aligned.
func (a *Aggregator) Layout(snap *Snapshot) StackLayout {
	entries := snap.Entries()
	layout := StackLayout{Adapters: make([]string, 0, len(entries))}
	for _, e := range entries {
		if layout.Classes == 0 {
			layout.Classes = e.Model.Classes()
		}
		if e.Model.Classes() != layout.Classes {
			a.logger.WithFields(logrus.Fields{
				"adapter": e.Name,
				"classes": e.Model.Classes(),
				"want":    layout.Classes,
			}).Error("Adapter class count mismatch, excluded from layout")
			continue
		}
		layout.Adapters = append(layout.Adapters, e.Name)
	}
	return layout
}

// BuildStacked obtains every ready adapter's probability vector and hard
// prediction, scales each contributed field by the adapter's registered
// weight and writes it into the record under the adapter's block. An adapter
// failing mid-call is excluded from this record only; it is not disabled for
// future calls. With zero ready adapters the returned record is empty and
// downstream components treat it as "no base-model signal".
func (a *Aggregator) BuildStacked(snap *Snapshot, fv *models.FeatureVector) *StackedRecord {
	layout := a.Layout(snap)
	rec := &StackedRecord{
		Layout:  layout,
		Probas:  make([][]float64, len(layout.Adapters)),
		Preds:   make([]float64, len(layout.Adapters)),
		Present: make([]bool, len(layout.Adapters)),
	}
	for i := range rec.Probas {
		rec.Probas[i] = make([]float64, layout.Classes)
	}

	for i, name := range layout.Adapters {
		entry := snap.entries[snap.index[name]]
		model := entry.Model
		if !model.Ready() {
			AdapterSkippedTotal.WithLabelValues(name).Inc()
			a.logger.WithField("adapter", name).Debug("Adapter not ready, skipping")
			continue
		}

		probs, err := model.PredictProbabilities(fv)
		if err != nil {
			AdapterFailuresTotal.WithLabelValues(name).Inc()
			a.logger.WithError(err).WithField("adapter", name).Error("Adapter prediction failed, excluded from record")
			continue
		}
		pred, err := model.Predict(fv)
		if err != nil {
			AdapterFailuresTotal.WithLabelValues(name).Inc()
			a.logger.WithError(err).WithField("adapter", name).Error("Adapter hard prediction failed, excluded from record")
			continue
		}

		weight := entry.Weight
		for c, p := range probs {
			rec.Probas[i][c] = p * weight
		}
		rec.Preds[i] = float64(pred) * weight
		rec.Present[i] = true
		rec.Individual = append(rec.Individual, probs)
		AdapterPredictionsTotal.WithLabelValues(name).Inc()
	}

	return rec
}
