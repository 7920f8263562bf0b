package models

import "fmt"

// FeatureVector is a fixed-order numeric record produced by feature
// engineering. It is immutable once built; every base model consumes the
// same ordered fields for a given sport/model version.
type FeatureVector struct {
	names  []string
	values []float64
	index  map[string]int
}

// NewFeatureVector builds a feature vector from parallel name/value slices.
// The slices are copied so callers cannot mutate the vector afterwards.
func NewFeatureVector(names []string, values []float64) (*FeatureVector, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("feature names (%d) and values (%d) length mismatch", len(names), len(values))
	}
	fv := &FeatureVector{
		names:  make([]string, len(names)),
		values: make([]float64, len(values)),
		index:  make(map[string]int, len(names)),
	}
	copy(fv.names, names)
	copy(fv.values, values)
	for i, name := range fv.names {
		if _, exists := fv.index[name]; exists {
			return nil, fmt.Errorf("duplicate feature name %q", name)
		}
		fv.index[name] = i
	}
	return fv, nil
}

// Len returns the number of fields.
func (fv *FeatureVector) Len() int {
	return len(fv.values)
}

// Names returns a copy of the ordered field names.
func (fv *FeatureVector) Names() []string {
	out := make([]string, len(fv.names))
	copy(out, fv.names)
	return out
}

// Values returns a copy of the ordered field values.
func (fv *FeatureVector) Values() []float64 {
	out := make([]float64, len(fv.values))
	copy(out, fv.values)
	return out
}

// Value returns the value of a named field.
func (fv *FeatureVector) Value(name string) (float64, bool) {
	i, ok := fv.index[name]
	if !ok {
		return 0, false
	}
	return fv.values[i], true
}
