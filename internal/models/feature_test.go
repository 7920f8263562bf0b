package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeatureVector(t *testing.T) {
	fv, err := NewFeatureVector([]string{"a", "b"}, []float64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, 2, fv.Len())
	assert.Equal(t, []string{"a", "b"}, fv.Names())
	assert.Equal(t, []float64{1, 2}, fv.Values())

	v, ok := fv.Value("b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	_, ok = fv.Value("missing")
	assert.False(t, ok)
}

func TestNewFeatureVectorRejectsMismatch(t *testing.T) {
	_, err := NewFeatureVector([]string{"a"}, []float64{1, 2})
	assert.Error(t, err)
}

func TestNewFeatureVectorRejectsDuplicates(t *testing.T) {
	_, err := NewFeatureVector([]string{"a", "a"}, []float64{1, 2})
	assert.Error(t, err)
}

func TestFeatureVectorImmutable(t *testing.T) {
	names := []string{"a", "b"}
	values := []float64{1, 2}
	fv, err := NewFeatureVector(names, values)
	require.NoError(t, err)

	// Mutating the inputs or the accessor outputs never touches the vector.
	names[0] = "x"
	values[0] = 99
	fv.Values()[1] = 99
	fv.Names()[1] = "y"

	assert.Equal(t, []string{"a", "b"}, fv.Names())
	assert.Equal(t, []float64{1, 2}, fv.Values())
}
