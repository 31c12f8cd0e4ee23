package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
)

func TestCompute_KnownSeries(t *testing.T) {
	// Hand-checked battery over [100, 150, 200, 250].
	res, err := Compute([]float64{100, 150, 200, 250})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Count)
	assert.Equal(t, 175.0, res.Mean)
	assert.InDelta(t, 55.90, res.StdDev, 0.01)
	assert.Equal(t, 100.0, res.Min)
	assert.Equal(t, 250.0, res.Max)
	assert.Equal(t, 150.0, res.Range)
	assert.Equal(t, 137.5, res.Q1)
	assert.Equal(t, 175.0, res.Median)
	assert.Equal(t, 212.5, res.Q3)
	assert.Equal(t, 75.0, res.IQR)
	require.True(t, res.PctChangeDefined)
	assert.Equal(t, 150.0, res.PctChange)
}

func TestCompute_InsufficientData(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {5}} {
		_, err := Compute(values)
		require.Error(t, err)
		assert.True(t, apperrors.IsInsufficientData(err))
	}
}

func TestCompute_ZeroBasePercentChange(t *testing.T) {
	// A zero first value must degrade percent change to undefined, not fail
	// the whole computation.
	res, err := Compute([]float64{0, 50})
	require.NoError(t, err)

	assert.False(t, res.PctChangeDefined)
	assert.Equal(t, 25.0, res.Mean)
	assert.Equal(t, 50.0, res.Range)
}

func TestCompute_Identities(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"two points", []float64{3, 9}},
		{"unsorted input", []float64{9, 1, 5, 3, 7}},
		{"duplicates", []float64{10, 10, 10, 20}},
		{"prices", []float64{263000, 265500, 270250, 268000, 274000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.values)
			require.NoError(t, err)

			assert.Equal(t, res.Range, res.Max-res.Min)
			assert.Equal(t, res.IQR, res.Q3-res.Q1)
			assert.GreaterOrEqual(t, res.Max, res.Mean)
			assert.LessOrEqual(t, res.Min, res.Mean)
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	values := []float64{100, 150, 200, 250, 225}

	first, err := Compute(values)
	require.NoError(t, err)
	second, err := Compute(values)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	values := []float64{9, 1, 5}
	_, err := Compute(values)
	require.NoError(t, err)

	assert.Equal(t, []float64{9, 1, 5}, values)
}

func TestCompute_MedianEvenOdd(t *testing.T) {
	res, err := Compute([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2.5, res.Median)

	res, err = Compute([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Median)
	assert.Equal(t, 2.0, res.Q1)
	assert.Equal(t, 4.0, res.Q3)
}

func TestPercentChange(t *testing.T) {
	pct, err := PercentChange(100, 250)
	require.NoError(t, err)
	assert.Equal(t, 150.0, pct)

	pct, err = PercentChange(200, 150)
	require.NoError(t, err)
	assert.Equal(t, -25.0, pct)

	_, err = PercentChange(0, 50)
	require.Error(t, err)
	assert.True(t, apperrors.IsDivisionByZero(err))
}
