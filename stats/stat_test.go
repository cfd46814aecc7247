package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, math.NaN(), 1, 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.LessOrEqual(t, s.Q1, s.Median)
	assert.LessOrEqual(t, s.Median, s.Q3)

	empty := Describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))

	single := Describe([]float64{7})
	assert.Equal(t, 0.0, single.Std)
	assert.Equal(t, 7.0, single.Median)
}

func TestShift(t *testing.T) {
	testData := map[string]struct {
		before   float64
		after    float64
		expected float64
	}{
		"no change":   {before: 10, after: 10, expected: 0},
		"relative":    {before: 10, after: 11, expected: 0.1},
		"negative":    {before: -10, after: -9, expected: 0.1},
		"zero before": {before: 0, after: 0.5, expected: 0.5},
		"both nan":    {before: math.NaN(), after: math.NaN(), expected: 0},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, Shift(td.before, td.after), 1e-9)
		})
	}
}

func TestZeroVariance(t *testing.T) {
	assert.True(t, ZeroVariance(nil))
	assert.True(t, ZeroVariance([]float64{3}))
	assert.True(t, ZeroVariance([]float64{3, math.NaN(), 3}))
	assert.False(t, ZeroVariance([]float64{3, 3, 4}))
}

func TestDetectOutliers(t *testing.T) {
	y := []float64{10, 11, 9, 10, 12, 10, 11, 500, math.NaN(), -300}
	idx := DetectOutliers(y, 0.25, 0.75, 1.5)
	assert.Equal(t, []int{7, 9}, idx)

	assert.Nil(t, DetectOutliers([]float64{math.NaN()}, 0.25, 0.75, 1.5))
}

func TestScores(t *testing.T) {
	actual := []float64{1, 2, 3, 4}
	predicted := []float64{1, 2, 3, 6}

	scores, err := NewScores(predicted, actual)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scores.MAE, 1e-9)
	assert.InDelta(t, 1.0, scores.MSE, 1e-9)
	assert.InDelta(t, 1.0, scores.RMSE, 1e-9)
	assert.InDelta(t, 0.2, scores.R2, 1e-9)

	perfect, err := NewScores(actual, actual)
	require.NoError(t, err)
	assert.Equal(t, 0.0, perfect.MAE)
	assert.InDelta(t, 1.0, perfect.R2, 1e-9)

	baseline, err := NewScores(Constant(4, 2.5), actual)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, baseline.R2, 1e-9)
}

func TestScoresErrors(t *testing.T) {
	_, err := NewScores([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrResLenMismatch)

	_, err = NewScores([]float64{math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestRSquaredConstantActual(t *testing.T) {
	r2, err := RSquared([]float64{5, 5}, []float64{5, 5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, r2)

	r2, err = RSquared([]float64{4, 6}, []float64{5, 5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r2)
}
