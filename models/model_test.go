package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestConstantRegression(t *testing.T) {
	c := NewConstantRegression()
	_, err := c.Predict(mat.NewDense(1, 1, nil))
	assert.ErrorIs(t, err, ErrUntrained)

	x := mat.NewDense(4, 1, nil)
	require.NoError(t, c.Fit(x, []float64{1, 2, 3, 6}))
	assert.Equal(t, 3.0, c.Mean())

	pred, err := c.Predict(mat.NewDense(2, 3, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3}, pred)

	_, err = c.Predict(nil)
	assert.ErrorIs(t, err, ErrNoDesignMatrix)

	assert.ErrorIs(t, c.Fit(x, nil), ErrNoTargetArray)
	assert.ErrorIs(t, c.Fit(x, []float64{1}), ErrTargetLenMismatch)
}

func TestEvaluate(t *testing.T) {
	x, y := priceData([]float64{0.05, 0.02, 0.1, 0.3})

	p, err := NewPriceFactorRegression(testFeatures(), nil)
	require.NoError(t, err)
	require.NoError(t, p.Fit(x, y))

	baseline := NewConstantRegression()
	require.NoError(t, baseline.Fit(x, y))

	eval, err := Evaluate(p, baseline, x, y)
	require.NoError(t, err)
	assert.Equal(t, len(y), eval.Rows)
	require.NotNil(t, eval.Model)
	require.NotNil(t, eval.Baseline)
	assert.InDelta(t, 0.0, eval.Baseline.R2, 1e-9)
	assert.InDelta(t, p.Status().Objective, eval.Model.MAE, 1e-6)
	assert.InDelta(t, eval.Model.MSE, eval.Model.RMSE*eval.Model.RMSE, 1e-9)

	_, err = Evaluate(untrained(t), baseline, x, y)
	assert.ErrorIs(t, err, ErrUntrained)
}

func untrained(t *testing.T) *PriceFactorRegression {
	t.Helper()
	p, err := NewPriceFactorRegression(testFeatures(), nil)
	require.NoError(t, err)
	return p
}
