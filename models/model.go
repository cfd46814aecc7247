// Package models contains the price factor regression fit against ADR and the constant
// mean baseline it is evaluated against.
package models

import (
	"fmt"

	"github.com/aouyang1/go-pricefactor/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Regressor predicts an ADR for every row of a design matrix
type Regressor interface {
	Fit(x mat.Matrix, y []float64) error
	Predict(x mat.Matrix) ([]float64, error)
}

// ConstantRegression predicts the mean of the training target for every row
type ConstantRegression struct {
	mean    float64
	trained bool
}

func NewConstantRegression() *ConstantRegression {
	return &ConstantRegression{}
}

func (c *ConstantRegression) Fit(x mat.Matrix, y []float64) error {
	if len(y) == 0 {
		return ErrNoTargetArray
	}
	if x != nil {
		m, _ := x.Dims()
		if m != len(y) {
			return fmt.Errorf("training data has %d rows and target has %d rows, %w", m, len(y), ErrTargetLenMismatch)
		}
	}
	c.mean = mean(y)
	c.trained = true
	return nil
}

func (c *ConstantRegression) Predict(x mat.Matrix) ([]float64, error) {
	if !c.trained {
		return nil, ErrUntrained
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, _ := x.Dims()
	return stats.Constant(m, c.mean), nil
}

// Mean returns the fitted constant
func (c *ConstantRegression) Mean() float64 {
	return c.mean
}

// Score predicts the rows of x and scores the predictions against y
func Score(r Regressor, x mat.Matrix, y []float64) (*stats.Scores, error) {
	pred, err := r.Predict(x)
	if err != nil {
		return nil, err
	}
	scores, err := stats.NewScores(pred, y)
	if err != nil {
		return nil, fmt.Errorf("unable to score predictions, %w", err)
	}
	return scores, nil
}

// Evaluation holds the scores of a model and of the constant mean baseline on the same rows
type Evaluation struct {
	Rows     int           `json:"rows"`
	Model    *stats.Scores `json:"model"`
	Baseline *stats.Scores `json:"baseline"`
}

// Evaluate scores the model and the baseline on the rows of x
func Evaluate(model, baseline Regressor, x mat.Matrix, y []float64) (*Evaluation, error) {
	ms, err := Score(model, x, y)
	if err != nil {
		return nil, fmt.Errorf("unable to score model, %w", err)
	}
	bs, err := Score(baseline, x, y)
	if err != nil {
		return nil, fmt.Errorf("unable to score baseline, %w", err)
	}
	return &Evaluation{
		Rows:     len(y),
		Model:    ms,
		Baseline: bs,
	}, nil
}

func mean(y []float64) float64 {
	return stat.Mean(y, nil)
}
