package models

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/aouyang1/go-pricefactor/feature"
	"github.com/creasty/defaults"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// PriceFactorOptions configures the weight optimization of the price factor regression
type PriceFactorOptions struct {
	// InitialWeight is the starting value of every weight
	InitialWeight float64 `json:"initial_weight" yaml:"initial_weight" default:"0.1"`
	// MaxIterations caps the major iterations of the optimizer
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" default:"1000" validate:"gte=1"`
	// Tolerance is the absolute and relative objective decrease below which an iteration
	// counts as no improvement
	Tolerance float64 `json:"tolerance" yaml:"tolerance" default:"1e-9" validate:"gte=0"`
	// ConvergeIterations is the number of consecutive iterations without improvement before
	// stopping
	ConvergeIterations int `json:"converge_iterations" yaml:"converge_iterations" default:"20" validate:"gte=1"`
}

func NewDefaultPriceFactorOptions() *PriceFactorOptions {
	opt := &PriceFactorOptions{}
	if err := defaults.Set(opt); err != nil {
		panic(err)
	}
	return opt
}

// FitStatus records how the optimizer terminated
type FitStatus struct {
	Status          string  `json:"status"`
	Converged       bool    `json:"converged"`
	Iterations      int     `json:"iterations"`
	FuncEvaluations int     `json:"func_evaluations"`
	Objective       float64 `json:"objective"`
}

// PriceFactorRegression models ADR as (1 + Σ w_i·x_i)·BaseRate where BaseRate is the mean
// ADR of the training rows. Weights minimize the mean absolute error of the predicted ADR.
type PriceFactorRegression struct {
	opt      *PriceFactorOptions
	labels   *feature.Labels
	weights  []float64
	baseRate float64
	status   FitStatus
	trained  bool
}

// NewPriceFactorRegression creates an unfit regression over the ordered features
func NewPriceFactorRegression(features []feature.Feature, opt *PriceFactorOptions) (*PriceFactorRegression, error) {
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	if opt == nil {
		opt = NewDefaultPriceFactorOptions()
	}
	return &PriceFactorRegression{
		opt:    opt,
		labels: feature.NewLabels(slices.Clone(features)),
	}, nil
}

// NewPriceFactorFromModel restores a fit regression from its serialized model
func NewPriceFactorFromModel(m Model) (*PriceFactorRegression, error) {
	labels, err := m.Weights.FeatureLabels()
	if err != nil {
		return nil, fmt.Errorf("unable to restore feature labels, %w", err)
	}
	p, err := NewPriceFactorRegression(labels, m.Options)
	if err != nil {
		return nil, err
	}
	p.weights = m.Weights.Coefficients()
	p.baseRate = m.BaseRate
	p.status = m.Fit
	p.trained = true
	return p, nil
}

func (p *PriceFactorRegression) fitValidate(x mat.Matrix, y []float64) (int, int, error) {
	if p.opt == nil {
		return 0, 0, ErrNoOptions
	}
	if x == nil {
		return 0, 0, ErrNoTrainingArray
	}
	if len(y) == 0 {
		return 0, 0, ErrNoTargetArray
	}
	m, n := x.Dims()
	if m != len(y) {
		return 0, 0, fmt.Errorf("training data has %d rows and target has %d rows, %w", m, len(y), ErrTargetLenMismatch)
	}
	if n != p.labels.Len() {
		return 0, 0, fmt.Errorf("got %d features in training data, but expected %d, %w", n, p.labels.Len(), ErrFeatureLenMismatch)
	}
	return m, n, nil
}

// Fit computes the base rate from y and minimizes the mean absolute error of the predicted
// ADR with L-BFGS starting from the initial weight. Stopping at the iteration cap or on a
// failed line search keeps the best weights found.
func (p *PriceFactorRegression) Fit(x mat.Matrix, y []float64) error {
	m, n, err := p.fitValidate(x, y)
	if err != nil {
		return err
	}

	baseRate := mean(y)
	if baseRate == 0 {
		return ErrZeroBaseRate
	}

	rows := make([][]float64, m)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}
	invM := 1.0 / float64(m)

	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			var sum float64
			for i, row := range rows {
				sum += math.Abs((1+floats.Dot(row, w))*baseRate - y[i])
			}
			return sum * invM
		},
		Grad: func(grad, w []float64) {
			for j := range grad {
				grad[j] = 0
			}
			for i, row := range rows {
				r := (1+floats.Dot(row, w))*baseRate - y[i]
				switch {
				case r > 0:
					floats.AddScaled(grad, baseRate, row)
				case r < 0:
					floats.AddScaled(grad, -baseRate, row)
				}
			}
			floats.Scale(invM, grad)
		},
	}

	x0 := make([]float64, n)
	floats.AddConst(p.opt.InitialWeight, x0)

	settings := &optimize.Settings{
		GradientThreshold: 1e-12,
		MajorIterations:   p.opt.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   p.opt.Tolerance,
			Relative:   p.opt.Tolerance,
			Iterations: p.opt.ConvergeIterations,
		},
	}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if res == nil {
		return fmt.Errorf("%w, %w", ErrOptimize, err)
	}

	converged := res.Status == optimize.FunctionConvergence ||
		res.Status == optimize.GradientThreshold ||
		res.Status == optimize.MethodConverge
	if err != nil || !converged {
		slog.Warn("price factor optimization did not converge, keeping best weights",
			"status", res.Status.String(),
			"iterations", res.MajorIterations,
			"objective", res.F,
			"error", err,
		)
	}

	p.weights = slices.Clone(res.X)
	p.baseRate = baseRate
	p.status = FitStatus{
		Status:          res.Status.String(),
		Converged:       err == nil && converged,
		Iterations:      res.MajorIterations,
		FuncEvaluations: res.FuncEvaluations,
		Objective:       res.F,
	}
	p.trained = true
	return nil
}

// Factor returns the price factor 1 + Σ w_i·x_i of every row of x
func (p *PriceFactorRegression) Factor(x mat.Matrix) ([]float64, error) {
	if !p.trained {
		return nil, ErrUntrained
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if n != len(p.weights) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, len(p.weights), ErrFeatureLenMismatch)
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(n, slices.Clone(p.weights)))
	factor := make([]float64, m)
	for i := range factor {
		factor[i] = 1 + res.AtVec(i)
	}
	return factor, nil
}

// Predict returns the predicted ADR, the price factor times the base rate, of every row of x
func (p *PriceFactorRegression) Predict(x mat.Matrix) ([]float64, error) {
	factor, err := p.Factor(x)
	if err != nil {
		return nil, err
	}
	floats.Scale(p.baseRate, factor)
	return factor, nil
}

// BaseRate returns the mean ADR of the training rows
func (p *PriceFactorRegression) BaseRate() float64 {
	return p.baseRate
}

// Coef returns a copy of the weights in feature order
func (p *PriceFactorRegression) Coef() []float64 {
	return slices.Clone(p.weights)
}

// Status returns how the last fit terminated
func (p *PriceFactorRegression) Status() FitStatus {
	return p.status
}

// Weights returns the weights named by their feature in feature order
func (p *PriceFactorRegression) Weights() Weights {
	labels := p.labels.Labels()
	fws := make([]FeatureWeight, 0, len(p.weights))
	for i, w := range p.weights {
		fws = append(fws, NewFeatureWeight(labels[i], w))
	}
	return Weights{Coef: fws}
}

// Model returns the serializable format of the fit regression
func (p *PriceFactorRegression) Model() (Model, error) {
	if p == nil || !p.trained {
		return Model{}, ErrUntrained
	}
	return Model{
		BaseRate: p.baseRate,
		Weights:  p.Weights(),
		Fit:      p.status,
		Options:  p.opt,
	}, nil
}
