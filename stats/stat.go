// Package stats contains the descriptive statistics used to judge anomalous rows and the
// scores used to evaluate fitted models.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the descriptive statistics of a numeric column ignoring NaNs
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// DropNaN returns a copy of y without NaN values
func DropNaN(y []float64) []float64 {
	res := make([]float64, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		res = append(res, v)
	}
	return res
}

// Describe computes the count, mean, sample standard deviation, min, quartiles and max of
// y. NaNs are skipped. An empty input returns a zero count with NaN statistics.
func Describe(y []float64) Summary {
	vals := DropNaN(y)
	if len(vals) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}
	sort.Float64s(vals)

	mean, std := stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		std = 0
	}
	return Summary{
		Count:  len(vals),
		Mean:   mean,
		Std:    std,
		Min:    vals[0],
		Q1:     stat.Quantile(0.25, stat.LinInterp, vals, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, vals, nil),
		Q3:     stat.Quantile(0.75, stat.LinInterp, vals, nil),
		Max:    vals[len(vals)-1],
	}
}

// Shift returns the relative change from before to after. When before is zero the absolute
// difference is returned instead.
func Shift(before, after float64) float64 {
	if math.IsNaN(before) && math.IsNaN(after) {
		return 0
	}
	diff := math.Abs(after - before)
	if before == 0 {
		return diff
	}
	return diff / math.Abs(before)
}

// ZeroVariance returns true if every non NaN value in y is identical. Inputs with fewer than
// two values are considered to have zero variance.
func ZeroVariance(y []float64) bool {
	var first float64
	var seen bool
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		if !seen {
			first = v
			seen = true
			continue
		}
		if v != first {
			return false
		}
	}
	return true
}

// DetectOutliers returns the indexes of y outside of the Tukey fence built from the lower and
// upper percentiles widened by tukeyFactor times the inner range. NaNs are never outliers.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := DropNaN(y)
	if len(yCopy) == 0 {
		return nil
	}
	sort.Float64s(yCopy)
	lower := stat.Quantile(lowerPerc, stat.LinInterp, yCopy, nil)
	upper := stat.Quantile(upperPerc, stat.LinInterp, yCopy, nil)
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			continue
		}
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
