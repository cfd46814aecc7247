package feature

import (
	"slices"
)

// Levels returns the distinct values in ascending order
func Levels(values []string) []string {
	levels := slices.Clone(values)
	slices.Sort(levels)
	return slices.Compact(levels)
}

// Codes maps every value onto the index of its level. Values not found in levels are coded
// as -1.
func Codes(values, levels []string) []float64 {
	idx := make(map[string]int, len(levels))
	for i, l := range levels {
		idx[l] = i
	}
	codes := make([]float64, len(values))
	for i, v := range values {
		code, exists := idx[v]
		if !exists {
			code = -1
		}
		codes[i] = float64(code)
	}
	return codes
}

// Bools converts flags into 0/1 observations
func Bools(flags []bool) []float64 {
	res := make([]float64, len(flags))
	for i, f := range flags {
		if f {
			res[i] = 1
		}
	}
	return res
}

// Ints converts counts into observations
func Ints(vals []int) []float64 {
	res := make([]float64, len(vals))
	for i, v := range vals {
		res[i] = float64(v)
	}
	return res
}
