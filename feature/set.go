package feature

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrLenMismatch     = errors.New("feature data length does not match the set")
	ErrUnknownFeature  = errors.New("unknown feature")
	ErrIndexOutOfRange = errors.New("row index out of range")
)

// Set holds the data of each feature keyed by its string representation. Features keep
// the order they were first set in.
type Set struct {
	m      int
	set    map[string][]float64
	labels []Feature
}

func NewSet() *Set {
	return &Set{
		set: make(map[string][]float64),
	}
}

// Len returns the number of observations of every feature
func (s *Set) Len() int {
	return s.m
}

// Set stores the data of a feature, replacing any previous data of the same feature. All
// features of a set have the same number of observations.
func (s *Set) Set(f Feature, data []float64) error {
	if len(s.labels) > 0 && len(data) != s.m {
		return fmt.Errorf("%s has %d observations and the set %d, %w", f, len(data), s.m, ErrLenMismatch)
	}
	if s.set == nil {
		s.set = make(map[string][]float64)
	}
	key := f.String()
	if _, exists := s.set[key]; !exists {
		s.labels = append(s.labels, f)
	}
	s.set[key] = data
	s.m = len(data)
	return nil
}

// Get returns the data of a feature
func (s *Set) Get(f Feature) ([]float64, bool) {
	data, exists := s.set[f.String()]
	return data, exists
}

// Lookup returns the feature with the given string representation
func (s *Set) Lookup(name string) (Feature, bool) {
	if _, exists := s.set[name]; !exists {
		return nil, false
	}
	for _, l := range s.labels {
		if l.String() == name {
			return l, true
		}
	}
	return nil, false
}

// Del removes a feature from the set
func (s *Set) Del(f Feature) *Set {
	key := f.String()
	if _, exists := s.set[key]; !exists {
		return s
	}
	delete(s.set, key)
	s.labels = slices.DeleteFunc(s.labels, func(l Feature) bool {
		return l.String() == key
	})
	if len(s.labels) == 0 {
		s.m = 0
	}
	return s
}

// Labels returns the tracked features in insertion order
func (s *Set) Labels() *Labels {
	return NewLabels(slices.Clone(s.labels))
}

// Matrix returns the set as a matrix with a row per observation and a column per feature
// in label order, optionally prefixed with an intercept column of ones.
func (s *Set) Matrix(intercept bool) *mat.Dense {
	return s.matrix(s.labels, intercept)
}

// Columns returns the matrix of the named features in the given order
func (s *Set) Columns(features ...Feature) (*mat.Dense, error) {
	for _, f := range features {
		if _, exists := s.set[f.String()]; !exists {
			return nil, fmt.Errorf("%s, %w", f, ErrUnknownFeature)
		}
	}
	return s.matrix(features, false), nil
}

func (s *Set) matrix(labels []Feature, intercept bool) *mat.Dense {
	n := len(labels)
	if intercept {
		n++
	}
	if n == 0 || s.m == 0 {
		return nil
	}

	obs := make([]float64, s.m*n)
	featNum := 0
	if intercept {
		for i := 0; i < s.m; i++ {
			obs[n*i] = 1.0
		}
		featNum++
	}
	for _, label := range labels {
		data := s.set[label.String()]
		for i := 0; i < len(data); i++ {
			obs[n*i+featNum] = data[i]
		}
		featNum++
	}
	return mat.NewDense(s.m, n, obs)
}

// Subset returns a new set with the observations at the given row indexes
func (s *Set) Subset(idx []int) (*Set, error) {
	res := NewSet()
	for _, label := range s.labels {
		src := s.set[label.String()]
		data := make([]float64, len(idx))
		for i, j := range idx {
			if j < 0 || j >= s.m {
				return nil, fmt.Errorf("index %d with %d observations, %w", j, s.m, ErrIndexOutOfRange)
			}
			data[i] = src[j]
		}
		if err := res.Set(label, data); err != nil {
			return nil, err
		}
	}
	return res, nil
}
