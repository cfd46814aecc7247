package feature

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCyclicalString(t *testing.T) {
	feat := NewCyclical("StayDateMonth", FourierCompCos, PeriodMonth)
	assert.Equal(t, "StayDateMonth_cos", feat.String())
	assert.Equal(t, FeatureTypeCyclical, feat.Type())
	assert.Equal(t, "cyclical", feat.Type().String())
}

func TestCyclicalGet(t *testing.T) {
	feat := NewCyclical("DayOfWeek", FourierCompSin, PeriodDayOfWeek)

	testData := map[string]struct {
		label     string
		expVal    string
		expExists bool
	}{
		"unknown": {
			label: "unknown",
		},
		"capitalized": {
			label:     "NAME",
			expVal:    "DayOfWeek",
			expExists: true,
		},
		"fourier component": {
			label:     "fourier_component",
			expVal:    "sin",
			expExists: true,
		},
		"period": {
			label:     "period",
			expVal:    "7",
			expExists: true,
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			val, exists := feat.Get(td.label)
			assert.Equal(t, td.expExists, exists, "exists")
			assert.Equal(t, td.expVal, val, "value")
		})
	}
}

func TestCyclicalJSON(t *testing.T) {
	feat := NewCyclical("ArrivalDateWeekNumber", FourierCompSin, PeriodWeek)
	out, err := json.Marshal(feat)
	require.NoError(t, err)

	var res Cyclical
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, *feat, res)

	decoded, err := json.Marshal(feat.Decode())
	require.NoError(t, err)
	var fromDecoded Cyclical
	require.NoError(t, json.Unmarshal(decoded, &fromDecoded))
	assert.Equal(t, *feat, fromDecoded)
}

func TestEncode(t *testing.T) {
	testData := map[string]struct {
		value  int
		period int
		sin    float64
		cos    float64
	}{
		"zero":           {value: 0, period: PeriodMonth, sin: 0, cos: 1},
		"quarter":        {value: 3, period: PeriodMonth, sin: 1, cos: 0},
		"half":           {value: 6, period: PeriodMonth, sin: 0, cos: -1},
		"month wraps":    {value: 12, period: PeriodMonth, sin: 0, cos: 1},
		"week wraps":     {value: 53, period: PeriodWeek, sin: 0, cos: 1},
		"day wraps":      {value: 31, period: PeriodDayOfMonth, sin: 0, cos: 1},
		"weekday wraps":  {value: 6, period: PeriodDayOfWeek, sin: 0, cos: 1},
		"wednesday":      {value: 2, period: PeriodDayOfWeek, sin: math.Sin(2 * math.Pi / 3), cos: -0.5},
		"three quarters": {value: 9, period: PeriodMonth, sin: -1, cos: 0},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			sin, cos := Encode(td.value, td.period)
			assert.InDelta(t, td.sin, sin, 1e-9)
			assert.InDelta(t, td.cos, cos, 1e-9)
		})
	}
}

func TestEncodeAdjacency(t *testing.T) {
	// december sits as close to january as january to february
	s12, c12 := Encode(12, PeriodMonth)
	s1, c1 := Encode(1, PeriodMonth)
	s2, c2 := Encode(2, PeriodMonth)
	d121 := math.Hypot(s12-s1, c12-c1)
	d12 := math.Hypot(s1-s2, c1-c2)
	assert.InDelta(t, d12, d121, 1e-9)
}

func TestEncodeWrapAround(t *testing.T) {
	testData := map[string]struct {
		max    int
		period int
	}{
		"month":        {max: 12, period: PeriodMonth},
		"week":         {max: 53, period: PeriodWeek},
		"day of month": {max: 31, period: PeriodDayOfMonth},
		"day of week":  {max: 6, period: PeriodDayOfWeek},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			sMax, cMax := Encode(td.max, td.period)
			s0, c0 := Encode(0, td.period)
			assert.InDelta(t, 0.0, math.Hypot(sMax-s0, cMax-c0), 1e-9)
		})
	}
}

func TestEncodeAll(t *testing.T) {
	sin, cos, err := EncodeAll([]int{0, 6}, PeriodMonth)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0}, sin, 1e-9)
	assert.InDeltaSlice(t, []float64{1, -1}, cos, 1e-9)

	_, _, err = EncodeAll([]int{1}, 0)
	assert.ErrorIs(t, err, ErrNonPositivePeriod)
}

func TestSet(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Set(NewIndicator("IsHoliday"), []float64{1, 0, 1}))
	require.NoError(t, s.Set(NewNumeric("Adults"), []float64{2, 1, 3}))
	require.NoError(t, s.SetCyclical("StayDateMonth", []int{12, 3, 6}, PeriodMonth))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"IsHoliday", "Adults", "StayDateMonth_sin", "StayDateMonth_cos"}, s.Labels().Names())

	err := s.Set(NewIndicator("IsNearHoliday"), []float64{1})
	assert.ErrorIs(t, err, ErrLenMismatch)

	// override keeps the position of the feature
	require.NoError(t, s.Set(NewIndicator("IsHoliday"), []float64{0, 0, 1}))
	idx, exists := s.Labels().Index(NewIndicator("IsHoliday"))
	assert.True(t, exists)
	assert.Equal(t, 0, idx)

	data, exists := s.Get(NewNumeric("Adults"))
	require.True(t, exists)
	assert.Equal(t, []float64{2, 1, 3}, data)

	s.Del(NewNumeric("Adults"))
	_, exists = s.Get(NewNumeric("Adults"))
	assert.False(t, exists)
	assert.Equal(t, 3, s.Labels().Len())
}

func TestSetMatrix(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Set(NewIndicator("a"), []float64{1, 2}))
	require.NoError(t, s.Set(NewIndicator("b"), []float64{3, 4}))

	testData := map[string]struct {
		intercept bool
		expected  *mat.Dense
	}{
		"no intercept": {
			expected: mat.NewDense(2, 2, []float64{1, 3, 2, 4}),
		},
		"intercept": {
			intercept: true,
			expected:  mat.NewDense(2, 3, []float64{1, 1, 3, 1, 2, 4}),
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, s.Matrix(td.intercept))
		})
	}

	cols, err := s.Columns(NewIndicator("b"), NewIndicator("a"))
	require.NoError(t, err)
	assert.Equal(t, mat.NewDense(2, 2, []float64{3, 1, 4, 2}), cols)

	_, err = s.Columns(NewIndicator("c"))
	assert.ErrorIs(t, err, ErrUnknownFeature)

	assert.Nil(t, NewSet().Matrix(false))
}

func TestSetSubset(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Set(NewNumeric("x"), []float64{10, 20, 30, 40}))
	sub, err := s.Subset([]int{3, 1})
	require.NoError(t, err)
	data, _ := sub.Get(NewNumeric("x"))
	assert.Equal(t, []float64{40, 20}, data)
	assert.Equal(t, 2, sub.Len())

	_, err = s.Subset([]int{4})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCodes(t *testing.T) {
	values := []string{"BB", "HB", "BB", "SC"}
	levels := Levels(values)
	assert.Equal(t, []string{"BB", "HB", "SC"}, levels)
	assert.Equal(t, []float64{0, 1, 0, 2}, Codes(values, levels))
	assert.Equal(t, []float64{-1}, Codes([]string{"FB"}, levels))

	assert.Equal(t, []float64{1, 0}, Bools([]bool{true, false}))
	assert.Equal(t, []float64{3, 0}, Ints([]int{3, 0}))
	assert.Equal(t, "Meal_code", NewCategory("Meal").String())
}

func TestSetLookup(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.SetCyclical("DayOfWeek", []int{0, 6}, PeriodDayOfWeek))

	f, exists := s.Lookup("DayOfWeek_cos")
	require.True(t, exists)
	assert.Equal(t, NewCyclical("DayOfWeek", FourierCompCos, PeriodDayOfWeek), f)

	_, exists = s.Lookup("DayOfWeek")
	assert.False(t, exists)
}
