package holiday

import (
	"testing"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testHolidays = map[string][]*cal.Holiday{
	"AAA": {
		{Name: "Spring Day", Month: time.March, Day: 15, Func: cal.CalcDayOfMonth},
	},
	"BBB": {
		{Name: "Year End", Month: time.December, Day: 31, Func: cal.CalcDayOfMonth},
	},
}

func TestIsHoliday(t *testing.T) {
	c := NewFromHolidays(testHolidays, []string{"AAA", "BBB", "ZZZ"}, []int{2016, 2017, 2016})
	assert.Equal(t, []int{2016, 2017}, c.Years())
	assert.Equal(t, 4, c.Len())

	testData := map[string]struct {
		t       time.Time
		holiday bool
		near    bool
	}{
		"holiday":            {t: date(2016, time.March, 15), holiday: true},
		"holiday with clock": {t: time.Date(2017, time.March, 15, 18, 30, 0, 0, time.UTC), holiday: true},
		"three days before":  {t: date(2016, time.March, 12), near: true},
		"three days after":   {t: date(2016, time.March, 18), near: true},
		"four days after":    {t: date(2016, time.March, 19)},
		"across year end":    {t: date(2018, time.January, 2), near: true},
		"four days past end": {t: date(2017, time.January, 4)},
		"before year end":    {t: date(2016, time.December, 28), near: true},
		"ordinary day":       {t: date(2016, time.July, 1)},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.holiday, c.IsHoliday(td.t))
			assert.Equal(t, td.near, c.IsNearHoliday(td.t, 3))
		})
	}
}

func TestIsNearHolidayExcludesDate(t *testing.T) {
	c := NewFromHolidays(testHolidays, []string{"AAA"}, []int{2016})
	assert.True(t, c.IsHoliday(date(2016, time.March, 15)))
	assert.False(t, c.IsNearHoliday(date(2016, time.March, 15), 3))
	assert.False(t, c.IsNearHoliday(date(2016, time.March, 14), 0))
}

func TestUnknownCountry(t *testing.T) {
	c := New([]string{"XXX"}, []int{2016})
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.IsHoliday(date(2016, time.December, 25)))
	assert.False(t, Supported("XXX"))
}

func TestRegistry(t *testing.T) {
	c := New([]string{"USA"}, []int{2016})
	assert.True(t, c.IsHoliday(date(2016, time.December, 25)))
	// christmas on a sunday is observed on monday
	assert.True(t, c.IsHoliday(date(2016, time.December, 26)))

	for _, code := range []string{"PRT", "GBR", "FRA", "ESP", "DEU", "ITA", "IRL", "BEL", "NLD", "USA"} {
		assert.True(t, Supported(code), code)
		assert.NotEmpty(t, Registry[code], code)
	}
}

func TestOccurrences(t *testing.T) {
	c := NewFromHolidays(testHolidays, []string{"BBB", "AAA"}, []int{2016})
	occ := c.Occurrences()
	require.Len(t, occ, 2)
	assert.Equal(t, Occurrence{Country: "AAA", Name: "Spring_Day_2016", Date: date(2016, time.March, 15)}, occ[0])
	assert.Equal(t, "Year_End_2016", occ[1].Name)
}

func TestYearSpan(t *testing.T) {
	assert.Nil(t, YearSpan())
	assert.Equal(t, []int{2014, 2015, 2016, 2017, 2018}, YearSpan(date(2016, time.May, 1), date(2015, time.July, 1), date(2017, time.January, 1)))
}
