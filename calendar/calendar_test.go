package calendar

import (
	"testing"
	"time"

	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/aouyang1/go-pricefactor/stay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newDay(id int, stayDate time.Time, country, room string, lead int, adr float64) stay.Day {
	return stay.Day{
		Booking: booking.Booking{
			ID:               id,
			Country:          country,
			ReservedRoomType: room,
			LeadTime:         lead,
			ADR:              adr,
		},
		ArrivalDate: stayDate,
		StayDate:    stayDate,
		TotalStays:  1,
	}
}

func TestTopCountries(t *testing.T) {
	days := []stay.Day{
		newDay(0, date(2016, 1, 1), "PRT", "A", 0, 1),
		newDay(1, date(2016, 1, 1), "PRT", "A", 0, 1),
		newDay(2, date(2016, 1, 1), "PRT", "A", 0, 1),
		newDay(3, date(2016, 1, 1), "GBR", "A", 0, 1),
		newDay(4, date(2016, 1, 1), "GBR", "A", 0, 1),
		newDay(5, date(2016, 1, 1), "FRA", "A", 0, 1),
		newDay(6, date(2016, 1, 1), "ESP", "A", 0, 1),
		newDay(7, date(2016, 1, 1), "NULL", "A", 0, 1),
		newDay(8, date(2016, 1, 1), "NULL", "A", 0, 1),
		newDay(9, date(2016, 1, 1), "NULL", "A", 0, 1),
		newDay(10, date(2016, 1, 1), "NULL", "A", 0, 1),
	}
	testData := map[string]struct {
		n        int
		expected []string
	}{
		"top three": {n: 3, expected: []string{"PRT", "GBR", "ESP"}},
		"top one":   {n: 1, expected: []string{"PRT"}},
		"all":       {n: 10, expected: []string{"PRT", "GBR", "ESP", "FRA"}},
		"none":      {n: 0, expected: []string{}},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, TopCountries(days, td.n))
		})
	}
}

func TestSeasonLabels(t *testing.T) {
	days := []stay.Day{
		// iso week 2
		newDay(0, date(2016, 1, 11), "PRT", "A", 0, 50),
		newDay(1, date(2016, 1, 12), "PRT", "A", 0, 70),
		// iso week 30
		newDay(2, date(2016, 7, 25), "PRT", "A", 0, 150),
		newDay(3, date(2017, 7, 24), "PRT", "A", 0, 130),
		// iso week 40, exactly on the global mean of 100
		newDay(4, date(2016, 10, 3), "PRT", "A", 0, 100),
	}
	labels := SeasonLabels(days)
	assert.Equal(t, map[int]bool{2: false, 30: true, 40: true}, labels)

	assert.Empty(t, SeasonLabels(nil))
}

func TestDerive(t *testing.T) {
	days := []stay.Day{
		newDay(0, date(2016, 12, 25), "PRT", "A", 0, 50),
		newDay(1, date(2016, 12, 22), "PRT", "D", 14, 60),
		newDay(2, date(2016, 12, 21), "PRT", "B", 15, 70),
		newDay(3, date(2016, 7, 25), "GBR", "E", 200, 200),
		newDay(4, date(2016, 7, 26), "XXX", "A", 201, 220),
	}
	opt := NewDefaultOptions()
	opt.Countries = []string{"PRT", "XXX"}

	tbl, err := Derive(days, opt)
	require.NoError(t, err)
	require.Equal(t, len(days), tbl.Len())
	assert.Equal(t, []string{"PRT", "XXX"}, tbl.Countries)
	assert.Equal(t, []int{2015, 2016, 2017}, tbl.Holidays.Years())

	f := tbl.Features
	assert.True(t, f[0].IsHoliday)
	assert.Equal(t, 6, f[0].DayOfWeek)
	assert.Equal(t, "Sunday", f[0].DayName)
	assert.Equal(t, 25, f[0].StayDateDayOfMonth)
	assert.Equal(t, 51, f[0].StayDateWeekNumber)
	assert.Equal(t, 12, f[0].StayDateMonth)
	assert.True(t, f[0].IsLastMinute)

	assert.False(t, f[1].IsHoliday)
	assert.True(t, f[1].IsNearHoliday)
	assert.True(t, f[1].IsLastMinute)
	assert.True(t, f[1].IsPremiumRoom)

	assert.False(t, f[2].IsLastMinute)
	assert.False(t, f[2].IsPremiumRoom)

	assert.True(t, f[3].ShortLeadTime)
	assert.False(t, f[3].LongLeadTime)
	assert.True(t, f[3].IsHighSeason)
	assert.Equal(t, 0, f[3].DayOfWeek)

	assert.False(t, f[4].ShortLeadTime)
	assert.True(t, f[4].LongLeadTime)
	assert.True(t, f[0].IsLowSeason)
}

func TestDeriveSeasonPartition(t *testing.T) {
	var days []stay.Day
	start := date(2015, 6, 1)
	for i := 0; i < 400; i++ {
		adr := float64(40 + (i*37)%160)
		days = append(days, newDay(i, start.AddDate(0, 0, i), "PRT", "A", i%300, adr))
	}

	testData := map[string]struct {
		parallelization int
	}{
		"sequential": {parallelization: 1},
		"parallel":   {parallelization: 7},
	}
	var expected []Features
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt := NewDefaultOptions()
			opt.Parallelization = td.parallelization
			tbl, err := Derive(days, opt)
			require.NoError(t, err)
			require.Len(t, tbl.Features, len(days))
			for _, f := range tbl.Features {
				assert.NotEqual(t, f.IsLowSeason, f.IsHighSeason)
				assert.NotEqual(t, f.ShortLeadTime, f.LongLeadTime)
			}
			if expected == nil {
				expected = tbl.Features
				return
			}
			assert.Equal(t, expected, tbl.Features)
		})
	}
}

func TestDeriveTopCountries(t *testing.T) {
	days := []stay.Day{
		newDay(0, date(2016, 12, 25), "USA", "A", 0, 50),
		newDay(1, date(2016, 12, 26), "USA", "A", 0, 50),
	}
	opt := NewDefaultOptions()
	opt.TopCountries = 1
	tbl, err := Derive(days, opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"USA"}, tbl.Countries)
	assert.True(t, tbl.Features[0].IsHoliday)
}

func TestDeriveErrors(t *testing.T) {
	_, err := Derive([]stay.Day{{}}, nil)
	assert.ErrorIs(t, err, ErrNoStayDate)

	tbl, err := Derive(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestSubset(t *testing.T) {
	days := []stay.Day{
		newDay(0, date(2016, 1, 11), "PRT", "A", 0, 50),
		newDay(1, date(2016, 7, 25), "PRT", "A", 0, 150),
	}
	tbl, err := Derive(days, nil)
	require.NoError(t, err)
	sub := tbl.Subset([]int{1})
	require.Equal(t, 1, sub.Len())
	assert.Equal(t, 1, sub.Days[0].ID)
	assert.Equal(t, tbl.Features[1], sub.Features[0])
}
