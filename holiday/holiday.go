// Package holiday resolves public holiday calendars per guest country and year into an
// immutable set of dates for bulk membership tests.
package holiday

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/be"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/ie"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/pt"
	"github.com/rickar/cal/v2/us"
)

// Registry maps ISO 3166 alpha-3 country codes, as used by the booking Country column, onto
// their national holidays.
var Registry = map[string][]*cal.Holiday{
	"PRT": pt.Holidays,
	"GBR": gb.Holidays,
	"FRA": fr.Holidays,
	"ESP": es.Holidays,
	"DEU": de.Holidays,
	"ITA": it.Holidays,
	"IRL": ie.Holidays,
	"BEL": be.Holidays,
	"NLD": nl.Holidays,
	"USA": us.Holidays,
}

// Supported returns true if the country has a holiday calendar in the registry
func Supported(country string) bool {
	_, exists := Registry[country]
	return exists
}

// Occurrence is a holiday falling on a date for a country
type Occurrence struct {
	Country string    `json:"country"`
	Name    string    `json:"name"`
	Date    time.Time `json:"date"`
}

// Calendar is the union of the holidays of a set of countries over a set of years. It is
// not modified after construction and is safe for concurrent reads.
type Calendar struct {
	countries   []string
	years       []int
	days        map[int64]struct{}
	occurrences []Occurrence
}

// New resolves the registry calendars of the countries for every year. Countries without a
// calendar contribute no holidays.
func New(countries []string, years []int) *Calendar {
	return NewFromHolidays(Registry, countries, years)
}

// NewFromHolidays resolves the calendars of the countries found in hols for every year
func NewFromHolidays(hols map[string][]*cal.Holiday, countries []string, years []int) *Calendar {
	c := &Calendar{
		countries: slices.Clone(countries),
		years:     slices.Clone(years),
		days:      make(map[int64]struct{}),
	}
	slices.Sort(c.years)
	c.years = slices.Compact(c.years)

	for _, country := range countries {
		list, exists := hols[country]
		if !exists {
			slog.Debug("no holiday calendar for country, treating as no holidays", "country", country)
			continue
		}
		for _, year := range c.years {
			for _, hol := range list {
				c.add(country, hol, year)
			}
		}
	}
	sort.Slice(c.occurrences, func(i, j int) bool {
		a, b := c.occurrences[i], c.occurrences[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.Name < b.Name
	})
	return c
}

func (c *Calendar) add(country string, hol *cal.Holiday, year int) {
	actual, observed := hol.Calc(year)
	if actual.IsZero() {
		return
	}
	name := strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, year), " ", "_")
	c.mark(country, name, actual)
	if !observed.IsZero() && dayNumber(observed) != dayNumber(actual) {
		c.mark(country, name+"_observed", observed)
	}
}

func (c *Calendar) mark(country, name string, t time.Time) {
	date := civil(t)
	c.days[dayNumber(date)] = struct{}{}
	c.occurrences = append(c.occurrences, Occurrence{Country: country, Name: name, Date: date})
}

// civil drops the time zone of t keeping its calendar date
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayNumber is the number of days since the unix epoch of the calendar date of t
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Countries returns the countries the calendar was requested for
func (c *Calendar) Countries() []string {
	return slices.Clone(c.countries)
}

// Years returns the distinct resolved years in ascending order
func (c *Calendar) Years() []int {
	return slices.Clone(c.years)
}

// Len returns the number of distinct holiday dates
func (c *Calendar) Len() int {
	return len(c.days)
}

// Occurrences returns every resolved holiday ordered by date
func (c *Calendar) Occurrences() []Occurrence {
	return slices.Clone(c.occurrences)
}

// IsHoliday returns true if the calendar date of t is a holiday in any tracked country
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, exists := c.days[dayNumber(t)]
	return exists
}

// IsNearHoliday returns true if any of the window days strictly before or strictly after
// the calendar date of t is a holiday. The date itself is not considered.
func (c *Calendar) IsNearHoliday(t time.Time, window int) bool {
	n := dayNumber(t)
	for i := int64(1); i <= int64(window); i++ {
		if _, exists := c.days[n-i]; exists {
			return true
		}
		if _, exists := c.days[n+i]; exists {
			return true
		}
	}
	return false
}

// YearSpan returns every year from one before the earliest to one after the latest date so
// that near holiday lookups across a year boundary are resolved.
func YearSpan(dates ...time.Time) []int {
	if len(dates) == 0 {
		return nil
	}
	lo, hi := dates[0].Year(), dates[0].Year()
	for _, d := range dates[1:] {
		lo = min(lo, d.Year())
		hi = max(hi, d.Year())
	}
	years := make([]int, 0, hi-lo+3)
	for y := lo - 1; y <= hi+1; y++ {
		years = append(years, y)
	}
	return years
}
