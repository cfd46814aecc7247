// Package calendar derives the holiday, season, lead time and room features of every stay
// day.
package calendar

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/aouyang1/go-pricefactor/holiday"
	"github.com/aouyang1/go-pricefactor/stay"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

var ErrNoStayDate = errors.New("stay day has no stay date")

// Features are the calendar features of a single stay day
type Features struct {
	IsHoliday     bool `json:"is_holiday"`
	IsNearHoliday bool `json:"is_near_holiday"`

	// DayOfWeek counts from Monday as 0 to Sunday as 6
	DayOfWeek          int    `json:"day_of_week"`
	DayName            string `json:"day_name"`
	StayDateDayOfMonth int    `json:"stay_date_day_of_month"`
	StayDateWeekNumber int    `json:"stay_date_week_number"`
	StayDateMonth      int    `json:"stay_date_month"`

	IsLowSeason  bool `json:"is_low_season"`
	IsHighSeason bool `json:"is_high_season"`

	IsLastMinute  bool `json:"is_last_minute"`
	ShortLeadTime bool `json:"short_lead_time"`
	LongLeadTime  bool `json:"long_lead_time"`
	IsPremiumRoom bool `json:"is_premium_room"`
}

// Table holds the stay days with their derived features aligned by index
type Table struct {
	Days     []stay.Day
	Features []Features

	// Countries are the tracked holiday countries
	Countries []string
	// HighSeason labels each observed ISO week number
	HighSeason map[int]bool
	Holidays   *holiday.Calendar
}

// Len returns the number of stay days
func (t *Table) Len() int {
	return len(t.Days)
}

// Subset returns a table of the rows at the given indexes sharing the derivation context
func (t *Table) Subset(idx []int) *Table {
	res := &Table{
		Days:       make([]stay.Day, len(idx)),
		Features:   make([]Features, len(idx)),
		Countries:  t.Countries,
		HighSeason: t.HighSeason,
		Holidays:   t.Holidays,
	}
	for i, j := range idx {
		res.Days[i] = t.Days[j]
		res.Features[i] = t.Features[j]
	}
	return res
}

// WeekdayIndex maps a weekday onto 0 for Monday through 6 for Sunday
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// TopCountries returns the n most frequent guest countries of the stay days. Ties are broken
// by country code and missing countries are ignored.
func TopCountries(days []stay.Day, n int) []string {
	counts := make(map[string]int)
	for _, d := range days {
		if booking.IsMissing(d.Country) {
			continue
		}
		counts[d.Country]++
	}
	countries := make([]string, 0, len(counts))
	for c := range counts {
		countries = append(countries, c)
	}
	sort.Slice(countries, func(i, j int) bool {
		ci, cj := counts[countries[i]], counts[countries[j]]
		if ci != cj {
			return ci > cj
		}
		return countries[i] < countries[j]
	})
	if n < len(countries) {
		countries = countries[:n]
	}
	return countries
}

// SeasonLabels labels every ISO week number observed in the stay dates as high season when
// the mean ADR of the week is at or above the mean ADR of all days, and low season otherwise.
// Only weeks holding at least one stay day are labelled.
func SeasonLabels(days []stay.Day) map[int]bool {
	labels := make(map[int]bool)
	if len(days) == 0 {
		slog.Warn("no stay days to label seasons")
		return labels
	}

	adr := make([]float64, len(days))
	byWeek := make(map[int][]float64)
	for i, d := range days {
		_, week := d.StayDate.ISOWeek()
		adr[i] = d.ADR
		byWeek[week] = append(byWeek[week], d.ADR)
	}
	globalMean := stat.Mean(adr, nil)
	for week, vals := range byWeek {
		labels[week] = stat.Mean(vals, nil) >= globalMean
	}
	return labels
}

// Derive computes the calendar features of every stay day. Holidays are tracked for the
// configured countries, or the most frequent guest countries when none are configured, over
// every year spanned by the stay dates. Seasons are labelled from the supplied days.
func Derive(days []stay.Day, opt *Options) (*Table, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}

	countries := opt.Countries
	if len(countries) == 0 {
		countries = TopCountries(days, opt.TopCountries)
	}
	for _, c := range countries {
		if !holiday.Supported(c) {
			slog.Warn("no holiday calendar for tracked country, treating as no holidays", "country", c)
		}
	}

	var years []int
	if len(days) > 0 {
		lo, hi := days[0].StayDate, days[0].StayDate
		for _, d := range days[1:] {
			if d.StayDate.Before(lo) {
				lo = d.StayDate
			}
			if d.StayDate.After(hi) {
				hi = d.StayDate
			}
		}
		years = holiday.YearSpan(lo, hi)
	}

	tbl := &Table{
		Days:       days,
		Features:   make([]Features, len(days)),
		Countries:  slices.Clone(countries),
		HighSeason: SeasonLabels(days),
		Holidays:   holiday.New(countries, years),
	}

	d := deriver{
		opt:      opt,
		holidays: tbl.Holidays,
		high:     tbl.HighSeason,
		standard: make(map[string]struct{}, len(opt.StandardRooms)),
	}
	for _, r := range opt.StandardRooms {
		d.standard[r] = struct{}{}
	}

	chunks := max(opt.Parallelization, 1)
	size := (len(days) + chunks - 1) / chunks
	var g errgroup.Group
	for start := 0; start < len(days); start += size {
		end := min(start+size, len(days))
		g.Go(func() error {
			for i := start; i < end; i++ {
				f, err := d.derive(days[i])
				if err != nil {
					return fmt.Errorf("unable to derive calendar features of booking %d, %w", days[i].ID, err)
				}
				tbl.Features[i] = f
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tbl, nil
}

// deriver holds the read only lookups shared by concurrent chunks
type deriver struct {
	opt      *Options
	holidays *holiday.Calendar
	high     map[int]bool
	standard map[string]struct{}
}

func (d deriver) derive(day stay.Day) (Features, error) {
	if day.StayDate.IsZero() {
		return Features{}, ErrNoStayDate
	}
	_, week := day.StayDate.ISOWeek()
	high := d.high[week]
	_, standard := d.standard[day.ReservedRoomType]

	return Features{
		IsHoliday:          d.holidays.IsHoliday(day.StayDate),
		IsNearHoliday:      d.holidays.IsNearHoliday(day.StayDate, d.opt.NearHolidayWindow),
		DayOfWeek:          WeekdayIndex(day.StayDate.Weekday()),
		DayName:            day.StayDate.Weekday().String(),
		StayDateDayOfMonth: day.StayDate.Day(),
		StayDateWeekNumber: week,
		StayDateMonth:      int(day.StayDate.Month()),
		IsLowSeason:        !high,
		IsHighSeason:       high,
		IsLastMinute:       day.LeadTime <= d.opt.LastMinuteDays,
		ShortLeadTime:      day.LeadTime <= d.opt.LongLeadTimeDays,
		LongLeadTime:       day.LeadTime > d.opt.LongLeadTimeDays,
		IsPremiumRoom:      !standard,
	}, nil
}
