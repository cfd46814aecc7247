// Package dataset assembles the engineered stay day feature table handed to downstream
// regressors, the ADR target and a one time seeded holdout partition.
package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/aouyang1/go-pricefactor/calendar"
	"github.com/aouyang1/go-pricefactor/feature"
	"github.com/aouyang1/go-pricefactor/stay"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNilTable        = errors.New("nil calendar table")
	ErrInvalidFraction = errors.New("holdout fraction must be in [0, 1)")
	ErrUnknownColumn   = errors.New("unknown feature column")
	ErrUnknownGrouping = errors.New("unknown grouping")
)

// Engineered column names
const (
	ColTotalStays = "TotalStays"
	ColStayIndex  = "StayIndex"

	ColIsHoliday     = "IsHoliday"
	ColIsNearHoliday = "IsNearHoliday"
	ColIsLowSeason   = "IsLowSeason"
	ColIsHighSeason  = "IsHighSeason"
	ColIsLastMinute  = "IsLastMinute"
	ColShortLeadTime = "ShortLeadTime"
	ColLongLeadTime  = "LongLeadTime"
	ColIsPremiumRoom = "IsPremiumRoom"

	ColHotel              = "Hotel"
	ColDayName            = "DayName"
	ColDayOfWeek          = "DayOfWeek"
	ColStayDateDayOfMonth = "StayDateDayOfMonth"
	ColStayDateWeekNumber = "StayDateWeekNumber"
	ColStayDateMonth      = "StayDateMonth"

	ColPriceFactor = "PriceFactor"
)

// Dataset is the feature table of the stay days with the ADR target held separately
type Dataset struct {
	Table    *calendar.Table
	Features *feature.Set
	Target   []float64
	// Levels holds the sorted levels of each category column derived from the full table
	Levels map[string][]string
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	return len(d.Target)
}

func numeric(name string, fn func(d stay.Day) int) column {
	return column{feat: feature.NewNumeric(name), num: fn}
}

func indicator(name string, fn func(f calendar.Features) bool) column {
	return column{feat: feature.NewIndicator(name), flag: fn}
}

type column struct {
	feat feature.Feature
	num  func(d stay.Day) int
	flag func(f calendar.Features) bool
}

var numericColumns = []column{
	numeric(booking.ColIsCanceled, func(d stay.Day) int { return d.IsCanceled }),
	numeric(booking.ColLeadTime, func(d stay.Day) int { return d.LeadTime }),
	numeric(booking.ColArrivalDateYear, func(d stay.Day) int { return d.ArrivalDateYear }),
	numeric(booking.ColStaysInWeekendNights, func(d stay.Day) int { return d.StaysInWeekendNights }),
	numeric(booking.ColStaysInWeekNights, func(d stay.Day) int { return d.StaysInWeekNights }),
	numeric(ColTotalStays, func(d stay.Day) int { return d.TotalStays }),
	numeric(ColStayIndex, func(d stay.Day) int { return d.StayIndex }),
	numeric(booking.ColAdults, func(d stay.Day) int { return d.Adults }),
	numeric(booking.ColChildren, func(d stay.Day) int { return d.Children }),
	numeric(booking.ColBabies, func(d stay.Day) int { return d.Babies }),
	numeric(booking.ColIsRepeatedGuest, func(d stay.Day) int { return d.IsRepeatedGuest }),
	numeric(booking.ColPreviousCancellations, func(d stay.Day) int { return d.PreviousCancellations }),
	numeric(booking.ColPreviousBookingsNotCanceled, func(d stay.Day) int { return d.PreviousBookingsNotCanceled }),
	numeric(booking.ColBookingChanges, func(d stay.Day) int { return d.BookingChanges }),
	numeric(booking.ColDaysInWaitingList, func(d stay.Day) int { return d.DaysInWaitingList }),
	numeric(booking.ColRequiredCarParkingSpaces, func(d stay.Day) int { return d.RequiredCarParkingSpaces }),
	numeric(booking.ColTotalOfSpecialRequests, func(d stay.Day) int { return d.TotalOfSpecialRequests }),
}

var indicatorColumns = []column{
	indicator(ColIsHoliday, func(f calendar.Features) bool { return f.IsHoliday }),
	indicator(ColIsNearHoliday, func(f calendar.Features) bool { return f.IsNearHoliday }),
	indicator(ColIsLowSeason, func(f calendar.Features) bool { return f.IsLowSeason }),
	indicator(ColIsHighSeason, func(f calendar.Features) bool { return f.IsHighSeason }),
	indicator(ColIsLastMinute, func(f calendar.Features) bool { return f.IsLastMinute }),
	indicator(ColShortLeadTime, func(f calendar.Features) bool { return f.ShortLeadTime }),
	indicator(ColLongLeadTime, func(f calendar.Features) bool { return f.LongLeadTime }),
	indicator(ColIsPremiumRoom, func(f calendar.Features) bool { return f.IsPremiumRoom }),
}

type categoryColumn struct {
	name string
	fn   func(d stay.Day, f calendar.Features) string
}

var categoryColumns = []categoryColumn{
	{ColHotel, func(d stay.Day, _ calendar.Features) string { return d.Hotel }},
	{booking.ColMeal, func(d stay.Day, _ calendar.Features) string { return d.Meal }},
	{booking.ColCountry, func(d stay.Day, _ calendar.Features) string { return d.Country }},
	{booking.ColMarketSegment, func(d stay.Day, _ calendar.Features) string { return d.MarketSegment }},
	{booking.ColDistributionChannel, func(d stay.Day, _ calendar.Features) string { return d.DistributionChannel }},
	{booking.ColReservedRoomType, func(d stay.Day, _ calendar.Features) string { return d.ReservedRoomType }},
	{booking.ColAssignedRoomType, func(d stay.Day, _ calendar.Features) string { return d.AssignedRoomType }},
	{booking.ColDepositType, func(d stay.Day, _ calendar.Features) string { return d.DepositType }},
	{booking.ColAgent, func(d stay.Day, _ calendar.Features) string { return d.Agent }},
	{booking.ColCompany, func(d stay.Day, _ calendar.Features) string { return d.Company }},
	{booking.ColCustomerType, func(d stay.Day, _ calendar.Features) string { return d.CustomerType }},
	{booking.ColReservationStatus, func(d stay.Day, _ calendar.Features) string { return d.ReservationStatus }},
	{ColDayName, func(_ stay.Day, f calendar.Features) string { return f.DayName }},
}

type cyclicalColumn struct {
	name   string
	period int
	fn     func(d stay.Day, f calendar.Features) int
}

var cyclicalColumns = []cyclicalColumn{
	{booking.ColArrivalDateMonth, feature.PeriodMonth, func(d stay.Day, _ calendar.Features) int { return int(d.ArrivalDate.Month()) }},
	{booking.ColArrivalDateWeekNumber, feature.PeriodWeek, func(d stay.Day, _ calendar.Features) int { return d.ArrivalDateWeekNumber }},
	{booking.ColArrivalDateDayOfMonth, feature.PeriodDayOfMonth, func(d stay.Day, _ calendar.Features) int { return d.ArrivalDateDayOfMonth }},
	{ColStayDateDayOfMonth, feature.PeriodDayOfMonth, func(_ stay.Day, f calendar.Features) int { return f.StayDateDayOfMonth }},
	{ColStayDateWeekNumber, feature.PeriodWeek, func(_ stay.Day, f calendar.Features) int { return f.StayDateWeekNumber }},
	{ColStayDateMonth, feature.PeriodMonth, func(_ stay.Day, f calendar.Features) int { return f.StayDateMonth }},
	{ColDayOfWeek, feature.PeriodDayOfWeek, func(_ stay.Day, f calendar.Features) int { return f.DayOfWeek }},
}

// Build assembles every engineered numeric, indicator, category code and cyclical column of
// the stay days. ADR is kept out of the features and returned as the target. The
// reservation status date is left out as it records the outcome of the booking.
func Build(tbl *calendar.Table) (*Dataset, error) {
	if tbl == nil {
		return nil, ErrNilTable
	}
	n := tbl.Len()
	ds := &Dataset{
		Table:    tbl,
		Features: feature.NewSet(),
		Target:   make([]float64, n),
		Levels:   make(map[string][]string, len(categoryColumns)),
	}
	for i, d := range tbl.Days {
		ds.Target[i] = d.ADR
	}

	for _, col := range numericColumns {
		vals := make([]int, n)
		for i, d := range tbl.Days {
			vals[i] = col.num(d)
		}
		if err := ds.Features.Set(col.feat, feature.Ints(vals)); err != nil {
			return nil, err
		}
	}
	for _, col := range indicatorColumns {
		flags := make([]bool, n)
		for i, f := range tbl.Features {
			flags[i] = col.flag(f)
		}
		if err := ds.Features.Set(col.feat, feature.Bools(flags)); err != nil {
			return nil, err
		}
	}
	for _, col := range categoryColumns {
		vals := make([]string, n)
		for i, d := range tbl.Days {
			vals[i] = col.fn(d, tbl.Features[i])
		}
		levels := feature.Levels(vals)
		ds.Levels[col.name] = levels
		if err := ds.Features.Set(feature.NewCategory(col.name), feature.Codes(vals, levels)); err != nil {
			return nil, err
		}
	}
	for _, col := range cyclicalColumns {
		vals := make([]int, n)
		for i, d := range tbl.Days {
			vals[i] = col.fn(d, tbl.Features[i])
		}
		if err := ds.Features.SetCyclical(col.name, vals, col.period); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Matrix returns the named feature columns in the given order
func (d *Dataset) Matrix(names ...string) (*mat.Dense, error) {
	feats := make([]feature.Feature, 0, len(names))
	for _, name := range names {
		f, exists := d.Features.Lookup(name)
		if !exists {
			return nil, fmt.Errorf("%s, %w", name, ErrUnknownColumn)
		}
		feats = append(feats, f)
	}
	return d.Features.Columns(feats...)
}

// Subset returns a dataset of the observations at the given row indexes. Category levels are
// kept from the full dataset so codes stay comparable.
func (d *Dataset) Subset(idx []int) (*Dataset, error) {
	feats, err := d.Features.Subset(idx)
	if err != nil {
		return nil, err
	}
	target := make([]float64, len(idx))
	for i, j := range idx {
		target[i] = d.Target[j]
	}
	return &Dataset{
		Table:    d.Table.Subset(idx),
		Features: feats,
		Target:   target,
		Levels:   d.Levels,
	}, nil
}

// Split draws a holdout of round(n*fraction) row indexes with a seeded permutation. Both
// partitions are returned in ascending row order.
func Split(n int, fraction float64, seed uint64) ([]int, []int, error) {
	if fraction < 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("%f, %w", fraction, ErrInvalidFraction)
	}
	r := rand.New(rand.NewPCG(seed, seed))
	perm := r.Perm(n)
	k := int(float64(n)*fraction + 0.5)

	holdout := slices.Clone(perm[:k])
	train := slices.Clone(perm[k:])
	slices.Sort(holdout)
	slices.Sort(train)
	return train, holdout, nil
}
