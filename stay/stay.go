// Package stay expands bookings into one row per calendar day of the stay
package stay

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-pricefactor/booking"
)

var ErrInvalidArrival = errors.New("invalid arrival date")

const day = 24 * time.Hour

// Day is a single calendar date of a booking's stay. Every booking attribute is copied onto
// the day.
type Day struct {
	booking.Booking

	ArrivalDate time.Time
	StayDate    time.Time
	TotalStays  int
	// StayIndex is the position of StayDate within the stay, 0 for the arrival date
	StayIndex int
}

// ArrivalDate builds the arrival date of the booking in UTC from its year, month name and
// day of month.
func ArrivalDate(b booking.Booking) (time.Time, error) {
	m, err := booking.ParseMonth(b.ArrivalDateMonth)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking %d, %w, %w", b.ID, err, ErrInvalidArrival)
	}
	t := time.Date(b.ArrivalDateYear, m, b.ArrivalDateDayOfMonth, 0, 0, 0, 0, time.UTC)
	if t.Year() != b.ArrivalDateYear || t.Month() != m || t.Day() != b.ArrivalDateDayOfMonth {
		return time.Time{}, fmt.Errorf("booking %d has no date %d %s %d, %w",
			b.ID, b.ArrivalDateYear, b.ArrivalDateMonth, b.ArrivalDateDayOfMonth, ErrInvalidArrival)
	}
	return t, nil
}

// rows is the number of stay days a booking expands into. Bookings without nights still
// produce the arrival date.
func rows(b booking.Booking) int {
	return max(b.TotalStays(), 1)
}

// Count returns the number of rows Expand produces for the table
func Count(tbl booking.Table) int {
	var n int
	for _, b := range tbl {
		n += rows(b)
	}
	return n
}

// Expand replaces every booking with one Day per date in [arrival, arrival+TotalStays).
// A booking with zero nights, whether canceled, a no-show or a same day check-out, yields
// exactly one Day on its arrival date.
func Expand(tbl booking.Table) ([]Day, error) {
	res := make([]Day, 0, Count(tbl))
	for _, b := range tbl {
		arrival, err := ArrivalDate(b)
		if err != nil {
			return nil, err
		}
		total := b.TotalStays()
		for i := 0; i < rows(b); i++ {
			res = append(res, Day{
				Booking:     b,
				ArrivalDate: arrival,
				StayDate:    arrival.Add(time.Duration(i) * day),
				TotalStays:  total,
				StayIndex:   i,
			})
		}
	}
	return res, nil
}

// Bookings returns the number of distinct bookings the days were expanded from
func Bookings(days []Day) int {
	type key struct {
		hotel string
		id    int
	}
	seen := make(map[key]struct{})
	for _, d := range days {
		seen[key{d.Hotel, d.ID}] = struct{}{}
	}
	return len(seen)
}
