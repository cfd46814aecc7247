// Package booking contains the per-booking hotel reservation record, the raw source tables
// it is read from and the schema normalization that casts raw cells into typed records.
package booking

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSchema        = errors.New("schema violation")
	ErrMissingColumn = errors.New("missing column")
	ErrUnknownMonth  = errors.New("unknown month name")
)

// Kind is the semantic type a source column is cast to
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindCategory
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindCategory:
		return "category"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Column names of the fixed 31 column source schema
const (
	ColIsCanceled                  = "IsCanceled"
	ColLeadTime                    = "LeadTime"
	ColArrivalDateYear             = "ArrivalDateYear"
	ColArrivalDateMonth            = "ArrivalDateMonth"
	ColArrivalDateWeekNumber       = "ArrivalDateWeekNumber"
	ColArrivalDateDayOfMonth       = "ArrivalDateDayOfMonth"
	ColStaysInWeekendNights        = "StaysInWeekendNights"
	ColStaysInWeekNights           = "StaysInWeekNights"
	ColAdults                      = "Adults"
	ColChildren                    = "Children"
	ColBabies                      = "Babies"
	ColMeal                        = "Meal"
	ColCountry                     = "Country"
	ColMarketSegment               = "MarketSegment"
	ColDistributionChannel         = "DistributionChannel"
	ColIsRepeatedGuest             = "IsRepeatedGuest"
	ColPreviousCancellations       = "PreviousCancellations"
	ColPreviousBookingsNotCanceled = "PreviousBookingsNotCanceled"
	ColReservedRoomType            = "ReservedRoomType"
	ColAssignedRoomType            = "AssignedRoomType"
	ColBookingChanges              = "BookingChanges"
	ColDepositType                 = "DepositType"
	ColAgent                       = "Agent"
	ColCompany                     = "Company"
	ColDaysInWaitingList           = "DaysInWaitingList"
	ColCustomerType                = "CustomerType"
	ColADR                         = "ADR"
	ColRequiredCarParkingSpaces    = "RequiredCarParkingSpaces"
	ColTotalOfSpecialRequests      = "TotalOfSpecialRequests"
	ColReservationStatus           = "ReservationStatus"
	ColReservationStatusDate       = "ReservationStatusDate"
)

// Reservation status values
const (
	StatusCheckOut = "Check-Out"
	StatusCanceled = "Canceled"
	StatusNoShow   = "No-Show"
)

// DateLayouts are the accepted layouts of date cells, tried in order
var DateLayouts = []string{"2006-01-02", "2006/01/02", "1/2/2006"}

// Booking is a single reservation. ID is the row position in the source table and Hotel the
// label of the table the row originated from.
type Booking struct {
	ID    int
	Hotel string

	IsCanceled                  int
	LeadTime                    int
	ArrivalDateYear             int
	ArrivalDateMonth            string
	ArrivalDateWeekNumber       int
	ArrivalDateDayOfMonth       int
	StaysInWeekendNights        int
	StaysInWeekNights           int
	Adults                      int
	Children                    int
	Babies                      int
	Meal                        string
	Country                     string
	MarketSegment               string
	DistributionChannel         string
	IsRepeatedGuest             int
	PreviousCancellations       int
	PreviousBookingsNotCanceled int
	ReservedRoomType            string
	AssignedRoomType            string
	BookingChanges              int
	DepositType                 string
	Agent                       string
	Company                     string
	DaysInWaitingList           int
	CustomerType                string
	ADR                         float64
	RequiredCarParkingSpaces    int
	TotalOfSpecialRequests      int
	ReservationStatus           string
	ReservationStatusDate       time.Time
}

// TotalStays is the number of nights of the booking
func (b Booking) TotalStays() int {
	return b.StaysInWeekNights + b.StaysInWeekendNights
}

// Table is a normalized set of bookings in source order
type Table []Booking

// Column describes a source column and how it is cast onto a Booking
type Column struct {
	Name string
	Kind Kind
	set  func(b *Booking, v string) error
}

func intCol(name string, field func(b *Booking) *int) Column {
	return Column{name, KindInt, func(b *Booking, v string) error {
		val, err := parseInt(v)
		if err != nil {
			return err
		}
		*field(b) = val
		return nil
	}}
}

// countCol is an integer column that must not be negative
func countCol(name string, field func(b *Booking) *int) Column {
	return Column{name, KindInt, func(b *Booking, v string) error {
		val, err := parseInt(v)
		if err != nil {
			return err
		}
		if val < 0 {
			return fmt.Errorf("negative count %d", val)
		}
		*field(b) = val
		return nil
	}}
}

func floatCol(name string, field func(b *Booking) *float64) Column {
	return Column{name, KindFloat, func(b *Booking, v string) error {
		val, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("non finite value %q", v)
		}
		*field(b) = val
		return nil
	}}
}

func catCol(name string, field func(b *Booking) *string) Column {
	return Column{name, KindCategory, func(b *Booking, v string) error {
		*field(b) = strings.TrimSpace(v)
		return nil
	}}
}

func dateCol(name string, field func(b *Booking) *time.Time) Column {
	return Column{name, KindDate, func(b *Booking, v string) error {
		val, err := ParseDate(v)
		if err != nil {
			return err
		}
		*field(b) = val
		return nil
	}}
}

// Schema lists the 31 source columns in file order
var Schema = []Column{
	intCol(ColIsCanceled, func(b *Booking) *int { return &b.IsCanceled }),
	countCol(ColLeadTime, func(b *Booking) *int { return &b.LeadTime }),
	intCol(ColArrivalDateYear, func(b *Booking) *int { return &b.ArrivalDateYear }),
	{ColArrivalDateMonth, KindCategory, func(b *Booking, v string) error {
		v = strings.TrimSpace(v)
		if _, err := ParseMonth(v); err != nil {
			return err
		}
		b.ArrivalDateMonth = v
		return nil
	}},
	intCol(ColArrivalDateWeekNumber, func(b *Booking) *int { return &b.ArrivalDateWeekNumber }),
	intCol(ColArrivalDateDayOfMonth, func(b *Booking) *int { return &b.ArrivalDateDayOfMonth }),
	countCol(ColStaysInWeekendNights, func(b *Booking) *int { return &b.StaysInWeekendNights }),
	countCol(ColStaysInWeekNights, func(b *Booking) *int { return &b.StaysInWeekNights }),
	countCol(ColAdults, func(b *Booking) *int { return &b.Adults }),
	countCol(ColChildren, func(b *Booking) *int { return &b.Children }),
	countCol(ColBabies, func(b *Booking) *int { return &b.Babies }),
	catCol(ColMeal, func(b *Booking) *string { return &b.Meal }),
	catCol(ColCountry, func(b *Booking) *string { return &b.Country }),
	catCol(ColMarketSegment, func(b *Booking) *string { return &b.MarketSegment }),
	catCol(ColDistributionChannel, func(b *Booking) *string { return &b.DistributionChannel }),
	intCol(ColIsRepeatedGuest, func(b *Booking) *int { return &b.IsRepeatedGuest }),
	countCol(ColPreviousCancellations, func(b *Booking) *int { return &b.PreviousCancellations }),
	countCol(ColPreviousBookingsNotCanceled, func(b *Booking) *int { return &b.PreviousBookingsNotCanceled }),
	catCol(ColReservedRoomType, func(b *Booking) *string { return &b.ReservedRoomType }),
	catCol(ColAssignedRoomType, func(b *Booking) *string { return &b.AssignedRoomType }),
	countCol(ColBookingChanges, func(b *Booking) *int { return &b.BookingChanges }),
	catCol(ColDepositType, func(b *Booking) *string { return &b.DepositType }),
	catCol(ColAgent, func(b *Booking) *string { return &b.Agent }),
	catCol(ColCompany, func(b *Booking) *string { return &b.Company }),
	countCol(ColDaysInWaitingList, func(b *Booking) *int { return &b.DaysInWaitingList }),
	catCol(ColCustomerType, func(b *Booking) *string { return &b.CustomerType }),
	floatCol(ColADR, func(b *Booking) *float64 { return &b.ADR }),
	countCol(ColRequiredCarParkingSpaces, func(b *Booking) *int { return &b.RequiredCarParkingSpaces }),
	countCol(ColTotalOfSpecialRequests, func(b *Booking) *int { return &b.TotalOfSpecialRequests }),
	catCol(ColReservationStatus, func(b *Booking) *string { return &b.ReservationStatus }),
	dateCol(ColReservationStatusDate, func(b *Booking) *time.Time { return &b.ReservationStatusDate }),
}

// ColumnNames returns the schema column names in file order
func ColumnNames() []string {
	names := make([]string, 0, len(Schema))
	for _, col := range Schema {
		names = append(names, col.Name)
	}
	return names
}

// parseInt accepts plain integers as well as integral floats such as "2.0" which are
// common when a count column was exported from a float typed frame.
func parseInt(v string) (int, error) {
	v = strings.TrimSpace(v)
	if val, err := strconv.Atoi(v); err == nil {
		return val, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("non integral value %q", v)
	}
	return int(f), nil
}

// ParseDate parses a calendar date using the first matching layout in DateLayouts
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, v, time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q, %w", v, err)
}

var months = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// ParseMonth maps an English month name onto its month number. Matching ignores case and
// surrounding whitespace.
func ParseMonth(name string) (time.Month, error) {
	m, exists := months[strings.ToLower(strings.TrimSpace(name))]
	if !exists {
		return 0, fmt.Errorf("%q, %w", name, ErrUnknownMonth)
	}
	return m, nil
}
