// Package simulate generates seeded synthetic booking tables in the source schema
package simulate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/creasty/defaults"
)

var ErrNoBookings = errors.New("number of bookings must be positive")

// Options configures the synthetic booking generator
type Options struct {
	Name string `json:"name" yaml:"name" default:"Simulated"`
	Seed uint64 `json:"seed" yaml:"seed" default:"1"`
	// Start is the first possible arrival date and Days the width of the arrival window
	Start time.Time `json:"start" yaml:"start"`
	Days  int       `json:"days" yaml:"days" default:"730"`

	BaseRate float64 `json:"base_rate" yaml:"base_rate" default:"100"`
	// SummerLift is the relative rate increase at the peak of the summer season
	SummerLift float64 `json:"summer_lift" yaml:"summer_lift" default:"0.4"`
	// Noise is the standard deviation of the relative rate noise
	Noise float64 `json:"noise" yaml:"noise" default:"0.05"`

	Countries   []string `json:"countries" yaml:"countries" default:"[\"PRT\",\"GBR\",\"FRA\",\"ESP\",\"DEU\"]"`
	RoomTypes   []string `json:"room_types" yaml:"room_types" default:"[\"A\",\"B\",\"D\",\"E\"]"`
	CancelRate  float64  `json:"cancel_rate" yaml:"cancel_rate" default:"0.2"`
	MaxLeadTime int      `json:"max_lead_time" yaml:"max_lead_time" default:"365"`

	// MissingCountry is the fraction of rows whose country cell is NULL
	MissingCountry float64 `json:"missing_country" yaml:"missing_country" default:"0"`
}

var defaultStart = time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC)

func NewDefaultOptions() *Options {
	opt := &Options{}
	if err := defaults.Set(opt); err != nil {
		panic(err)
	}
	opt.Start = defaultStart
	return opt
}

// Bookings generates n bookings whose ADR follows a known price factor of adults, children,
// special requests, summer season, lead time and room type.
func Bookings(n int, opt *Options) (*booking.RawTable, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%d, %w", n, ErrNoBookings)
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	start := opt.Start
	if start.IsZero() {
		start = defaultStart
	}
	days := max(opt.Days, 1)

	r := rand.New(rand.NewPCG(opt.Seed, opt.Seed^0x9e3779b97f4a7c15))
	header := booking.ColumnNames()
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row(r, opt, header, start.AddDate(0, 0, r.IntN(days))))
	}
	return booking.NewRawTable(opt.Name, header, rows)
}

// Rate is the noiseless ADR of a booking arriving at t
func Rate(opt *Options, t time.Time, adults, children, requests, leadTime int, premium bool) float64 {
	factor := 1.0 +
		0.08*float64(adults) +
		0.05*float64(children) +
		0.03*float64(requests) +
		opt.SummerLift*summer(t)
	if leadTime <= 14 {
		factor += 0.1
	}
	if premium {
		factor += 0.25
	}
	return opt.BaseRate * factor
}

// summer peaks in mid august and is zero from october to april
func summer(t time.Time) float64 {
	doy := float64(t.YearDay())
	v := math.Cos(2.0 * math.Pi * (doy - 227) / 365.0)
	return math.Max(v, 0)
}

func row(r *rand.Rand, opt *Options, header []string, arrival time.Time) []string {
	adults := 1 + r.IntN(3)
	children := 0
	if r.Float64() < 0.2 {
		children = 1 + r.IntN(2)
	}
	requests := r.IntN(4)
	leadTime := r.IntN(max(opt.MaxLeadTime, 1) + 1)
	weekend := r.IntN(3)
	week := r.IntN(5)
	if r.Float64() < 0.05 {
		weekend, week = 0, 0
	}

	room := "A"
	if len(opt.RoomTypes) > 0 {
		room = opt.RoomTypes[r.IntN(len(opt.RoomTypes))]
	}
	premium := room != "A" && room != "B"

	country := "PRT"
	if len(opt.Countries) > 0 {
		country = opt.Countries[r.IntN(len(opt.Countries))]
	}
	if r.Float64() < opt.MissingCountry {
		country = "NULL"
	}

	canceled := 0
	status := booking.StatusCheckOut
	statusDate := arrival.AddDate(0, 0, weekend+week)
	if r.Float64() < opt.CancelRate {
		canceled = 1
		status = booking.StatusCanceled
		statusDate = arrival.AddDate(0, 0, -r.IntN(leadTime+1))
	}

	adr := Rate(opt, arrival, adults, children, requests, leadTime, premium) * (1 + opt.Noise*r.NormFloat64())
	_, isoWeek := arrival.ISOWeek()

	cells := map[string]string{
		booking.ColIsCanceled:                  strconv.Itoa(canceled),
		booking.ColLeadTime:                    strconv.Itoa(leadTime),
		booking.ColArrivalDateYear:             strconv.Itoa(arrival.Year()),
		booking.ColArrivalDateMonth:            arrival.Month().String(),
		booking.ColArrivalDateWeekNumber:       strconv.Itoa(isoWeek),
		booking.ColArrivalDateDayOfMonth:       strconv.Itoa(arrival.Day()),
		booking.ColStaysInWeekendNights:        strconv.Itoa(weekend),
		booking.ColStaysInWeekNights:           strconv.Itoa(week),
		booking.ColAdults:                      strconv.Itoa(adults),
		booking.ColChildren:                    strconv.Itoa(children),
		booking.ColBabies:                      "0",
		booking.ColMeal:                        "BB       ",
		booking.ColCountry:                     country,
		booking.ColMarketSegment:               "Online TA",
		booking.ColDistributionChannel:         "TA/TO",
		booking.ColIsRepeatedGuest:             "0",
		booking.ColPreviousCancellations:       "0",
		booking.ColPreviousBookingsNotCanceled: "0",
		booking.ColReservedRoomType:            room,
		booking.ColAssignedRoomType:            room,
		booking.ColBookingChanges:              strconv.Itoa(r.IntN(2)),
		booking.ColDepositType:                 "No Deposit     ",
		booking.ColAgent:                       "         240",
		booking.ColCompany:                     "       NULL",
		booking.ColDaysInWaitingList:           "0",
		booking.ColCustomerType:                "Transient",
		booking.ColADR:                         strconv.FormatFloat(math.Round(adr*100)/100, 'f', 2, 64),
		booking.ColRequiredCarParkingSpaces:    "0",
		booking.ColTotalOfSpecialRequests:      strconv.Itoa(requests),
		booking.ColReservationStatus:           status,
		booking.ColReservationStatusDate:       statusDate.Format("2006-01-02"),
	}
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = cells[h]
	}
	return out
}
