package calendar

import (
	"github.com/creasty/defaults"
)

// Options configures the calendar features derived for every stay day
type Options struct {
	// TopCountries is the number of most frequent guest countries whose holidays are tracked
	TopCountries int `json:"top_countries" yaml:"top_countries" default:"3" validate:"gte=0"`
	// Countries overrides the tracked countries when set
	Countries []string `json:"countries,omitempty" yaml:"countries"`
	// NearHolidayWindow is the number of days on either side of a stay date checked for a holiday
	NearHolidayWindow int `json:"near_holiday_window" yaml:"near_holiday_window" default:"3" validate:"gte=0"`

	LastMinuteDays   int      `json:"last_minute_days" yaml:"last_minute_days" default:"14" validate:"gte=0"`
	LongLeadTimeDays int      `json:"long_lead_time_days" yaml:"long_lead_time_days" default:"200" validate:"gte=0"`
	StandardRooms    []string `json:"standard_rooms" yaml:"standard_rooms" default:"[\"A\",\"B\"]"`

	// Parallelization is the number of chunks of stay days derived concurrently
	Parallelization int `json:"parallelization" yaml:"parallelization" default:"1" validate:"gte=1"`
}

// NewDefaultOptions returns the calendar options used for the hotel booking sources
func NewDefaultOptions() *Options {
	opt := &Options{}
	if err := defaults.Set(opt); err != nil {
		panic(err)
	}
	return opt
}
