package noise

import (
	"github.com/creasty/defaults"
)

// Options configures the noise rules. Unset fields are filled from the default tags.
type Options struct {
	// MaxPasses caps how often all rules are re-evaluated on the table left after dropping
	// the rows found in the previous pass.
	MaxPasses int `json:"max_passes" yaml:"max_passes" default:"5" validate:"gte=1"`

	// ADRFloor drops any row with an ADR strictly below it
	ADRFloor float64 `json:"adr_floor" yaml:"adr_floor"`

	// TukeyFactor widens the inter quartile range to form the outlier fence for ADR
	TukeyFactor float64 `json:"tukey_factor" yaml:"tukey_factor" default:"3" validate:"gte=0"`
	// IsolationRatio is the fraction of an outlier value that another row must reach to count
	// as neighboring support
	IsolationRatio float64 `json:"isolation_ratio" yaml:"isolation_ratio" default:"0.5" validate:"gt=0,lte=1"`

	GroupColumn        string   `json:"group_column" yaml:"group_column" default:"PreviousCancellations" validate:"required"`
	GroupMinValue      float64  `json:"group_min_value" yaml:"group_min_value" default:"2"`
	MaxGroupSize       int      `json:"max_group_size" yaml:"max_group_size" default:"100" validate:"gte=2"`
	ProbeColumns       []string `json:"probe_columns" yaml:"probe_columns" default:"[\"IsCanceled\",\"LeadTime\",\"ADR\",\"ArrivalDateWeekNumber\",\"StaysInWeekNights\",\"StaysInWeekendNights\",\"Adults\"]" validate:"min=1"`
	DegenerateFraction float64  `json:"degenerate_fraction" yaml:"degenerate_fraction" default:"0.7" validate:"gt=0,lte=1"`

	MandatoryFields []string `json:"mandatory_fields" yaml:"mandatory_fields" default:"[\"Country\",\"Children\"]"`
	CompareColumns  []string `json:"compare_columns" yaml:"compare_columns" default:"[\"IsCanceled\",\"LeadTime\",\"ADR\",\"StaysInWeekNights\",\"StaysInWeekendNights\",\"Adults\"]"`
	// Tolerance is the largest relative shift of a compared column mean or standard deviation
	// allowed when dropping rows with missing mandatory fields
	Tolerance float64 `json:"tolerance" yaml:"tolerance" default:"0.01" validate:"gt=0"`
}

// NewDefaultOptions returns the noise options used for the hotel booking sources
func NewDefaultOptions() *Options {
	opt := &Options{}
	if err := defaults.Set(opt); err != nil {
		panic(err)
	}
	return opt
}

// Rules builds the four hotel booking noise rules from the options
func (o *Options) Rules() []Rule {
	if o == nil {
		o = NewDefaultOptions()
	}
	return []Rule{
		NegativeADR{Floor: o.ADRFloor},
		IsolatedADR{TukeyFactor: o.TukeyFactor, IsolationRatio: o.IsolationRatio},
		DegenerateGroup{
			Column:       o.GroupColumn,
			MinValue:     o.GroupMinValue,
			MaxGroupSize: o.MaxGroupSize,
			Probes:       o.ProbeColumns,
			Fraction:     o.DegenerateFraction,
		},
		MissingMandatory{
			Fields:    o.MandatoryFields,
			Compare:   o.CompareColumns,
			Tolerance: o.Tolerance,
		},
	}
}
