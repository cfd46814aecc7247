package pricefactor

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aouyang1/go-pricefactor/calendar"
	"github.com/aouyang1/go-pricefactor/dataset"
	"github.com/aouyang1/go-pricefactor/models"
	"github.com/aouyang1/go-pricefactor/noise"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Options configures every stage of the price factor pipeline
type Options struct {
	Noise       noise.Options             `json:"noise" yaml:"noise"`
	Calendar    calendar.Options          `json:"calendar" yaml:"calendar"`
	PriceFactor models.PriceFactorOptions `json:"price_factor" yaml:"price_factor"`

	// HoldoutFraction is the share of stay days of each group held out of the fit
	HoldoutFraction float64 `json:"holdout_fraction" yaml:"holdout_fraction" default:"0.1" validate:"gte=0,lt=1"`
	// Seed drives the one time holdout permutation
	Seed     uint64           `json:"seed" yaml:"seed" default:"42"`
	Grouping dataset.Grouping `json:"grouping" yaml:"grouping" default:"combined" validate:"oneof=combined per_hotel"`
}

// NewDefaultOptions returns the options used for the two hotel booking sources
func NewDefaultOptions() *Options {
	opt := &Options{}
	if err := defaults.Set(opt); err != nil {
		panic(err)
	}
	return opt
}

// Validate checks every option against its validate tag
func (o *Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid options, %w", err)
	}
	return nil
}

// ParseOptions decodes YAML options on top of the defaults and validates the result
func ParseOptions(r io.Reader) (*Options, error) {
	opt := NewDefaultOptions()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read options, %w", err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, opt); err != nil {
			return nil, fmt.Errorf("unable to parse options, %w", err)
		}
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// LoadOptions reads YAML options from a file
func LoadOptions(path string) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open options %s, %w", path, err)
	}
	defer f.Close()
	return ParseOptions(f)
}
