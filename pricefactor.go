// Package pricefactor turns hotel booking source tables into a per stay day feature table
// and fits the linear price factor of ADR over it. The stages run strictly in order: noise
// filtering, schema normalization, stay expansion, calendar derivation, feature encoding and
// the price factor fit.
package pricefactor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/aouyang1/go-pricefactor/calendar"
	"github.com/aouyang1/go-pricefactor/dataset"
	"github.com/aouyang1/go-pricefactor/models"
	"github.com/aouyang1/go-pricefactor/noise"
	"github.com/aouyang1/go-pricefactor/stay"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoSources  = errors.New("no source tables")
	ErrNilSource  = errors.New("nil source table")
	ErrNoStayDays = errors.New("no stay days after filtering")
	ErrEmptyGroup = errors.New("no stay days to fit in group")
)

// Source is a raw booking table and the origin label its rows are tagged with
type Source struct {
	Origin string
	Raw    *booking.RawTable
}

// Pipeline runs every stage from raw booking tables to the fit price factor
type Pipeline struct {
	opt *Options
}

// New creates a pipeline with the provided options. If no options are provided the defaults
// are used.
func New(opt *Options) (*Pipeline, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{opt: opt}, nil
}

// Options returns the options the pipeline runs with
func (p *Pipeline) Options() *Options {
	return p.opt
}

// Run filters and normalizes every source, combines them, expands each booking into its stay
// days, derives the calendar features, builds the feature table and fits one price factor
// per group.
func (p *Pipeline) Run(sources ...Source) (*Results, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	res := &Results{
		RunID:    uuid.NewString(),
		Grouping: p.opt.Grouping,
	}
	tables := make([]booking.Table, 0, len(sources))
	for _, src := range sources {
		tbl, report, err := p.clean(src)
		if err != nil {
			return nil, err
		}
		res.Reports = append(res.Reports, report)
		res.Bookings += len(tbl)
		tables = append(tables, tbl)
	}
	combined := booking.Combine(tables...)

	days, err := stay.Expand(combined)
	if err != nil {
		return nil, fmt.Errorf("unable to expand stays, %w", err)
	}
	if len(days) == 0 {
		return nil, ErrNoStayDays
	}
	res.StayDays = len(days)

	tbl, err := calendar.Derive(days, &p.opt.Calendar)
	if err != nil {
		return nil, fmt.Errorf("unable to derive calendar features, %w", err)
	}
	ds, err := dataset.Build(tbl)
	if err != nil {
		return nil, fmt.Errorf("unable to build dataset, %w", err)
	}
	res.Dataset = ds

	groups, err := ds.Groups(p.opt.Grouping)
	if err != nil {
		return nil, err
	}
	res.Groups = make([]*GroupResult, len(groups))

	eg := new(errgroup.Group)
	for i, g := range groups {
		eg.Go(func() error {
			gr, err := p.fitGroup(ds, g)
			if err != nil {
				return fmt.Errorf("unable to fit group %s, %w", g.Name, err)
			}
			gr.Model.RunID = res.RunID
			res.Groups[i] = gr
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// clean drops the noise rows of a source and casts the remaining rows onto the schema
func (p *Pipeline) clean(src Source) (booking.Table, *noise.Report, error) {
	if src.Raw == nil {
		return nil, nil, fmt.Errorf("%s, %w", src.Origin, ErrNilSource)
	}
	report, err := noise.Filter(src.Raw, &p.opt.Noise)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to filter noise of %s, %w", src.Raw.Name, err)
	}
	kept := src.Raw.Drop(report.Union)
	slog.Info("filtered noise rows",
		"source", src.Raw.Name,
		"origin", src.Origin,
		"dropped", report.Union.Len(),
		"kept", kept.Len(),
	)

	tbl, err := booking.Normalize(kept, src.Origin)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to normalize %s, %w", src.Raw.Name, err)
	}
	return tbl, report, nil
}

func (p *Pipeline) fitGroup(ds *dataset.Dataset, g dataset.Group) (*GroupResult, error) {
	if len(g.Index) == 0 {
		return nil, ErrEmptyGroup
	}
	sub, err := ds.Subset(g.Index)
	if err != nil {
		return nil, err
	}
	train, holdout, err := dataset.Split(sub.Len(), p.opt.HoldoutFraction, p.opt.Seed)
	if err != nil {
		return nil, err
	}
	if len(train) == 0 {
		return nil, ErrEmptyGroup
	}

	trainDS, err := sub.Subset(train)
	if err != nil {
		return nil, err
	}
	xTrain, err := trainDS.Indicators()
	if err != nil {
		return nil, err
	}

	reg, err := models.NewPriceFactorRegression(dataset.PriceFactorFeatures(), &p.opt.PriceFactor)
	if err != nil {
		return nil, err
	}
	if err := reg.Fit(xTrain, trainDS.Target); err != nil {
		return nil, err
	}
	baseline := models.NewConstantRegression()
	if err := baseline.Fit(xTrain, trainDS.Target); err != nil {
		return nil, err
	}

	m, err := reg.Model()
	if err != nil {
		return nil, err
	}
	m.Group = g.Name
	m.Train, err = models.Evaluate(reg, baseline, xTrain, trainDS.Target)
	if err != nil {
		return nil, fmt.Errorf("unable to evaluate training rows, %w", err)
	}

	if len(holdout) > 0 {
		holdDS, err := sub.Subset(holdout)
		if err != nil {
			return nil, err
		}
		xHold, err := holdDS.Indicators()
		if err != nil {
			return nil, err
		}
		m.Holdout, err = models.Evaluate(reg, baseline, xHold, holdDS.Target)
		if err != nil {
			return nil, fmt.Errorf("unable to evaluate holdout rows, %w", err)
		}
	}

	x, err := sub.Indicators()
	if err != nil {
		return nil, err
	}
	factor, err := reg.Factor(x)
	if err != nil {
		return nil, err
	}

	return &GroupResult{
		Name:       g.Name,
		Index:      g.Index,
		Train:      remap(g.Index, train),
		Holdout:    remap(g.Index, holdout),
		Factor:     factor,
		Model:      m,
		Regression: reg,
	}, nil
}

// remap translates positions within a group onto dataset row indexes
func remap(index, pos []int) []int {
	res := make([]int, len(pos))
	for i, j := range pos {
		res[i] = index[j]
	}
	return res
}
