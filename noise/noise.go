// Package noise identifies anomalous booking rows with rules evaluated on descriptive
// statistics of the whole source table. Rules only report identifiers, removal is left to
// the caller through booking.RawTable.Drop.
package noise

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/aouyang1/go-pricefactor/stats"
)

var (
	ErrNilTable = errors.New("nil table")
	ErrNoRules  = errors.New("no noise rules")
)

// Rule reports the identifiers of the rows of a table that violate it
type Rule interface {
	Name() string
	Apply(raw *booking.RawTable) (booking.IDSet, error)
}

// Report holds the identifiers found by each rule and their union
type Report struct {
	Source    string                   `json:"source"`
	PerRule   map[string]booking.IDSet `json:"-"`
	Union     booking.IDSet            `json:"-"`
	Passes    int                      `json:"passes"`
	Converged bool                     `json:"converged"`
}

// Counts returns the number of identifiers found per rule
func (r *Report) Counts() map[string]int {
	res := make(map[string]int, len(r.PerRule))
	for name, ids := range r.PerRule {
		res[name] = ids.Len()
	}
	return res
}

// Filter evaluates the rules of the options on the raw table
func Filter(raw *booking.RawTable, opt *Options) (*Report, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return FilterRules(raw, opt.MaxPasses, opt.Rules()...)
}

// FilterRules evaluates every rule on the table, drops the union of their findings and
// repeats on what is left until a pass finds nothing or maxPasses is reached. A converged
// report guarantees that filtering raw.Drop(report.Union) again finds no rows.
func FilterRules(raw *booking.RawTable, maxPasses int, rules ...Rule) (*Report, error) {
	if raw == nil {
		return nil, ErrNilTable
	}
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	if maxPasses < 1 {
		maxPasses = 1
	}

	report := &Report{
		Source:  raw.Name,
		PerRule: make(map[string]booking.IDSet, len(rules)),
		Union:   booking.NewIDSet(),
	}
	for _, rule := range rules {
		report.PerRule[rule.Name()] = booking.NewIDSet()
	}

	cur := raw
	for report.Passes < maxPasses {
		report.Passes++

		found := booking.NewIDSet()
		for _, rule := range rules {
			ids, err := rule.Apply(cur)
			if err != nil {
				return nil, fmt.Errorf("unable to apply noise rule %s on %s, %w", rule.Name(), raw.Name, err)
			}
			report.PerRule[rule.Name()] = report.PerRule[rule.Name()].Union(ids)
			found = found.Union(ids)
		}
		if found.Len() == 0 {
			report.Converged = true
			break
		}
		report.Union = report.Union.Union(found)
		cur = cur.Drop(found)
	}
	if !report.Converged {
		slog.Warn("noise filter did not reach a fixed point", "source", raw.Name, "passes", report.Passes, "dropped", report.Union.Len())
	}
	return report, nil
}

// NegativeADR flags rows with an ADR below the floor
type NegativeADR struct {
	Floor float64
}

func (r NegativeADR) Name() string {
	return "negative_adr"
}

func (r NegativeADR) Apply(raw *booking.RawTable) (booking.IDSet, error) {
	adr, err := raw.Float(booking.ColADR)
	if err != nil {
		return nil, err
	}
	ids := booking.NewIDSet()
	for i, v := range adr {
		if v < r.Floor {
			ids.Add(raw.IDs[i])
		}
	}
	return ids, nil
}

// IsolatedADR flags ADR values above the Tukey upper fence when no other row reaches
// IsolationRatio of the value.
type IsolatedADR struct {
	TukeyFactor    float64
	IsolationRatio float64
}

func (r IsolatedADR) Name() string {
	return "isolated_adr"
}

func (r IsolatedADR) Apply(raw *booking.RawTable) (booking.IDSet, error) {
	adr, err := raw.Float(booking.ColADR)
	if err != nil {
		return nil, err
	}
	ids := booking.NewIDSet()
	median := stats.Describe(adr).Median
	for _, idx := range stats.DetectOutliers(adr, 0.25, 0.75, r.TukeyFactor) {
		v := adr[idx]
		if v <= median {
			continue
		}
		if !r.supported(adr, idx) {
			ids.Add(raw.IDs[idx])
		}
	}
	return ids, nil
}

func (r IsolatedADR) supported(adr []float64, idx int) bool {
	threshold := adr[idx] * r.IsolationRatio
	for i, v := range adr {
		if i == idx || math.IsNaN(v) {
			continue
		}
		if v >= threshold {
			return true
		}
	}
	return false
}

// DegenerateGroup flags every row of a sparsely populated high value of Column when its
// rows are constant in at least Fraction of the probe columns.
type DegenerateGroup struct {
	Column       string
	MinValue     float64
	MaxGroupSize int
	Probes       []string
	Fraction     float64
}

func (r DegenerateGroup) Name() string {
	return "degenerate_group"
}

func (r DegenerateGroup) Apply(raw *booking.RawTable) (booking.IDSet, error) {
	vals, err := raw.Float(r.Column)
	if err != nil {
		return nil, err
	}
	probes := make([][]float64, 0, len(r.Probes))
	for _, name := range r.Probes {
		p, err := raw.Float(name)
		if err != nil {
			return nil, fmt.Errorf("unable to read probe column, %w", err)
		}
		probes = append(probes, p)
	}

	groups := make(map[float64][]int)
	for i, v := range vals {
		if math.IsNaN(v) || v < r.MinValue {
			continue
		}
		groups[v] = append(groups[v], i)
	}

	ids := booking.NewIDSet()
	for _, rows := range groups {
		if len(rows) < 2 || len(rows) > r.MaxGroupSize {
			continue
		}
		if r.degenerate(rows, probes) {
			for _, i := range rows {
				ids.Add(raw.IDs[i])
			}
		}
	}
	return ids, nil
}

func (r DegenerateGroup) degenerate(rows []int, probes [][]float64) bool {
	if len(probes) == 0 {
		return false
	}
	var constant int
	sub := make([]float64, len(rows))
	for _, p := range probes {
		for j, i := range rows {
			sub[j] = p[i]
		}
		if stats.ZeroVariance(sub) {
			constant++
		}
	}
	return float64(constant)/float64(len(probes)) >= r.Fraction
}

// MissingMandatory flags rows with a missing value in any of the mandatory fields, only if
// removing them shifts the mean and standard deviation of every compared column by no
// more than Tolerance.
type MissingMandatory struct {
	Fields    []string
	Compare   []string
	Tolerance float64
}

func (r MissingMandatory) Name() string {
	return "missing_mandatory"
}

func (r MissingMandatory) Apply(raw *booking.RawTable) (booking.IDSet, error) {
	missing := make([]bool, raw.Len())
	ids := booking.NewIDSet()
	for _, field := range r.Fields {
		cells, err := raw.Column(field)
		if err != nil {
			return nil, err
		}
		for i, c := range cells {
			if booking.IsMissing(c) {
				missing[i] = true
				ids.Add(raw.IDs[i])
			}
		}
	}
	if ids.Len() == 0 {
		return ids, nil
	}

	for _, name := range r.Compare {
		vals, err := raw.Float(name)
		if err != nil {
			return nil, fmt.Errorf("unable to read compare column, %w", err)
		}
		kept := make([]float64, 0, len(vals))
		for i, v := range vals {
			if !missing[i] {
				kept = append(kept, v)
			}
		}
		before := stats.Describe(vals)
		after := stats.Describe(kept)
		meanShift := stats.Shift(before.Mean, after.Mean)
		stdShift := stats.Shift(before.Std, after.Std)
		if meanShift > r.Tolerance || stdShift > r.Tolerance {
			slog.Warn("keeping rows with missing mandatory fields, dropping them shifts the distribution",
				"source", raw.Name,
				"rows", ids.Len(),
				"column", name,
				"mean_shift", meanShift,
				"std_shift", stdShift,
			)
			return booking.NewIDSet(), nil
		}
	}
	return ids, nil
}
