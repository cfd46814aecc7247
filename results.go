package pricefactor

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/aouyang1/go-pricefactor/dataset"
	"github.com/aouyang1/go-pricefactor/models"
	"github.com/aouyang1/go-pricefactor/noise"
	"github.com/goccy/go-json"
)

// Artifact file names written by WriteArtifacts
const (
	FeaturesFile = "features.csv"
	HoldoutFile  = "holdout.csv"
	SummaryFile  = "summary.json"
)

// GroupResult holds the fit price factor of a single group. Index, Train and Holdout are
// dataset row indexes and Factor is aligned with Index.
type GroupResult struct {
	Name       string
	Index      []int
	Train      []int
	Holdout    []int
	Factor     []float64
	Model      models.Model
	Regression *models.PriceFactorRegression
}

// Results of a pipeline run
type Results struct {
	RunID    string
	Grouping dataset.Grouping
	Reports  []*noise.Report
	// Bookings is the number of bookings left after noise filtering and StayDays the number
	// of rows after stay expansion
	Bookings int
	StayDays int
	Dataset  *dataset.Dataset
	Groups   []*GroupResult
}

// Group returns the result of the named group
func (r *Results) Group(name string) (*GroupResult, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// PriceFactor returns the price factor of every dataset row
func (r *Results) PriceFactor() []float64 {
	res := make([]float64, r.Dataset.Len())
	for _, g := range r.Groups {
		for i, j := range g.Index {
			res[j] = g.Factor[i]
		}
	}
	return res
}

// Summary is the persisted overview of a run
type Summary struct {
	RunID    string           `json:"run_id"`
	Grouping dataset.Grouping `json:"grouping"`
	Bookings int              `json:"bookings"`
	StayDays int              `json:"stay_days"`
	Noise    []NoiseSummary   `json:"noise"`
	Groups   []string         `json:"groups"`
}

// NoiseSummary counts the rows each noise rule dropped from a source
type NoiseSummary struct {
	Source    string         `json:"source"`
	Dropped   int            `json:"dropped"`
	PerRule   map[string]int `json:"per_rule"`
	Passes    int            `json:"passes"`
	Converged bool           `json:"converged"`
}

// Summary returns the persisted overview of the run
func (r *Results) Summary() Summary {
	s := Summary{
		RunID:    r.RunID,
		Grouping: r.Grouping,
		Bookings: r.Bookings,
		StayDays: r.StayDays,
	}
	for _, rep := range r.Reports {
		s.Noise = append(s.Noise, NoiseSummary{
			Source:    rep.Source,
			Dropped:   rep.Union.Len(),
			PerRule:   rep.Counts(),
			Passes:    rep.Passes,
			Converged: rep.Converged,
		})
	}
	for _, g := range r.Groups {
		s.Groups = append(s.Groups, g.Name)
	}
	return s
}

// WriteArtifacts persists the run into dir: per group the full model and the name to weight
// mapping as JSON, the training and holdout feature tables with the price factor as CSV and
// a summary of the run.
func (r *Results) WriteArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create artifact directory, %w", err)
	}
	for _, g := range r.Groups {
		name := fileName(g.Name)
		data, err := g.Model.Marshal()
		if err != nil {
			return fmt.Errorf("unable to encode model of %s, %w", g.Name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "model_"+name+".json"), data, 0o644); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(dir, "weights_"+name+".json"), g.Model.Weights.Map()); err != nil {
			return err
		}
	}

	var train, holdout []int
	for _, g := range r.Groups {
		train = append(train, g.Train...)
		holdout = append(holdout, g.Holdout...)
	}
	slices.Sort(train)
	slices.Sort(holdout)
	if err := r.writeTableFile(filepath.Join(dir, FeaturesFile), train); err != nil {
		return err
	}
	if err := r.writeTableFile(filepath.Join(dir, HoldoutFile), holdout); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, SummaryFile), r.Summary())
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode %s, %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (r *Results) writeTableFile(path string, rows []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s, %w", path, err)
	}
	defer f.Close()
	if err := r.WriteTable(f, rows); err != nil {
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return f.Close()
}

// WriteTable writes the given dataset rows as CSV with the stay date, every encoded feature,
// the price factor and the ADR target.
func (r *Results) WriteTable(w io.Writer, rows []int) error {
	ds := r.Dataset
	names := ds.Features.Labels().Names()
	header := make([]string, 0, len(names)+4)
	header = append(header, "Group", "StayDate")
	header = append(header, names...)
	header = append(header, dataset.ColPriceFactor, "ADR")

	groupOf := make(map[int]string, ds.Len())
	for _, g := range r.Groups {
		for _, j := range g.Index {
			groupOf[j] = g.Name
		}
	}
	factor := r.PriceFactor()

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	x := ds.Features.Matrix(false)
	record := make([]string, len(header))
	for _, j := range rows {
		record[0] = groupOf[j]
		record[1] = ds.Table.Days[j].StayDate.Format("2006-01-02")
		for c := range names {
			record[2+c] = formatFloat(x.At(j, c))
		}
		record[len(header)-2] = formatFloat(factor[j])
		record[len(header)-1] = formatFloat(ds.Target[j])
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, name)
}
