package models

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aouyang1/go-pricefactor/feature"
	"github.com/aouyang1/go-pricefactor/stats"
	"github.com/goccy/go-json"
)

// Model is the serializable format of a fit price factor regression
type Model struct {
	RunID    string              `json:"run_id,omitempty"`
	Group    string              `json:"group,omitempty"`
	BaseRate float64             `json:"base_rate"`
	Weights  Weights             `json:"weights"`
	Fit      FitStatus           `json:"fit"`
	Options  *PriceFactorOptions `json:"options,omitempty"`
	Train    *Evaluation         `json:"train,omitempty"`
	Holdout  *Evaluation         `json:"holdout,omitempty"`
}

// Weights stores the price factor weights in feature order
type Weights struct {
	Coef []FeatureWeight `json:"coefficients"`
}

// FeatureLabels returns all of the feature labels in the same order as the coefficients
func (w *Weights) FeatureLabels() ([]feature.Feature, error) {
	labels := make([]feature.Feature, 0, len(w.Coef))
	for _, fw := range w.Coef {
		feat, err := fw.ToFeature()
		if err != nil {
			return nil, err
		}
		labels = append(labels, feat)
	}
	return labels, nil
}

// Coefficients returns a slice copy of the coefficients
func (w *Weights) Coefficients() []float64 {
	coef := make([]float64, 0, len(w.Coef))
	for _, fw := range w.Coef {
		coef = append(coef, fw.Value)
	}
	return coef
}

// Map returns the weights keyed by feature name
func (w *Weights) Map() map[string]float64 {
	res := make(map[string]float64, len(w.Coef))
	for _, fw := range w.Coef {
		res[fw.Name()] = fw.Value
	}
	return res
}

// Get returns the weight of the named feature
func (w *Weights) Get(name string) (float64, bool) {
	for _, fw := range w.Coef {
		if fw.Name() == name {
			return fw.Value, true
		}
	}
	return 0, false
}

// FeatureWeight represents a feature described with a type and labels and its weight
type FeatureWeight struct {
	Labels map[string]string   `json:"labels"`
	Type   feature.FeatureType `json:"type"`
	Value  float64             `json:"value"`
}

func NewFeatureWeight(f feature.Feature, val float64) FeatureWeight {
	return FeatureWeight{
		Labels: f.Decode(),
		Type:   f.Type(),
		Value:  val,
	}
}

// Name returns the column name of the feature, falling back to its name label
func (fw FeatureWeight) Name() string {
	if feat, err := fw.ToFeature(); err == nil {
		return feat.String()
	}
	return fw.Labels["name"]
}

// ToFeature transforms the Type and Labels into a feature
func (fw *FeatureWeight) ToFeature() (feature.Feature, error) {
	if fw == nil {
		return nil, ErrUnknownFeatureType
	}

	bytes, err := json.Marshal(fw.Labels)
	if err != nil {
		return nil, err
	}

	var feat feature.Feature
	switch fw.Type {
	case feature.FeatureTypeIndicator:
		feat = new(feature.Indicator)
	case feature.FeatureTypeNumeric:
		feat = new(feature.Numeric)
	case feature.FeatureTypeCategory:
		feat = new(feature.Category)
	case feature.FeatureTypeCyclical:
		feat = new(feature.Cyclical)
	default:
		return nil, fmt.Errorf("type %d, %w", fw.Type, ErrUnknownFeatureType)
	}
	if err := json.Unmarshal(bytes, feat); err != nil {
		return nil, err
	}
	return feat, nil
}

// Marshal encodes the model as indented JSON
func (m Model) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Unmarshal decodes a model encoded by Marshal
func Unmarshal(data []byte) (Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("unable to decode price factor model, %w", err)
	}
	return m, nil
}

func indentExpand(indent string, growth int) string {
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indent...)
	}
	return string(out)
}

// TablePrint writes a human readable summary of the model
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	name := m.Group
	if name == "" {
		name = "-"
	}
	if _, err := fmt.Fprintf(w, "%sPrice Factor: %s\n", prefix, name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sBase Rate: %.3f\n", prefix, indentExpand(indent, 1), m.BaseRate); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sFit: %s    Converged: %t    Iterations: %d    MAE: %.3f\n",
		prefix, indentExpand(indent, 1),
		m.Fit.Status, m.Fit.Converged, m.Fit.Iterations, m.Fit.Objective,
	); err != nil {
		return err
	}
	for _, e := range []struct {
		name string
		eval *Evaluation
	}{{"Train", m.Train}, {"Holdout", m.Holdout}} {
		if e.eval == nil {
			continue
		}
		if err := e.eval.tablePrint(w, e.name, prefix, indent, 1); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s%sWeights:\n", prefix, indentExpand(indent, 1)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sFeature\tType\tValue\t\n", prefix, indentExpand(indent, 2)); err != nil {
		return err
	}
	for _, fw := range m.Weights.Coef {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%.4f\t\n",
			prefix, indentExpand(indent, 2),
			fw.Name(), fw.Type, fw.Value); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func (e *Evaluation) tablePrint(w io.Writer, name, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%s%s (%d rows):\n", prefix, indentExpand(indent, indentGrowth), name, e.Rows); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%s\tMAE\tMSE\tRMSE\tR2\t\n", prefix, indentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	for _, row := range []struct {
		name   string
		scores *stats.Scores
	}{{"model", e.Model}, {"baseline", e.Baseline}} {
		if row.scores == nil {
			continue
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			prefix, indentExpand(indent, indentGrowth+1), row.name,
			row.scores.MAE, row.scores.MSE, row.scores.RMSE, row.scores.R2); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
