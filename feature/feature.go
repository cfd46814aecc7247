// Package feature contains the labelled columns of the stay day feature table, the
// cyclical encoding of periodic calendar quantities and the category code encoding.
package feature

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

type FeatureType int

const (
	FeatureTypeIndicator FeatureType = iota
	FeatureTypeNumeric
	FeatureTypeCategory
	FeatureTypeCyclical
)

func (f FeatureType) String() string {
	switch f {
	case FeatureTypeIndicator:
		return "indicator"
	case FeatureTypeNumeric:
		return "numeric"
	case FeatureTypeCategory:
		return "category"
	case FeatureTypeCyclical:
		return "cyclical"
	}
	return "unknown"
}

type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

// Indicator is a 0/1 flag column
type Indicator struct {
	Name string `json:"name"`
}

// NewIndicator creates a new indicator feature given a name
func NewIndicator(name string) *Indicator {
	return &Indicator{name}
}

func (i Indicator) String() string {
	return i.Name
}

// Get returns the value of an arbitrary label and whether the label exists
func (i Indicator) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return i.Name, true
	}
	return "", false
}

func (i Indicator) Type() FeatureType {
	return FeatureTypeIndicator
}

func (i Indicator) Decode() map[string]string {
	return map[string]string{"name": i.Name}
}

// Numeric is a count or amount column used as is
type Numeric struct {
	Name string `json:"name"`
}

// NewNumeric creates a new numeric feature given a name
func NewNumeric(name string) *Numeric {
	return &Numeric{name}
}

func (n Numeric) String() string {
	return n.Name
}

func (n Numeric) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return n.Name, true
	}
	return "", false
}

func (n Numeric) Type() FeatureType {
	return FeatureTypeNumeric
}

func (n Numeric) Decode() map[string]string {
	return map[string]string{"name": n.Name}
}

// Category is the integer code of a categorical column, codes index the sorted levels
type Category struct {
	Name string `json:"name"`
}

// NewCategory creates a new category feature given a name
func NewCategory(name string) *Category {
	return &Category{name}
}

func (c Category) String() string {
	return fmt.Sprintf("%s_code", c.Name)
}

func (c Category) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	}
	return "", false
}

func (c Category) Type() FeatureType {
	return FeatureTypeCategory
}

func (c Category) Decode() map[string]string {
	return map[string]string{"name": c.Name}
}

// UnmarshalJSON is the custom unmarshalling to convert a map[string]string to a category
// feature
func (c *Category) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	c.Name = labelStr.Name
	return nil
}
