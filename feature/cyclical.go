package feature

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNonPositivePeriod = errors.New("non positive period")

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// Theoretical maximum of the periodic calendar quantities. Day of week counts 0 for Monday
// through 6 for Sunday.
const (
	PeriodMonth      = 12
	PeriodWeek       = 53
	PeriodDayOfMonth = 31
	PeriodDayOfWeek  = 6
)

// Cyclical is one component of the sine and cosine pair encoding a periodic integer
type Cyclical struct {
	Name        string      `json:"name"`
	FourierComp FourierComp `json:"fourier_component"`
	Period      int         `json:"period"`
}

// NewCyclical creates a new cyclical feature component
func NewCyclical(name string, fcomp FourierComp, period int) *Cyclical {
	return &Cyclical{name, fcomp, period}
}

func (c Cyclical) String() string {
	return fmt.Sprintf("%s_%s", c.Name, c.FourierComp)
}

func (c Cyclical) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	case "fourier_component":
		return string(c.FourierComp), true
	case "period":
		return strconv.Itoa(c.Period), true
	}
	return "", false
}

func (c Cyclical) Type() FeatureType {
	return FeatureTypeCyclical
}

func (c Cyclical) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = c.Name
	res["fourier_component"] = string(c.FourierComp)
	res["period"] = strconv.Itoa(c.Period)
	return res
}

// UnmarshalJSON accepts the period either as a number or as the decoded string label
func (c *Cyclical) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name        string          `json:"name"`
		FourierComp FourierComp     `json:"fourier_component"`
		Period      json.RawMessage `json:"period"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	c.Name = labelStr.Name
	c.FourierComp = labelStr.FourierComp

	raw := strings.Trim(string(labelStr.Period), `"`)
	if raw == "" {
		c.Period = 0
		return nil
	}
	period, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	c.Period = period
	return nil
}

// Encode maps a periodic value onto the unit circle as sin(2πf/period), cos(2πf/period).
// Values 0 and period map onto the same point.
func Encode(value, period int) (float64, float64) {
	angle := 2.0 * math.Pi * float64(value) / float64(period)
	return math.Sin(angle), math.Cos(angle)
}

// EncodeAll encodes every value with the theoretical period of the quantity
func EncodeAll(values []int, period int) ([]float64, []float64, error) {
	if period <= 0 {
		return nil, nil, fmt.Errorf("period %d, %w", period, ErrNonPositivePeriod)
	}
	sin := make([]float64, len(values))
	cos := make([]float64, len(values))
	for i, v := range values {
		sin[i], cos[i] = Encode(v, period)
	}
	return sin, cos, nil
}

// SetCyclical encodes the values and stores both components in the set
func (s *Set) SetCyclical(name string, values []int, period int) error {
	sin, cos, err := EncodeAll(values, period)
	if err != nil {
		return fmt.Errorf("unable to encode %s, %w", name, err)
	}
	if err := s.Set(NewCyclical(name, FourierCompSin, period), sin); err != nil {
		return err
	}
	return s.Set(NewCyclical(name, FourierCompCos, period), cos)
}
