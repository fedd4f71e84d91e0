package simulation

import (
	"fmt"
	"math"

	"github.com/iwvelando/care-forecast/pkg/constants"
)

// maxSweepPoints bounds the size of a single sweep.
const maxSweepPoints = 10000

// Range describes the slider domain a sweep walks through.
type Range struct {
	Min  float64 `mapstructure:"min" yaml:"min" json:"min"`
	Max  float64 `mapstructure:"max" yaml:"max" json:"max"`
	Step float64 `mapstructure:"step" yaml:"step" json:"step"`
}

// Point pairs an input value with its projected result.
type Point struct {
	Increase float64 `json:"increase"`
	Result   Result  `json:"result"`
}

// DefaultRange returns the slider bounds used by the dashboard (0 to 40 in steps of 5).
func DefaultRange() Range {
	return Range{
		Min:  constants.DefaultSliderMin,
		Max:  constants.DefaultSliderMax,
		Step: constants.DefaultSliderStep,
	}
}

// Validate checks that the range is well formed.
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsNaN(r.Step) {
		return fmt.Errorf("range values must be numbers")
	}
	if r.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", r.Step)
	}
	if r.Max < r.Min {
		return fmt.Errorf("max %v is below min %v", r.Max, r.Min)
	}
	if (r.Max-r.Min)/r.Step+1 > maxSweepPoints {
		return fmt.Errorf("range %v..%v step %v exceeds %d points", r.Min, r.Max, r.Step, maxSweepPoints)
	}
	return nil
}

// Values lists every slider position in the range, always including Max.
func (r Range) Values() []float64 {
	n := int(math.Floor((r.Max-r.Min)/r.Step + 1e-9))
	values := make([]float64, 0, n+2)
	for i := 0; i <= n; i++ {
		values = append(values, r.Min+float64(i)*r.Step)
	}
	if last := values[len(values)-1]; math.Abs(last-r.Max) > 1e-9 {
		values = append(values, r.Max)
	}
	return values
}

// Sweep evaluates the model at every position of the range.
func (s *Simulator) Sweep(r Range) ([]Point, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep range: %w", err)
	}
	values := r.Values()
	points := make([]Point, 0, len(values))
	for _, v := range values {
		points = append(points, Point{Increase: v, Result: s.ComputeImpact(v)})
	}
	return points, nil
}
