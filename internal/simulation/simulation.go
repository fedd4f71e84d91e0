// Package simulation implements the what-if impact model: given an increase in
// the rate of patients diverted to follow-up care, it projects how many adverse
// outcomes (readmissions) are avoided and what the change costs.
package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/care-forecast/pkg/mathutil"
)

const (
	// DefaultReductionCoefficient is the adverse-rate reduction per percentage
	// point of diversion increase. Each point removes half a point of adverse
	// rate. Illustrative linear assumption, not fitted to data.
	DefaultReductionCoefficient = 0.005

	// DefaultMinAdverseRate is the floor below which the adverse rate is never
	// projected.
	DefaultMinAdverseRate = 0.02
)

// BaselineProfile holds the fixed statistics a scenario is compared against.
type BaselineProfile struct {
	TotalCohortSize   int     `mapstructure:"totalCohortSize" yaml:"totalCohortSize" json:"totalCohortSize"`
	BaseDiversionRate float64 `mapstructure:"baseDiversionRate" yaml:"baseDiversionRate" json:"baseDiversionRate"`
	BaseAdverseRate   float64 `mapstructure:"baseAdverseRate" yaml:"baseAdverseRate" json:"baseAdverseRate"`
	UnitCostAdverse   float64 `mapstructure:"unitCostAdverse" yaml:"unitCostAdverse" json:"unitCostAdverse"`
	UnitCostDiversion float64 `mapstructure:"unitCostDiversion" yaml:"unitCostDiversion" json:"unitCostDiversion"`
}

// Model holds the coefficients of the linear reduction model.
type Model struct {
	ReductionCoefficient float64 `mapstructure:"reductionCoefficient" yaml:"reductionCoefficient" json:"reductionCoefficient"`
	MinAdverseRate       float64 `mapstructure:"minAdverseRate" yaml:"minAdverseRate" json:"minAdverseRate"`
}

// Result is the projected outcome of one diversion increase.
type Result struct {
	RequestedIncrease     float64 `json:"requestedIncrease"`
	AppliedIncrease       float64 `json:"appliedIncrease"`
	NewDiversionRate      float64 `json:"newDiversionRate"`
	NewAdverseRate        float64 `json:"newAdverseRate"`
	NewAdverseRatePercent string  `json:"newAdverseRatePercent"`
	AvoidedAdverseCount   int     `json:"avoidedAdverseCount"`
	NetFinancialBalance   int64   `json:"netFinancialBalance"`
}

// DefaultBaseline returns the cohort profile used by the dashboard.
func DefaultBaseline() BaselineProfile {
	return BaselineProfile{
		TotalCohortSize:   1000,
		BaseDiversionRate: 0.15,
		BaseAdverseRate:   0.12,
		UnitCostAdverse:   45000,
		UnitCostDiversion: 25000,
	}
}

// DefaultModel returns the default linear model coefficients.
func DefaultModel() Model {
	return Model{
		ReductionCoefficient: DefaultReductionCoefficient,
		MinAdverseRate:       DefaultMinAdverseRate,
	}
}

// Validate checks that the baseline describes a usable cohort.
func (b BaselineProfile) Validate() error {
	var errs []error
	if b.TotalCohortSize <= 0 {
		errs = append(errs, fmt.Errorf("totalCohortSize must be positive, got %d", b.TotalCohortSize))
	}
	if !mathutil.IsFraction(b.BaseDiversionRate) {
		errs = append(errs, fmt.Errorf("baseDiversionRate must be within [0,1], got %v", b.BaseDiversionRate))
	}
	if !mathutil.IsFraction(b.BaseAdverseRate) {
		errs = append(errs, fmt.Errorf("baseAdverseRate must be within [0,1], got %v", b.BaseAdverseRate))
	}
	if b.UnitCostAdverse < 0 || math.IsNaN(b.UnitCostAdverse) {
		errs = append(errs, fmt.Errorf("unitCostAdverse must not be negative, got %v", b.UnitCostAdverse))
	}
	if b.UnitCostDiversion < 0 || math.IsNaN(b.UnitCostDiversion) {
		errs = append(errs, fmt.Errorf("unitCostDiversion must not be negative, got %v", b.UnitCostDiversion))
	}
	return errors.Join(errs...)
}

// Validate checks the model coefficients.
func (m Model) Validate() error {
	var errs []error
	if m.ReductionCoefficient < 0 || math.IsNaN(m.ReductionCoefficient) {
		errs = append(errs, fmt.Errorf("reductionCoefficient must not be negative, got %v", m.ReductionCoefficient))
	}
	if !mathutil.IsFraction(m.MinAdverseRate) {
		errs = append(errs, fmt.Errorf("minAdverseRate must be within [0,1], got %v", m.MinAdverseRate))
	}
	return errors.Join(errs...)
}

// MaxIncrease is the largest diversion increase, in percentage points, that
// keeps the diversion rate at or below 100%.
func (b BaselineProfile) MaxIncrease() float64 {
	return math.Max(0, (1-b.BaseDiversionRate)*100)
}

// ComputeImpact projects the effect of raising the diversion rate by
// increasePoints percentage points. Out-of-range input is clamped to
// [0, MaxIncrease]; it never fails.
func ComputeImpact(baseline BaselineProfile, model Model, increasePoints float64) Result {
	applied := mathutil.Clamp(increasePoints, 0, baseline.MaxIncrease())
	requested := increasePoints
	if !mathutil.IsFinite(requested) {
		requested = applied
	}
	cohort := float64(baseline.TotalCohortSize)

	newDiversionRate := baseline.BaseDiversionRate + mathutil.PointsToFraction(applied)
	reduction := applied * model.ReductionCoefficient
	newAdverseRate := math.Max(model.MinAdverseRate, baseline.BaseAdverseRate-reduction)
	// A floor above the baseline must not project more adverse events.
	newAdverseRate = math.Min(newAdverseRate, baseline.BaseAdverseRate)

	newDiversionCost := cohort * newDiversionRate * baseline.UnitCostDiversion
	newAdverseCost := cohort * newAdverseRate * baseline.UnitCostAdverse
	baseDiversionCost := cohort * baseline.BaseDiversionRate * baseline.UnitCostDiversion
	baseAdverseCost := cohort * baseline.BaseAdverseRate * baseline.UnitCostAdverse

	avoided := mathutil.RoundHalfUp(cohort * (baseline.BaseAdverseRate - newAdverseRate))
	balance := mathutil.RoundHalfUp((baseAdverseCost - newAdverseCost) - (newDiversionCost - baseDiversionCost))

	return Result{
		RequestedIncrease:     requested,
		AppliedIncrease:       applied,
		NewDiversionRate:      newDiversionRate,
		NewAdverseRate:        newAdverseRate,
		NewAdverseRatePercent: FormatRatePercent(newAdverseRate),
		AvoidedAdverseCount:   int(math.Max(0, avoided)),
		NetFinancialBalance:   int64(balance),
	}
}

// FormatRatePercent renders a fraction as a percentage with one decimal place.
func FormatRatePercent(rate float64) string {
	return fmt.Sprintf("%.1f", mathutil.ToPercent(rate))
}

// Simulator evaluates the impact model against a fixed baseline.
type Simulator struct {
	baseline BaselineProfile
	model    Model
}

// NewSimulator validates the baseline and model and returns a Simulator.
func NewSimulator(baseline BaselineProfile, model Model) (*Simulator, error) {
	if err := baseline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid baseline profile: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &Simulator{baseline: baseline, model: model}, nil
}

// Baseline returns a copy of the simulator's baseline profile.
func (s *Simulator) Baseline() BaselineProfile {
	return s.baseline
}

// Model returns a copy of the simulator's model coefficients.
func (s *Simulator) Model() Model {
	return s.model
}

// ComputeImpact evaluates the model for one diversion increase.
func (s *Simulator) ComputeImpact(increasePoints float64) Result {
	return ComputeImpact(s.baseline, s.model, increasePoints)
}

// SaturationPoint is the diversion increase at which the adverse rate reaches
// the model floor. It returns +Inf when the coefficient is zero.
func SaturationPoint(baseline BaselineProfile, model Model) float64 {
	if model.ReductionCoefficient == 0 {
		return math.Inf(1)
	}
	gap := baseline.BaseAdverseRate - model.MinAdverseRate
	if gap <= 0 {
		return 0
	}
	return gap / model.ReductionCoefficient
}
