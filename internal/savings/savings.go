// Package savings estimates the yearly savings of starting follow-up care
// sooner: faster onset moves patients out of the critical waiting window.
package savings

import (
	"fmt"
	"math"

	"github.com/iwvelando/care-forecast/pkg/constants"
	"github.com/iwvelando/care-forecast/pkg/mathutil"
)

// Calculator holds the assumptions of the savings model.
type Calculator struct {
	CriticalPatients  int     `mapstructure:"criticalPatients" yaml:"criticalPatients" json:"criticalPatients"`
	SavingsPerPatient float64 `mapstructure:"savingsPerPatient" yaml:"savingsPerPatient" json:"savingsPerPatient"`
	MaxEfficiency     float64 `mapstructure:"maxEfficiency" yaml:"maxEfficiency" json:"maxEfficiency"`
}

// Estimate is the projected effect of an efficiency improvement.
type Estimate struct {
	RequestedEfficiency float64 `json:"requestedEfficiency"`
	AppliedEfficiency   float64 `json:"appliedEfficiency"`
	PatientsMoved       int     `json:"patientsMoved"`
	SavedCost           float64 `json:"savedCost"`
	SavedCostMillions   string  `json:"savedCostMillions"`
}

// Default returns the dashboard's calculator: 450 patients in the critical
// zone, 40 000 saved per patient moved to the optimal zone.
func Default() Calculator {
	return Calculator{
		CriticalPatients:  constants.DefaultCriticalPatients,
		SavingsPerPatient: constants.DefaultSavingsPerPatient,
		MaxEfficiency:     constants.DefaultMaxEfficiency,
	}
}

// Validate checks the calculator assumptions.
func (c Calculator) Validate() error {
	if c.CriticalPatients < 0 {
		return fmt.Errorf("criticalPatients must not be negative, got %d", c.CriticalPatients)
	}
	if c.SavingsPerPatient < 0 {
		return fmt.Errorf("savingsPerPatient must not be negative, got %v", c.SavingsPerPatient)
	}
	if c.MaxEfficiency <= 0 || c.MaxEfficiency > 100 {
		return fmt.Errorf("maxEfficiency must be within (0,100], got %v", c.MaxEfficiency)
	}
	return nil
}

// Schedule evaluates every efficiency gain from zero to MaxEfficiency in
// increments of step. MaxEfficiency is always included.
func (c Calculator) Schedule(step float64) ([]Estimate, error) {
	if !mathutil.IsFinite(step) || step <= 0 {
		return nil, fmt.Errorf("step must be a positive number, got %v", step)
	}
	n := int(math.Floor(c.MaxEfficiency/step + 1e-9))
	estimates := make([]Estimate, 0, n+2)
	for i := 0; i <= n; i++ {
		estimates = append(estimates, c.Compute(float64(i)*step))
	}
	if last := estimates[len(estimates)-1].AppliedEfficiency; math.Abs(last-c.MaxEfficiency) > 1e-9 {
		estimates = append(estimates, c.Compute(c.MaxEfficiency))
	}
	return estimates, nil
}

// Compute estimates savings for an efficiency improvement given in percent.
// The input is clamped to [0, MaxEfficiency].
func (c Calculator) Compute(efficiencyPercent float64) Estimate {
	applied := mathutil.Clamp(efficiencyPercent, 0, c.MaxEfficiency)
	if !mathutil.IsFinite(efficiencyPercent) {
		efficiencyPercent = applied
	}
	moved := int(math.Floor(applied / constants.PercentageMultiplier * float64(c.CriticalPatients)))
	saved := float64(moved) * c.SavingsPerPatient
	return Estimate{
		RequestedEfficiency: efficiencyPercent,
		AppliedEfficiency:   applied,
		PatientsMoved:       moved,
		SavedCost:           saved,
		SavedCostMillions:   fmt.Sprintf("%.1f", saved/1e6),
	}
}
