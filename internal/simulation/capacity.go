package simulation

import (
	"github.com/iwvelando/care-forecast/pkg/constants"
)

// CapacityProfile describes how busy follow-up-care facilities already are.
type CapacityProfile struct {
	BaseUtilization float64 `mapstructure:"baseUtilization" yaml:"baseUtilization" json:"baseUtilization"`
	FullCapacity    float64 `mapstructure:"fullCapacity" yaml:"fullCapacity" json:"fullCapacity"`
}

// Capacity is the projected facility load for a diversion increase.
type Capacity struct {
	Utilization float64 `json:"utilization"`
	Overloaded  bool    `json:"overloaded"`
}

// DefaultCapacity returns the current dashboard capacity assumptions.
func DefaultCapacity() CapacityProfile {
	return CapacityProfile{
		BaseUtilization: constants.DefaultBaseUtilization,
		FullCapacity:    constants.FullCapacity,
	}
}

// Capacity projects facility utilization, in percent, after applying the
// (clamped) increase. Each point of diversion adds one point of utilization.
func (s *Simulator) Capacity(increasePoints float64, profile CapacityProfile) Capacity {
	applied := s.ComputeImpact(increasePoints).AppliedIncrease
	full := profile.FullCapacity
	if full <= 0 {
		full = constants.FullCapacity
	}
	utilization := profile.BaseUtilization + applied
	return Capacity{
		Utilization: utilization,
		Overloaded:  utilization > full,
	}
}
