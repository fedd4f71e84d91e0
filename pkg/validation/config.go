// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"
)

// ModelInfo carries the configuration values the model warnings depend on.
type ModelInfo struct {
	BaseDiversionRate    float64
	BaseAdverseRate      float64
	ReductionCoefficient float64
	MinAdverseRate       float64
	SaturationPoint      float64
	SliderMin            float64
	SliderMax            float64
	SliderStep           float64
	BaseUtilization      float64
	FullCapacity         float64
}

// ValidateModel returns human-readable warnings about model settings that are
// valid but likely to surprise a reader of the projections.
func ValidateModel(info ModelInfo) []string {
	var warnings []string

	ceiling := (1 - info.BaseDiversionRate) * 100
	if info.SliderMax > ceiling {
		warnings = append(warnings, fmt.Sprintf(
			"slider maximum +%.1f pp exceeds the diversion ceiling +%.1f pp; larger inputs are clamped",
			info.SliderMax, ceiling))
	}

	switch {
	case info.MinAdverseRate >= info.BaseAdverseRate:
		warnings = append(warnings, fmt.Sprintf(
			"minimum adverse rate %.3f is not below the baseline %.3f; no reduction can be projected",
			info.MinAdverseRate, info.BaseAdverseRate))
	case info.ReductionCoefficient == 0:
		warnings = append(warnings, "reduction coefficient is zero; every scenario only adds diversion cost")
	default:
		if info.SaturationPoint < info.SliderMax {
			warnings = append(warnings, fmt.Sprintf(
				"adverse rate reaches the floor at +%.1f pp; increases above it only add cost",
				info.SaturationPoint))
		}
	}

	if info.FullCapacity > 0 {
		headroom := info.FullCapacity - info.BaseUtilization
		if headroom < info.SliderMax {
			warnings = append(warnings, fmt.Sprintf(
				"follow-up care capacity is exceeded above +%.1f pp", math.Max(0, headroom)))
		}
	}

	if info.SliderStep > 0 {
		steps := (info.SliderMax - info.SliderMin) / info.SliderStep
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			warnings = append(warnings, fmt.Sprintf(
				"slider step %.2f does not divide the range %.2f..%.2f evenly",
				info.SliderStep, info.SliderMin, info.SliderMax))
		}
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
