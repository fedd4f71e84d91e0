// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/care-forecast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundHalfUp rounds half-way values towards positive infinity, matching the
// rounding used by the dashboard (e.g. -2.5 becomes -2).
func RoundHalfUp(val float64) float64 {
	return math.Floor(val + 0.5)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp bounds val to [lo, hi]. NaN is mapped to lo.
func Clamp(val, lo, hi float64) float64 {
	if math.IsNaN(val) {
		return lo
	}
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// IsFraction reports whether val lies in [0, 1].
func IsFraction(val float64) bool {
	return !math.IsNaN(val) && val >= 0 && val <= 1
}

// ToPercent converts a fraction into percent.
func ToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}

// PointsToFraction converts a percentage-point delta into a fraction.
func PointsToFraction(points float64) float64 {
	return points / constants.PercentagePoints
}
