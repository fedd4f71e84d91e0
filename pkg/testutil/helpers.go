// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/care-forecast/internal/simulation"
)

// increaseTolerance absorbs float drift in slider positions such as 0.1 * 3.
const increaseTolerance = 1e-9

// FindIncrease finds the result for an applied increase in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindIncrease(results []simulation.Result, increase float64) *simulation.Result {
	for i := range results {
		if math.Abs(results[i].AppliedIncrease-increase) <= increaseTolerance {
			return &results[i]
		}
	}
	return nil
}

// FindPoint finds the sweep point for an increase.
func FindPoint(points []simulation.Point, increase float64) *simulation.Point {
	for i := range points {
		if math.Abs(points[i].Increase-increase) <= increaseTolerance {
			return &points[i]
		}
	}
	return nil
}
