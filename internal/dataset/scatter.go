package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// MaxScatterPoints bounds the number of generated scatter points.
const MaxScatterPoints = 1000

// DefaultScatterPoints is the number of points shown when none is requested.
const DefaultScatterPoints = 50

// AnomalyScatterPoints is the number of ordinary stays plotted around the
// flagged outliers.
const AnomalyScatterPoints = 45

// Scatter outcome labels.
const (
	OutcomeOK           = "OK"
	OutcomeComplication = "complication"
)

// Anomaly scatter point kinds.
const (
	PointNormal  = "normal"
	PointAnomaly = "anomaly"
)

// TimingPoint is one synthetic patient on the timing scatter plot: days
// waited for follow-up against a severity score.
type TimingPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Age     float64 `json:"age"`
	Outcome string  `json:"outcome"`
}

// AnomalyPoint is one stay on the anomaly scatter plot: length of stay in
// days against a cost index.
type AnomalyPoint struct {
	ID   int    `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// anomalyOutliers are the stays the review queue is built around.
var anomalyOutliers = []AnomalyPoint{
	{ID: 9901, X: 3, Y: 350, Type: PointAnomaly, Name: "Patient 9901 (high cost, short stay)"},
	{ID: 9902, X: 2, Y: 280, Type: PointAnomaly, Name: "Patient 9902 (high cost, short stay)"},
	{ID: 9903, X: 45, Y: 120, Type: PointAnomaly, Name: "Patient 9903 (low cost, long stay)"},
	{ID: 9904, X: 5, Y: 400, Type: PointAnomaly, Name: "Patient 9904 (extreme intensity)"},
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// TimingScatter generates n synthetic points. The same seed always yields
// the same points. n is clamped to [0, MaxScatterPoints].
func TimingScatter(seed uint64, n int) []TimingPoint {
	if n < 0 {
		n = 0
	}
	if n > MaxScatterPoints {
		n = MaxScatterPoints
	}

	rng := newRand(seed)
	points := make([]TimingPoint, 0, n)
	for i := 0; i < n; i++ {
		x := math.Floor(rng.Float64() * 120)
		y := math.Floor(rng.Float64()*40) + float64(i)*0.5
		outcome := OutcomeOK
		if rng.Float64() > 0.8 {
			outcome = OutcomeComplication
		}
		points = append(points, TimingPoint{
			X:       x,
			Y:       y,
			Age:     50 + y,
			Outcome: outcome,
		})
	}
	return points
}

// AnomalyScatter generates the ordinary stays for seed, 2 to 21 days long
// with a cost index of ten per day plus up to 49, followed by the fixed
// outliers.
func AnomalyScatter(seed uint64) []AnomalyPoint {
	rng := newRand(seed)
	points := make([]AnomalyPoint, 0, AnomalyScatterPoints+len(anomalyOutliers))
	for i := 0; i < AnomalyScatterPoints; i++ {
		days := rng.IntN(20) + 2
		id := 1000 + i
		points = append(points, AnomalyPoint{
			ID:   id,
			X:    days,
			Y:    days*10 + rng.IntN(50),
			Type: PointNormal,
			Name: fmt.Sprintf("Patient %d", id),
		})
	}
	return append(points, anomalyOutliers...)
}
