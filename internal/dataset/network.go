package dataset

import (
	"sort"
)

const (
	// LaggingDelayDays is the average follow-up delay above which a region
	// is flagged as lagging.
	LaggingDelayDays = 150

	// TopEfficiencyScore is the score above which a region is flagged as a
	// top performer.
	TopEfficiencyScore = 90

	// QuadrantSpaRate and QuadrantComplicationRate split providers into the
	// four quadrants of the network map.
	QuadrantSpaRate          = 25.0
	QuadrantComplicationRate = 12.0
)

// Region holds the follow-up statistics of one region.
type Region struct {
	Region          string  `yaml:"region" json:"region"`
	TotalPatients   int     `yaml:"totalPatients" json:"totalPatients"`
	SpaCount        int     `yaml:"spaCount" json:"spaCount"`
	SpaRate         float64 `yaml:"spaRate" json:"spaRate"`
	AvgDelay        float64 `yaml:"avgDelay" json:"avgDelay"`
	EfficiencyScore float64 `yaml:"efficiencyScore" json:"efficiencyScore"`
}

// RegionScore is a Region with its scorecard flags.
type RegionScore struct {
	Region
	Rank    int  `json:"rank"`
	Lagging bool `json:"lagging"`
	Top     bool `json:"top"`
}

// RegionalScorecard ranks regions by efficiency score, best first.
func (d *Dataset) RegionalScorecard() []RegionScore {
	scores := make([]RegionScore, 0, len(d.Regions))
	for _, r := range d.Regions {
		scores = append(scores, RegionScore{
			Region:  r,
			Lagging: r.AvgDelay > LaggingDelayDays,
			Top:     r.EfficiencyScore > TopEfficiencyScore,
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].EfficiencyScore > scores[j].EfficiencyScore
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}

// ProviderType classifies a provider.
type ProviderType string

const (
	ProviderTeaching    ProviderType = "teaching"
	ProviderDistrict    ProviderType = "district"
	ProviderSpecialized ProviderType = "specialized"
)

// Valid reports whether t is a known provider type.
func (t ProviderType) Valid() bool {
	switch t {
	case ProviderTeaching, ProviderDistrict, ProviderSpecialized:
		return true
	}
	return false
}

// Provider is a hospital in the follow-up network.
type Provider struct {
	ID               string       `yaml:"id" json:"id"`
	Name             string       `yaml:"name" json:"name"`
	SpaRate          float64      `yaml:"spaRate" json:"spaRate"`
	ComplicationRate float64      `yaml:"complicationRate" json:"complicationRate"`
	Volume           int          `yaml:"volume" json:"volume"`
	Type             ProviderType `yaml:"type" json:"type"`
}

// Quadrant names a region of the spa-rate versus complication-rate map.
type Quadrant string

const (
	QuadrantBestPractice  Quadrant = "best-practice"
	QuadrantReviewQuality Quadrant = "review-quality"
	QuadrantLean          Quadrant = "lean"
	QuadrantAtRisk        Quadrant = "at-risk"
)

// Classify places a provider on the network map. High spa rate with low
// complications is best practice; low spa rate with high complications is at
// risk.
func (p Provider) Classify() Quadrant {
	highSpa := p.SpaRate >= QuadrantSpaRate
	highComplications := p.ComplicationRate > QuadrantComplicationRate
	switch {
	case highSpa && !highComplications:
		return QuadrantBestPractice
	case highSpa && highComplications:
		return QuadrantReviewQuality
	case !highSpa && !highComplications:
		return QuadrantLean
	default:
		return QuadrantAtRisk
	}
}

// ProviderPoint is a Provider placed on the network map.
type ProviderPoint struct {
	Provider
	Quadrant Quadrant `json:"quadrant"`
}

// ProviderQuadrants classifies every provider, keeping dataset order.
func (d *Dataset) ProviderQuadrants() []ProviderPoint {
	points := make([]ProviderPoint, 0, len(d.Providers))
	for _, p := range d.Providers {
		points = append(points, ProviderPoint{Provider: p, Quadrant: p.Classify()})
	}
	return points
}

// QuadrantCounts returns how many providers fall into each quadrant.
func (d *Dataset) QuadrantCounts() map[Quadrant]int {
	counts := make(map[Quadrant]int, 4)
	for _, p := range d.Providers {
		counts[p.Classify()]++
	}
	return counts
}
