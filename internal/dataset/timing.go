package dataset

import (
	"github.com/iwvelando/care-forecast/pkg/mathutil"
)

// TimingStatus grades a follow-up delay bucket.
type TimingStatus string

const (
	TimingOptimal  TimingStatus = "optimal"
	TimingWarning  TimingStatus = "warning"
	TimingCritical TimingStatus = "critical"
)

// TimingBucket groups patients by the delay between surgery and the start of
// follow-up care.
type TimingBucket struct {
	Days     string       `yaml:"days" json:"days"`
	Label    string       `yaml:"label" json:"label"`
	Patients int          `yaml:"patients" json:"patients"`
	RiskRate float64      `yaml:"riskRate" json:"riskRate"`
	Cost     float64      `yaml:"cost" json:"cost"`
	Status   TimingStatus `yaml:"status" json:"status"`
}

// TimingSummary aggregates the timing buckets.
type TimingSummary struct {
	Buckets          []TimingBucket       `json:"buckets"`
	TotalPatients    int                  `json:"totalPatients"`
	PatientsByStatus map[TimingStatus]int `json:"patientsByStatus"`
	WeightedRiskRate float64              `json:"weightedRiskRate"`
	WeightedCost     float64              `json:"weightedCost"`
}

// DelaySummary summarizes the timing buckets. Weighted figures are averages weighted
// by patient count, rounded to two decimal places.
func (d *Dataset) DelaySummary() TimingSummary {
	summary := TimingSummary{
		Buckets:          d.Timing,
		PatientsByStatus: make(map[TimingStatus]int, 3),
	}

	var risk, cost float64
	for _, b := range d.Timing {
		summary.TotalPatients += b.Patients
		summary.PatientsByStatus[b.Status] += b.Patients
		risk += b.RiskRate * float64(b.Patients)
		cost += b.Cost * float64(b.Patients)
	}
	if summary.TotalPatients > 0 {
		n := float64(summary.TotalPatients)
		summary.WeightedRiskRate = mathutil.Round(risk / n)
		summary.WeightedCost = mathutil.Round(cost / n)
	}
	return summary
}
