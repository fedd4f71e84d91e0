// Package patients serves the per-patient views of the dashboard: lookup,
// merged care history, early warnings and projected futures drawn from
// similar patients.
package patients

import (
	"errors"
	"sort"
)

// ErrPatientNotFound is returned when no patient carries the requested ID.
var ErrPatientNotFound = errors.New("patient not found")

// EventSource names the record a history event was taken from.
type EventSource string

const (
	SourceHospitalization EventSource = "hospitalization"
	SourceSpa             EventSource = "spa"
	SourceCare            EventSource = "care"
)

// ServiceType classifies a health service.
type ServiceType string

const (
	ServiceProcedure          ServiceType = "PROCEDURE"
	ServiceMedication         ServiceType = "MEDICATION"
	ServiceHealthTool         ServiceType = "HEALTH_TOOL"
	ServiceStomatologicalTool ServiceType = "STOMATOLOGICAL_TOOL"
	ServiceTransport          ServiceType = "TRANSPORT"
	ServiceDeath              ServiceType = "DEATH"
)

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceProcedure, ServiceMedication, ServiceHealthTool,
		ServiceStomatologicalTool, ServiceTransport, ServiceDeath:
		return true
	}
	return false
}

// Event is one entry of a patient's care history. Day counts from the index
// surgery.
type Event struct {
	Day    int               `yaml:"day" json:"day"`
	Source EventSource       `yaml:"source" json:"source"`
	Type   ServiceType       `yaml:"type" json:"type"`
	Label  string            `yaml:"label" json:"label"`
	Detail map[string]string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// DRG is a diagnosis-related group.
type DRG struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
}

// EarlyWarning flags a DRG the patient is likely to enter.
type EarlyWarning struct {
	DRG         DRG `yaml:"drg" json:"drg"`
	Probability int `yaml:"probability" json:"probability"`
	ETA         int `yaml:"eta" json:"eta"`
}

// Patient is a single record of the cohort.
type Patient struct {
	ID            string         `yaml:"id" json:"id"`
	Name          string         `yaml:"name" json:"name"`
	BirthYear     int            `yaml:"birthYear" json:"birthYear"`
	Region        string         `yaml:"region" json:"region"`
	Events        []Event        `yaml:"events" json:"-"`
	EarlyWarnings []EarlyWarning `yaml:"earlyWarnings" json:"-"`
}

// Summary is the list view of a patient.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthYear int    `json:"birthYear"`
	Region    string `json:"region"`
	Events    int    `json:"events"`
}

// Summarize returns the list view of p.
func (p Patient) Summarize() Summary {
	return Summary{
		ID:        p.ID,
		Name:      p.Name,
		BirthYear: p.BirthYear,
		Region:    p.Region,
		Events:    len(p.Events),
	}
}

// History returns the patient's events merged across sources and ordered by
// day. Events on the same day keep their recorded order.
func (p Patient) History() []Event {
	history := make([]Event, len(p.Events))
	copy(history, p.Events)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Day < history[j].Day
	})
	return history
}

func sortWarnings(warnings []EarlyWarning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Probability > warnings[j].Probability
	})
}
