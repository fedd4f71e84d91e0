// Package dataset holds the static figures behind the dashboard views and the
// derived tables computed from them.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/iwvelando/care-forecast/internal/patients"
	"gopkg.in/yaml.v3"
)

// ErrAnomalyNotFound is returned when no anomaly carries the requested ID.
var ErrAnomalyNotFound = errors.New("anomaly not found")

//go:embed default.yaml
var defaultData []byte

// Dataset is the full set of figures the dashboard displays.
type Dataset struct {
	Costs     []CostItem         `yaml:"costs"`
	Regions   []Region           `yaml:"regions"`
	Providers []Provider         `yaml:"providers"`
	Timing    []TimingBucket     `yaml:"timing"`
	Tasks     []Task             `yaml:"tasks"`
	Flow      Flow               `yaml:"flow"`
	Anomalies []Anomaly          `yaml:"anomalies"`
	DRGs      []patients.DRG     `yaml:"drgs"`
	Patients  []patients.Patient `yaml:"patients"`
}

// Anomaly is a record flagged for manual review.
type Anomaly struct {
	ID          string `yaml:"id" json:"id"`
	PatientID   string `yaml:"patientId" json:"patientId"`
	Priority    string `yaml:"priority" json:"priority"`
	DRG         string `yaml:"drg" json:"drg"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Missing     string `yaml:"missing,omitempty" json:"missing,omitempty"`
}

// Default returns the embedded dataset.
func Default() (*Dataset, error) {
	return Parse(defaultData)
}

// Load reads a dataset from path. An empty path selects the embedded dataset.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset, rejecting unknown fields.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.Flow.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flow: %w", err)
	}
	return &ds, nil
}

// Validate returns warnings about entries that are loadable but inconsistent.
func (d *Dataset) Validate() []string {
	var warnings []string

	for _, c := range d.Costs {
		if c.IdealCost < 0 || c.RealCost < 0 {
			warnings = append(warnings, fmt.Sprintf("cost item %q has a negative amount", c.Category))
		}
	}
	for _, r := range d.Regions {
		if r.TotalPatients > 0 && r.SpaCount > r.TotalPatients {
			warnings = append(warnings, fmt.Sprintf("region %q has more spa stays than patients", r.Region))
		}
	}
	for _, p := range d.Providers {
		if !p.Type.Valid() {
			warnings = append(warnings, fmt.Sprintf("provider %q has unknown type %q", p.Name, p.Type))
		}
	}
	for _, t := range d.Tasks {
		if _, ok := priorityRank[t.Priority]; !ok {
			warnings = append(warnings, fmt.Sprintf("task %s has unknown priority %q", t.ID, t.Priority))
		}
		if !t.Status.Valid() {
			warnings = append(warnings, fmt.Sprintf("task %s has unknown status %q", t.ID, t.Status))
		}
	}

	warnings = append(warnings, d.Flow.Imbalances()...)

	ids := make(map[string]bool, len(d.Patients))
	for _, p := range d.Patients {
		if ids[p.ID] {
			warnings = append(warnings, fmt.Sprintf("patient id %s is duplicated", p.ID))
		}
		ids[p.ID] = true
		for _, e := range p.Events {
			if !e.Type.Valid() {
				warnings = append(warnings, fmt.Sprintf("patient %s has event %q with unknown type %q", p.ID, e.Label, e.Type))
			}
		}
	}
	for _, a := range d.Anomalies {
		if !ids[a.PatientID] {
			warnings = append(warnings, fmt.Sprintf("anomaly %s references unknown patient %s", a.ID, a.PatientID))
		}
	}

	return warnings
}

// Anomaly returns the anomaly with the given ID.
func (d *Dataset) Anomaly(id string) (Anomaly, error) {
	for _, a := range d.Anomalies {
		if a.ID == id {
			return a, nil
		}
	}
	return Anomaly{}, fmt.Errorf("%w: %s", ErrAnomalyNotFound, id)
}

// Suggestions lists the search-box completions of the dataset: patients
// first, then providers, then DRGs.
func (d *Dataset) Suggestions() []patients.Suggestion {
	suggestions := make([]patients.Suggestion, 0, len(d.Patients)+len(d.Providers)+len(d.DRGs))
	for _, p := range d.Patients {
		suggestions = append(suggestions, patients.PatientSuggestion(p))
	}
	for _, p := range d.Providers {
		suggestions = append(suggestions, patients.Suggestion{
			ID:    p.ID,
			Label: p.ID + " (" + p.Name + ")",
			Type:  patients.SuggestServiceProvider,
		})
	}
	for _, drg := range d.DRGs {
		suggestions = append(suggestions, patients.DRGSuggestion(drg))
	}
	return suggestions
}
