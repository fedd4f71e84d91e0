package dataset

import (
	"errors"
	"fmt"
)

// Flow is the cohort pathway diagram: nodes are care states and links carry
// the number of patients moving between them.
type Flow struct {
	Nodes []string   `yaml:"nodes" json:"nodes"`
	Links []FlowLink `yaml:"links" json:"links"`
}

// FlowLink moves Value patients from node Source to node Target.
type FlowLink struct {
	Source int    `yaml:"source" json:"source"`
	Target int    `yaml:"target" json:"target"`
	Value  int    `yaml:"value" json:"value"`
	Type   string `yaml:"type" json:"type"`
}

// Validate checks that every link joins two distinct known nodes with a
// positive value.
func (f Flow) Validate() error {
	var errs []error
	for i, l := range f.Links {
		if l.Source < 0 || l.Source >= len(f.Nodes) || l.Target < 0 || l.Target >= len(f.Nodes) {
			errs = append(errs, fmt.Errorf("link %d references an unknown node", i))
			continue
		}
		if l.Source == l.Target {
			errs = append(errs, fmt.Errorf("link %d loops on node %q", i, f.Nodes[l.Source]))
		}
		if l.Value <= 0 {
			errs = append(errs, fmt.Errorf("link %d has non-positive value %d", i, l.Value))
		}
	}
	return errors.Join(errs...)
}

// Inflow returns the number of patients entering each node.
func (f Flow) Inflow() []int {
	in := make([]int, len(f.Nodes))
	for _, l := range f.Links {
		if l.Target >= 0 && l.Target < len(in) {
			in[l.Target] += l.Value
		}
	}
	return in
}

// Outflow returns the number of patients leaving each node.
func (f Flow) Outflow() []int {
	out := make([]int, len(f.Nodes))
	for _, l := range f.Links {
		if l.Source >= 0 && l.Source < len(out) {
			out[l.Source] += l.Value
		}
	}
	return out
}

// Imbalances lists intermediate nodes whose outflow exceeds their inflow.
// Source nodes (no inflow) and sink nodes (no outflow) are not reported.
func (f Flow) Imbalances() []string {
	in, out := f.Inflow(), f.Outflow()
	var imbalances []string
	for i, name := range f.Nodes {
		if in[i] == 0 || out[i] == 0 {
			continue
		}
		if out[i] > in[i] {
			imbalances = append(imbalances, fmt.Sprintf("%s: %d leave but only %d arrive", name, out[i], in[i]))
		}
	}
	return imbalances
}
