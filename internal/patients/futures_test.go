package patients

import (
	"reflect"
	"testing"
)

func trajectoryIDs(trajectories []Trajectory) []string {
	ids := []string{}
	for _, tr := range trajectories {
		ids = append(ids, tr.SimilarPatientID)
	}
	return ids
}

func TestFutures(t *testing.T) {
	all := fixturePatients()
	trajectories := Futures(all[0], all, 2, 5)

	if ids := trajectoryIDs(trajectories); !reflect.DeepEqual(ids, []string{"B", "C"}) {
		t.Fatalf("trajectories = %v, expected [B C]", ids)
	}

	b := trajectories[0]
	if b.Probability != 100 {
		t.Errorf("B probability = %d, expected 100", b.Probability)
	}
	if b.Outcome != OutcomeEndOfLife {
		t.Errorf("B outcome = %s, expected %s", b.Outcome, OutcomeEndOfLife)
	}
	var deltas []int
	for _, e := range b.Events {
		deltas = append(deltas, e.DeltaDays)
	}
	if expected := []int{35, 70, 85}; !reflect.DeepEqual(deltas, expected) {
		t.Errorf("B deltas = %v, expected %v", deltas, expected)
	}

	c := trajectories[1]
	if c.Probability != 33 {
		t.Errorf("C probability = %d, expected 33", c.Probability)
	}
	if c.Outcome != OutcomeRehabilitation {
		t.Errorf("C outcome = %s, expected %s", c.Outcome, OutcomeRehabilitation)
	}
	if len(c.Events) != 2 || c.Events[0].DeltaDays != 1 {
		t.Errorf("unexpected C events %+v", c.Events)
	}
}

func TestFuturesSnapshot(t *testing.T) {
	all := fixturePatients()

	for _, snapshot := range []int{0, -1, 3, 10} {
		trajectories := Futures(all[0], all, snapshot, 0)
		if ids := trajectoryIDs(trajectories); !reflect.DeepEqual(ids, []string{"B", "C"}) {
			t.Errorf("snapshot %d: trajectories = %v, expected [B C]", snapshot, ids)
			continue
		}
		if trajectories[0].Probability != 50 || trajectories[1].Probability != 20 {
			t.Errorf("snapshot %d: probabilities %d/%d, expected 50/20",
				snapshot, trajectories[0].Probability, trajectories[1].Probability)
		}
	}
}

func TestFuturesTopK(t *testing.T) {
	all := fixturePatients()
	trajectories := Futures(all[0], all, 2, 1)
	if ids := trajectoryIDs(trajectories); !reflect.DeepEqual(ids, []string{"B"}) {
		t.Errorf("trajectories = %v, expected [B]", ids)
	}
}

func TestFuturesEmptyHistory(t *testing.T) {
	trajectories := Futures(Patient{ID: "X"}, fixturePatients(), 2, 5)
	if trajectories == nil || len(trajectories) != 0 {
		t.Errorf("expected empty non-nil result, got %v", trajectories)
	}
}

func TestDetectOutcome(t *testing.T) {
	generic := Event{Source: SourceCare, Type: ServiceProcedure, Label: "Check-up"}
	tests := []struct {
		name     string
		events   []Event
		expected Outcome
	}{
		{"Empty", nil, OutcomeOngoing},
		{"Generic", []Event{generic}, OutcomeOngoing},
		{"Death", []Event{generic, {Type: ServiceDeath, Label: "Exitus"}}, OutcomeDeath},
		{"Discharged", []Event{{Label: "Discharged from follow-up"}}, OutcomeDischarged},
		{"Critical", []Event{{Label: "Monitoring", Detail: map[string]string{"department": "ICU"}}}, OutcomeCritical},
		{"Spa", []Event{{Source: SourceSpa, Label: "Spa stay"}}, OutcomeRehabilitation},
		{"End of life wins", []Event{{Label: "Palliative care"}, {Type: ServiceDeath, Label: "Death"}}, OutcomeEndOfLife},
		{"Death beats discharge", []Event{{Label: "Discharged from follow-up"}, {Type: ServiceDeath}}, OutcomeDeath},
		{
			"Only trailing window counts",
			append([]Event{{Type: ServiceDeath}}, repeat(generic, outcomeWindow)...),
			OutcomeOngoing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectOutcome(tt.events); got != tt.expected {
				t.Errorf("DetectOutcome() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func repeat(e Event, n int) []Event {
	events := make([]Event, n)
	for i := range events {
		events[i] = e
	}
	return events
}

func TestFuturesReadsOutcomeAheadOfAnchor(t *testing.T) {
	target := Patient{ID: "T", Events: []Event{
		{Day: 0, Source: SourceHospitalization, Label: "Hip replacement"},
		{Day: 10, Source: SourceCare, Label: "Physiotherapy"},
	}}
	others := []Patient{
		target,
		{ID: "P", Events: []Event{
			{Day: 0, Source: SourceHospitalization, Label: "Hip replacement"},
			{Day: 5, Source: SourceCare, Label: "Palliative care"},
			{Day: 20, Source: SourceSpa, Label: "Spa stay"},
		}},
		{ID: "Q", Events: []Event{
			{Day: 0, Source: SourceHospitalization, Label: "Hip replacement"},
			{Day: 10, Source: SourceCare, Label: "Physiotherapy"},
			{Day: 15, Source: SourceCare, Label: "Regulační poplatek"},
		}},
		{ID: "R", Events: []Event{
			{Day: 0, Source: SourceHospitalization, Label: "Hip replacement"},
			{Day: 10, Source: SourceCare, Label: "Physiotherapy"},
			{Day: 12, Source: SourceCare, Label: "REGULAČNÍ POPLATEK"},
			{Day: 40, Source: SourceCare, Label: "Discharged from follow-up"},
		}},
	}

	trajectories := Futures(target, others, 2, 5)
	if ids := trajectoryIDs(trajectories); !reflect.DeepEqual(ids, []string{"R", "P"}) {
		t.Fatalf("trajectories = %v, expected [R P]", ids)
	}

	r := trajectories[0]
	if len(r.Events) != 1 || r.Events[0].DeltaDays != 30 {
		t.Errorf("fee records should be dropped from R, got %+v", r.Events)
	}
	if r.Outcome != OutcomeDischarged {
		t.Errorf("R outcome = %s, expected %s", r.Outcome, OutcomeDischarged)
	}

	// Palliative care precedes the anchor, so it does not decide P's outcome.
	if p := trajectories[1]; p.Outcome != OutcomeRehabilitation || p.Probability != 33 {
		t.Errorf("P = %s/%d, expected %s/33", p.Outcome, p.Probability, OutcomeRehabilitation)
	}
}

func TestIsAdministrative(t *testing.T) {
	if !IsAdministrative(Event{Label: "Regulační poplatek 30 Kč"}) {
		t.Error("expected fee record to be administrative")
	}
	if IsAdministrative(Event{Label: "Physiotherapy"}) {
		t.Error("expected care event not to be administrative")
	}
}
