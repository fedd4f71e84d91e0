package patients

import (
	"sort"
	"strings"
)

// DefaultTopK is the number of trajectories returned when none is requested.
const DefaultTopK = 5

// outcomeWindow is how many trailing events are inspected to label an outcome.
const outcomeWindow = 10

// administrativeFee marks regulatory-fee records, which are billing noise
// rather than care. Matched against folded labels.
const administrativeFee = "regulacni poplatek"

// Outcome labels where a trajectory ends up.
type Outcome string

const (
	OutcomeEndOfLife      Outcome = "END_OF_LIFE"
	OutcomeDeath          Outcome = "DEATH"
	OutcomeDischarged     Outcome = "DISCHARGED"
	OutcomeCritical       Outcome = "CRITICAL"
	OutcomeRehabilitation Outcome = "REHABILITATION"
	OutcomeOngoing        Outcome = "ONGOING"
)

// FutureEvent is an event of a similar patient, timed relative to the point
// where the two histories align.
type FutureEvent struct {
	Event
	DeltaDays int `json:"deltaDays"`
}

// Trajectory is a possible future for a patient, borrowed from a similar one.
type Trajectory struct {
	SimilarPatientID string        `json:"similarPatientId"`
	Probability      int           `json:"probability"`
	Outcome          Outcome       `json:"outcome"`
	Events           []FutureEvent `json:"events"`
}

// Futures projects trajectories for target from the histories of others.
//
// The first snapshot events of target are compared with the first snapshot
// events of every other patient that has more than snapshot events. A
// snapshot of zero or less, or one beyond the history, uses the whole
// history. Similarity is the Jaccard index of event labels; the probability
// is that index as a whole percentage. Candidates sharing nothing, or left
// with no future once administrative fee records are dropped, are skipped.
// The outcome is read from the future events only. The topK most probable trajectories are returned, ties broken by
// patient ID.
func Futures(target Patient, others []Patient, snapshot, topK int) []Trajectory {
	history := target.History()
	if snapshot <= 0 || snapshot > len(history) {
		snapshot = len(history)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if snapshot == 0 {
		return []Trajectory{}
	}
	query := labelSet(history[:snapshot])

	trajectories := []Trajectory{}
	for _, candidate := range others {
		if candidate.ID == target.ID {
			continue
		}
		events := candidate.History()
		if len(events) <= snapshot {
			continue
		}
		similarity := jaccard(query, labelSet(events[:snapshot]))
		probability := clampPercent(int(similarity * 100))
		if probability == 0 {
			continue
		}

		anchor := events[snapshot-1].Day
		future := make([]FutureEvent, 0, len(events)-snapshot)
		ahead := make([]Event, 0, len(events)-snapshot)
		for _, e := range events[snapshot:] {
			if IsAdministrative(e) {
				continue
			}
			ahead = append(ahead, e)
			future = append(future, FutureEvent{Event: e, DeltaDays: e.Day - anchor})
		}
		if len(future) == 0 {
			continue
		}
		trajectories = append(trajectories, Trajectory{
			SimilarPatientID: candidate.ID,
			Probability:      probability,
			Outcome:          DetectOutcome(ahead),
			Events:           future,
		})
	}

	sort.SliceStable(trajectories, func(i, j int) bool {
		if trajectories[i].Probability != trajectories[j].Probability {
			return trajectories[i].Probability > trajectories[j].Probability
		}
		return trajectories[i].SimilarPatientID < trajectories[j].SimilarPatientID
	})
	if len(trajectories) > topK {
		trajectories = trajectories[:topK]
	}
	return trajectories
}

// DetectOutcome labels the end state of a history from its last events.
// Stronger signals win: end-of-life care over death, death over discharge,
// discharge over intensive care, intensive care over rehabilitation.
func DetectOutcome(events []Event) Outcome {
	tail := events
	if len(tail) > outcomeWindow {
		tail = tail[len(tail)-outcomeWindow:]
	}

	var death, discharged, critical, rehab, endOfLife bool
	for _, e := range tail {
		label := strings.ToLower(e.Label + " " + e.Detail["department"] + " " + e.Detail["termination"])
		switch {
		case containsAny(label, "palliative", "hospice"):
			endOfLife = true
		case e.Type == ServiceDeath || containsAny(label, "death", "deceased"):
			death = true
		case containsAny(label, "discharged from", "recovered"):
			discharged = true
		case containsAny(label, "intensive", "icu", "resuscitation"):
			critical = true
		case e.Source == SourceSpa || containsAny(label, "rehabilitation"):
			rehab = true
		}
	}

	switch {
	case endOfLife:
		return OutcomeEndOfLife
	case death:
		return OutcomeDeath
	case discharged:
		return OutcomeDischarged
	case critical:
		return OutcomeCritical
	case rehab:
		return OutcomeRehabilitation
	default:
		return OutcomeOngoing
	}
}

// IsAdministrative reports whether e is a regulatory fee record.
func IsAdministrative(e Event) bool {
	return strings.Contains(Fold(e.Label), administrativeFee)
}

func containsAny(s string, parts ...string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func labelSet(events []Event) map[string]struct{} {
	set := make(map[string]struct{}, len(events))
	for _, e := range events {
		set[strings.ToLower(e.Label)] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
