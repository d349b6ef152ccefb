// Package header binds the trial progress helpers to a view and renders the
// experiment header from them.
package header

import (
	"fmt"

	"trialheader/internal/progress"
)

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseTraining   Phase = "training"
	PhaseTesting    Phase = "testing"
)

// View is everything the header shows for one snapshot.
type View struct {
	Snapshot     progress.Snapshot `json:"snapshot" toml:"snapshot"`
	TestingPhase bool              `json:"is_testing_phase" toml:"is_testing_phase"`
	Trial        int               `json:"this_trial" toml:"this_trial"`
	Total        int               `json:"num_trials" toml:"num_trials"`
	Phase        Phase             `json:"phase" toml:"phase"`
}

func Compute(r progress.Reader) (View, error) {
	snap, err := progress.Load(r)
	if err != nil {
		return View{}, err
	}
	return FromSnapshot(snap), nil
}

func FromSnapshot(s progress.Snapshot) View {
	v := View{
		Snapshot:     s,
		TestingPhase: progress.IsTestingPhase(s),
		Trial:        progress.ThisTrial(s),
		Total:        progress.NumTrials(s),
	}
	switch {
	case !s.Started():
		v.Phase = PhaseNotStarted
	case v.TestingPhase:
		v.Phase = PhaseTesting
	default:
		v.Phase = PhaseTraining
	}
	return v
}

// Fraction is the share of the active phase already reached, in [0, 1].
func (v View) Fraction() float64 {
	if v.Total <= 0 {
		return 0
	}
	f := float64(v.Trial) / float64(v.Total)
	if f > 1 {
		return 1
	}
	return f
}

func (v View) Summary() string {
	switch v.Phase {
	case PhaseNotStarted:
		return "not started"
	case PhaseTesting:
		return fmt.Sprintf("testing: trial %d of %d", v.Trial, v.Total)
	default:
		return fmt.Sprintf("training: trial %d of %d", v.Trial, v.Total)
	}
}
