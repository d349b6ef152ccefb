// Package progress derives the trial counters shown in the experiment header
// from the two integers kept in the participant's session.
package progress

const (
	KeyTrialsCompleted = "trialsCompleted"
	KeyN               = "N"
)

// NotStarted is the trialsCompleted value stored before the first trial.
const NotStarted = -1

// Snapshot holds the session integers the header is computed from. The
// calculator assumes N >= 0.
type Snapshot struct {
	TrialsCompleted int `json:"trials_completed" toml:"trials_completed"`
	N               int `json:"n" toml:"n"`
}

// Reader is the read side of the session store.
type Reader interface {
	Int(key string) (int, bool)
}

// SnapshotReader is implemented by stores that can read both keys in one
// consistent step. Load prefers it over two separate Int calls.
type SnapshotReader interface {
	Snapshot() (Snapshot, error)
}

// Load reads a snapshot from r. Both keys must be present.
func Load(r Reader) (Snapshot, error) {
	if r == nil {
		return Snapshot{}, missingKeyError(KeyN)
	}
	if sr, ok := r.(SnapshotReader); ok {
		return sr.Snapshot()
	}
	n, ok := r.Int(KeyN)
	if !ok {
		return Snapshot{}, missingKeyError(KeyN)
	}
	completed, ok := r.Int(KeyTrialsCompleted)
	if !ok {
		return Snapshot{}, missingKeyError(KeyTrialsCompleted)
	}
	return Snapshot{TrialsCompleted: completed, N: n}, nil
}

// Half is the length of one phase. Division truncates toward zero.
func (s Snapshot) Half() int {
	return s.N / 2
}

func (s Snapshot) Started() bool {
	return s.TrialsCompleted != NotStarted
}

// IsTestingPhase reports whether the first half of the trials is done.
func IsTestingPhase(s Snapshot) bool {
	return s.TrialsCompleted >= s.Half()
}

// TrialIndex is the zero-based trial position across both phases, or -1 when
// the experiment has not started.
func TrialIndex(s Snapshot) int {
	if !s.Started() {
		return NotStarted
	}
	return Clamp(s.TrialsCompleted, 0, s.N)
}

// ThisTrial returns the 1-based trial number within the active phase, or 0
// before the experiment starts.
func ThisTrial(s Snapshot) int {
	index := TrialIndex(s)
	half := s.Half()
	switch {
	case index == NotStarted:
		return 0
	case index < half:
		return index + 1
	default:
		return Clamp(index+1-half, 0, half)
	}
}

// NumTrials returns the number of trials in the active phase, or 0 before the
// experiment starts.
func NumTrials(s Snapshot) int {
	if TrialIndex(s) == NotStarted {
		return 0
	}
	return s.Half()
}

// Clamp bounds x to [lo, hi]. It requires lo <= hi; otherwise hi wins.
func Clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
