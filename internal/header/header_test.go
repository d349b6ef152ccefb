package header

import (
	"errors"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"

	"trialheader/internal/progress"
)

type mapReader map[string]int

func (m mapReader) Int(key string) (int, bool) {
	value, ok := m[key]
	return value, ok
}

func TestComputeView(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		phase     Phase
		trial     int
		total     int
		fraction  float64
	}{
		{name: "not started", completed: progress.NotStarted, phase: PhaseNotStarted, trial: 0, total: 0, fraction: 0},
		{name: "training", completed: 2, phase: PhaseTraining, trial: 3, total: 5, fraction: 0.6},
		{name: "testing", completed: 5, phase: PhaseTesting, trial: 1, total: 5, fraction: 0.2},
		{name: "done", completed: 10, phase: PhaseTesting, trial: 5, total: 5, fraction: 1},
	}
	for _, tc := range tests {
		v, err := Compute(mapReader{progress.KeyTrialsCompleted: tc.completed, progress.KeyN: 10})
		if err != nil {
			t.Fatalf("%s: Compute: %v", tc.name, err)
		}
		if v.Phase != tc.phase || v.Trial != tc.trial || v.Total != tc.total {
			t.Fatalf("%s: unexpected view %+v", tc.name, v)
		}
		if v.Fraction() != tc.fraction {
			t.Fatalf("%s: expected fraction %v, got %v", tc.name, tc.fraction, v.Fraction())
		}
	}
}

func TestComputeFailsOnMissingKey(t *testing.T) {
	if _, err := Compute(mapReader{progress.KeyN: 10}); !errors.Is(err, progress.ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestHelpersReadOnEveryCall(t *testing.T) {
	values := mapReader{progress.KeyTrialsCompleted: 0, progress.KeyN: 10}
	tmpl, err := ParseTemplate("{{if isTestingPhase}}T{{else}}P{{end}} {{thisTrial}}/{{numTrials}}", values)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	got, err := tmpl.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "P 1/5" {
		t.Fatalf("unexpected line: %q", got)
	}

	values[progress.KeyTrialsCompleted] = 6
	got, err = tmpl.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "T 2/5" {
		t.Fatalf("expected re-render to see new values, got %q", got)
	}
}

func TestHelpersNumTrialsWithoutThisTrial(t *testing.T) {
	tmpl, err := ParseTemplate("{{numTrials}}", mapReader{progress.KeyTrialsCompleted: progress.NotStarted, progress.KeyN: 10})
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	got, err := tmpl.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "0" {
		t.Fatalf("expected 0 for a not-started session, got %q", got)
	}
}

func TestTemplateSurfacesMissingKey(t *testing.T) {
	tmpl, err := ParseTemplate("{{thisTrial}}", mapReader{})
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if _, err := tmpl.Execute(); !errors.Is(err, progress.ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	if _, err := ParseTemplate("  ", mapReader{}); err == nil {
		t.Fatalf("expected empty template to be rejected")
	}
	if _, err := ParseTemplate("{{unknownHelper}}", mapReader{}); err == nil {
		t.Fatalf("expected unknown helper to be rejected")
	}
}

func TestRendererFitsWidth(t *testing.T) {
	r := NewRenderer(Options{
		Width:               24,
		Dark:                true,
		ParticipantID:       "AB12CD",
		TrainingDescription: "Learn the function from the feedback shown after every single trial.",
		TestingDescription:  "No feedback.",
	})
	v := FromSnapshot(progress.Snapshot{TrialsCompleted: 2, N: 10})
	out := r.Render(v, "Trial 3 of 5 in a line that is definitely too long")
	plain := xansi.Strip(out)
	for _, line := range strings.Split(out, "\n") {
		if w := xansi.StringWidth(line); w > 24 {
			t.Fatalf("line wider than 24 cells (%d): %q", w, xansi.Strip(line))
		}
	}
	if !strings.Contains(plain, "Training") {
		t.Fatalf("expected training title, got %q", plain)
	}
	if !strings.Contains(plain, "AB12CD") {
		t.Fatalf("expected participant id, got %q", plain)
	}
	if !strings.Contains(plain, "…") {
		t.Fatalf("expected truncated header line, got %q", plain)
	}
}

func TestRendererPhaseTitles(t *testing.T) {
	r := NewRenderer(Options{Width: 40, TestingTitle: "Transfer"})
	transfer := xansi.Strip(r.Render(FromSnapshot(progress.Snapshot{TrialsCompleted: 7, N: 10}), ""))
	if !strings.HasPrefix(transfer, "Transfer") {
		t.Fatalf("expected custom testing title, got %q", transfer)
	}
	idle := xansi.Strip(r.Render(FromSnapshot(progress.Snapshot{TrialsCompleted: progress.NotStarted, N: 10}), ""))
	if !strings.HasPrefix(idle, "Not started") {
		t.Fatalf("expected not-started title, got %q", idle)
	}
}

func TestPlainAlignsLabels(t *testing.T) {
	out := Plain(FromSnapshot(progress.Snapshot{TrialsCompleted: 5, N: 10}), "Trial 1 of 5", "AB12CD")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 rows, got %d: %q", len(lines), out)
	}
	if lines[0] != "participant      AB12CD" {
		t.Fatalf("unexpected row: %q", lines[0])
	}
	if lines[2] != "isTestingPhase   true" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
	if lines[3] != "thisTrial        1" {
		t.Fatalf("unexpected row: %q", lines[3])
	}
	if lines[7] != "header           Trial 1 of 5" {
		t.Fatalf("unexpected row: %q", lines[7])
	}

	bare := Plain(FromSnapshot(progress.Snapshot{TrialsCompleted: progress.NotStarted, N: 10}), "", "")
	if strings.Count(bare, "\n") != 6 {
		t.Fatalf("expected 6 rows without participant and line, got %q", bare)
	}
}
