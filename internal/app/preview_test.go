package app

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"

	"trialheader/internal/header"
	"trialheader/internal/session"
)

func newTestModel(t *testing.T, n int, notStarted bool) (*Model, *session.Store) {
	t.Helper()
	store := session.New(session.WithParticipantID("AB12CD"))
	if err := store.Start(n, notStarted); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m, err := NewModel(store, Options{
		Template: "Trial {{thisTrial}} of {{numTrials}}",
		Header:   header.Options{Width: 40},
	}, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	t.Cleanup(m.Close)
	return m, store
}

// deliver runs the pending subscription command and feeds its message back.
func deliver(t *testing.T, m *Model) {
	t.Helper()
	cmd := waitForChange(m.changes)
	if cmd == nil {
		t.Fatalf("expected subscription command")
	}
	_, next := m.Update(cmd())
	if next == nil {
		t.Fatalf("expected model to keep listening for changes")
	}
}

func plainView(m *Model) string {
	return xansi.Strip(m.render())
}

func TestPreviewRendersInitialHeader(t *testing.T) {
	m, _ := newTestModel(t, 10, true)
	view := plainView(m)
	if !strings.Contains(view, "Not started") {
		t.Fatalf("expected not-started title, got %q", view)
	}
	if !strings.Contains(view, "Trial 0 of 0") {
		t.Fatalf("expected sentinel counts, got %q", view)
	}
	if !strings.Contains(view, "AB12CD") {
		t.Fatalf("expected participant id, got %q", view)
	}
}

func TestPreviewReRendersOnSessionChange(t *testing.T) {
	m, store := newTestModel(t, 10, true)

	m.handleKey("right")
	deliver(t, m)
	if view := plainView(m); !strings.Contains(view, "Trial 1 of 5") {
		t.Fatalf("expected first trial after advance, got %q", view)
	}

	for i := 0; i < 5; i++ {
		if _, err := store.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	deliver(t, m)
	view := plainView(m)
	if !strings.Contains(view, "Testing") || !strings.Contains(view, "Trial 1 of 5") {
		t.Fatalf("expected first testing trial, got %q", view)
	}

	m.handleKey("left")
	deliver(t, m)
	if view := plainView(m); !strings.Contains(view, "Training") || !strings.Contains(view, "Trial 5 of 5") {
		t.Fatalf("expected last training trial after undo, got %q", view)
	}

	m.handleKey("r")
	deliver(t, m)
	if view := plainView(m); !strings.Contains(view, "Not started") {
		t.Fatalf("expected reset header, got %q", view)
	}
}

func TestPreviewQuitKey(t *testing.T) {
	m, _ := newTestModel(t, 4, false)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestPreviewCopySummary(t *testing.T) {
	m, _ := newTestModel(t, 10, false)
	var copied string
	stubClipboard(t,
		func(text string) error {
			copied = text
			return nil
		},
		func(string) error { return nil },
	)
	m.handleKey("c")
	if copied != "AB12CD training: trial 1 of 5" {
		t.Fatalf("unexpected clipboard text: %q", copied)
	}
	if !strings.Contains(plainView(m), "copied via system") {
		t.Fatalf("expected copy status, got %q", plainView(m))
	}
}

func TestPreviewShowsCopyFailure(t *testing.T) {
	m, _ := newTestModel(t, 10, false)
	stubClipboard(t,
		func(string) error { return errors.New("boom") },
		func(string) error { return errors.New("no tty") },
	)
	m.handleKey("c")
	if !m.statusErr || !strings.Contains(m.status, "copy failed") {
		t.Fatalf("expected copy failure status, got %q", m.status)
	}
}

func TestPreviewResizeNarrowsHeader(t *testing.T) {
	m, _ := newTestModel(t, 10, false)
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	if m.renderer.Width() != 26 {
		t.Fatalf("expected header width 26, got %d", m.renderer.Width())
	}
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 20})
	if m.renderer.Width() != 40 {
		t.Fatalf("expected header width capped at 40, got %d", m.renderer.Width())
	}
}

func TestPreviewStopsListeningWhenStoreCloses(t *testing.T) {
	m, store := newTestModel(t, 10, false)
	store.Close()
	_, cmd := m.Update(waitForChange(m.changes)())
	if cmd != nil {
		t.Fatalf("expected no further subscription after close")
	}
	if m.status != "session closed" {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestNewModelRejectsBadTemplate(t *testing.T) {
	store := session.New()
	if _, err := NewModel(store, Options{Template: "{{thisTrial"}, nil); err == nil {
		t.Fatalf("expected template parse error")
	}
	if _, err := NewModel(nil, Options{Template: "x"}, nil); err == nil {
		t.Fatalf("expected missing store error")
	}
}
