// Package app runs a terminal preview of the experiment header. The header
// is recomputed from the session store on every change, the same way the
// browser front end re-renders it.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"trialheader/internal/header"
	"trialheader/internal/logging"
	"trialheader/internal/session"
)

const helpText = "→/space advance · ← undo · r reset · c copy · q quit"

// SessionStore is the part of the session store the preview drives.
type SessionStore interface {
	Int(key string) (int, bool)
	Advance() (int, error)
	Undo() (int, error)
	Reset() error
	Subscribe() (<-chan session.Change, func())
	ParticipantID() string
}

type Options struct {
	Template string
	Header   header.Options
}

type sessionChangedMsg struct {
	change session.Change
}

type sessionClosedMsg struct{}

type Model struct {
	store       SessionStore
	logger      logging.Logger
	opts        header.Options
	renderer    *header.Renderer
	template    *header.Template
	changes     <-chan session.Change
	unsubscribe func()
	width       int
	block       string
	status      string
	statusErr   bool
}

func NewModel(store SessionStore, opts Options, logger logging.Logger) (*Model, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	tmpl, err := header.ParseTemplate(opts.Template, store)
	if err != nil {
		return nil, fmt.Errorf("parse header template: %w", err)
	}
	if opts.Header.ParticipantID == "" {
		opts.Header.ParticipantID = store.ParticipantID()
	}
	changes, unsubscribe := store.Subscribe()
	m := &Model{
		store:       store,
		logger:      logger,
		opts:        opts.Header,
		renderer:    header.NewRenderer(opts.Header),
		template:    tmpl,
		changes:     changes,
		unsubscribe: unsubscribe,
		width:       opts.Header.Width,
	}
	m.refresh()
	return m, nil
}

// Run starts the preview and blocks until the user quits or ctx is done.
func Run(ctx context.Context, store SessionStore, opts Options, logger logging.Logger) error {
	m, err := NewModel(store, opts, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil
	case sessionChangedMsg:
		m.logger.Debug("header refresh", logging.F("key", msg.change.Key), logging.F("value", msg.change.Value))
		m.refresh()
		return m, waitForChange(m.changes)
	case sessionClosedMsg:
		m.setStatus("session closed", false)
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "space", " ", "enter":
		m.apply("advance", m.store.Advance)
	case "left", "h", "backspace":
		m.apply("undo", m.store.Undo)
	case "r":
		if err := m.store.Reset(); err != nil {
			m.fail("reset", err)
			return m, nil
		}
		m.setStatus("reset to not started", false)
	case "c":
		m.copySummary()
	}
	return m, nil
}

func (m *Model) apply(action string, fn func() (int, error)) {
	completed, err := fn()
	if err != nil {
		m.fail(action, err)
		return
	}
	m.logger.Info("trial progress", logging.F("action", action), logging.F("trials_completed", completed))
	m.setStatus(fmt.Sprintf("%s: trialsCompleted=%d", action, completed), false)
}

func (m *Model) copySummary() {
	v, err := header.Compute(m.store)
	if err != nil {
		m.fail("copy", err)
		return
	}
	text := fmt.Sprintf("%s %s", m.store.ParticipantID(), v.Summary())
	method, err := copyTextToClipboard(text)
	if err != nil {
		m.fail("copy", err)
		return
	}
	m.setStatus("copied via "+method.String(), false)
}

func (m *Model) fail(action string, err error) {
	m.logger.Warn("preview action failed", logging.F("action", action), logging.F("err", err))
	m.setStatus(action+" failed: "+err.Error(), true)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) resize(termWidth int) {
	// border and padding take four cells
	width := termWidth - 4
	if m.opts.Width > 0 && width > m.opts.Width {
		width = m.opts.Width
	}
	if width <= 0 || width == m.width {
		return
	}
	m.width = width
	opts := m.opts
	opts.Width = width
	m.renderer = header.NewRenderer(opts)
	m.refresh()
}

// refresh recomputes the header block from the store.
func (m *Model) refresh() {
	v, err := header.Compute(m.store)
	if err != nil {
		m.block = ""
		m.fail("render", err)
		return
	}
	line, err := m.template.Execute()
	if err != nil {
		m.block = ""
		m.fail("render", err)
		return
	}
	m.block = m.renderer.Render(v, line)
	if m.statusErr {
		m.setStatus("", false)
	}
}

func (m *Model) render() string {
	parts := []string{}
	if m.block != "" {
		parts = append(parts, frameStyle.Render(m.block))
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = statusErrorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	parts = append(parts, helpStyle.Render(helpText))
	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, parts...), " ")
}

func waitForChange(changes <-chan session.Change) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return sessionClosedMsg{}
		}
		return sessionChangedMsg{change: change}
	}
}
