package header

import (
	"strings"
	"sync"

	bar "charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	defaultWidth = 60
	ellipsis     = "…"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	testingTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	idleTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241"))
	participantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	lineStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type Options struct {
	Width               int
	Dark                bool
	ParticipantID       string
	TrainingTitle       string
	TestingTitle        string
	TrainingDescription string
	TestingDescription  string
}

// Renderer draws the styled header block. It caches the rendered phase
// descriptions, which only change with the options.
type Renderer struct {
	opts Options
	bar  bar.Model

	mu           sync.Mutex
	descriptions map[Phase]string
}

func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if strings.TrimSpace(opts.TrainingTitle) == "" {
		opts.TrainingTitle = "Training"
	}
	if strings.TrimSpace(opts.TestingTitle) == "" {
		opts.TestingTitle = "Testing"
	}
	return &Renderer{
		opts:         opts,
		bar:          bar.New(bar.WithWidth(opts.Width), bar.WithoutPercentage()),
		descriptions: map[Phase]string{},
	}
}

func (r *Renderer) Width() int {
	return r.opts.Width
}

// Render returns the header block for v with line as the templated text.
func (r *Renderer) Render(v View, line string) string {
	width := r.opts.Width
	rows := []string{r.titleRow(v)}
	if line = strings.TrimSpace(line); line != "" {
		rows = append(rows, lineStyle.Render(fit(line, width)))
	}
	rows = append(rows, r.bar.ViewAs(v.Fraction()))
	if desc := r.description(v.Phase); desc != "" {
		rows = append(rows, desc)
	}
	for i, row := range rows {
		rows[i] = fit(row, width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *Renderer) titleRow(v View) string {
	var title string
	switch v.Phase {
	case PhaseNotStarted:
		title = idleTitleStyle.Render("Not started")
	case PhaseTesting:
		title = testingTitleStyle.Render(r.opts.TestingTitle)
	default:
		title = titleStyle.Render(r.opts.TrainingTitle)
	}
	id := strings.TrimSpace(r.opts.ParticipantID)
	if id == "" {
		return title
	}
	right := participantStyle.Render(id)
	gap := r.opts.Width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + right
}

func (r *Renderer) description(phase Phase) string {
	var text string
	switch phase {
	case PhaseTraining:
		text = r.opts.TrainingDescription
	case PhaseTesting:
		text = r.opts.TestingDescription
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if out, ok := r.descriptions[phase]; ok {
		return out
	}
	out := renderMarkdown(text, r.opts.Width, r.opts.Dark)
	r.descriptions[phase] = out
	return out
}

func renderMarkdown(input string, width int, dark bool) string {
	style := styles.LightStyleConfig
	if dark {
		style = styles.DarkStyleConfig
	}
	style = compactStyle(style)
	tr, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return input
	}
	out, err := tr.Render(input)
	if err != nil {
		return input
	}
	out = strings.Trim(out, "\n")
	return xansi.Hardwrap(out, width, true)
}

// compactStyle drops the document margins glamour adds around a block.
func compactStyle(base glamouransi.StyleConfig) glamouransi.StyleConfig {
	base.Document.StylePrimitive.BlockPrefix = ""
	base.Document.StylePrimitive.BlockSuffix = ""
	zero := uint(0)
	base.Document.Margin = &zero
	return base
}

func fit(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if xansi.StringWidth(line) > width {
			lines[i] = xansi.Truncate(line, width, ellipsis)
		}
	}
	return strings.Join(lines, "\n")
}
