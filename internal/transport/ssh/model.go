package ssh

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
)

// frame holds the latest view pushed by the scrubber's observer. Bubbletea
// copies the model on every update, so the observer writes through a pointer.
type frame struct {
	view meta.ViewState
}

// dashboardModel is the bubbletea model of one connected terminal. Every
// session owns its own Scrubber.
type dashboardModel struct {
	scrubber *meta.Scrubber
	stats    []models.Stat
	title    string
	styles   styles
	input    textinput.Model

	frame    *frame
	problem  string
	quitting bool
}

func newDashboardModel(dashboard Dashboard, title string, st styles) (dashboardModel, error) {
	scrubber, err := dashboard.NewScrubber()
	if err != nil {
		return dashboardModel{}, err
	}
	stats, err := dashboard.Stats()
	if err != nil {
		return dashboardModel{}, err
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "n, p, g 50, b x0 y0 x1 y1, c, q"
	input.CharLimit = 64
	input.Focus()

	f := &frame{view: scrubber.State()}
	scrubber.Observe(meta.StepObserverFunc(func(v meta.ViewState) { f.view = v }))

	return dashboardModel{
		scrubber: scrubber,
		stats:    stats,
		title:    title,
		styles:   st,
		input:    input,
		frame:    f,
	}, nil
}

func (m dashboardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			if m.exec(line) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// exec applies one command line and reports whether the session should end
func (m *dashboardModel) exec(line string) bool {
	m.problem = ""

	cmd, err := parseCommand(line)
	if err != nil {
		m.problem = err.Error()
		return false
	}

	switch cmd.kind {
	case cmdQuit:
		return true
	case cmdNext:
		m.scrubber.Next()
	case cmdPrev:
		m.scrubber.Prev()
	case cmdProgress:
		m.scrubber.SetProgress(cmd.progress)
	case cmdBrush:
		m.scrubber.SetBrush(cmd.brush)
	case cmdClear:
		m.scrubber.SetBrush(nil)
	}
	return false
}

func (m dashboardModel) View() string {
	if m.quitting {
		return ""
	}
	return renderDashboard(m.styles, m.title, m.stats, m.frame.view, m.problem) + m.input.View()
}
