package ssh

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
)

const sessionLog = `commit,file,line,depth,length,date,time,timezone,author,datetime,type
a1,x.js,1,0,12,2024-01-01,09:00,+00:00,dylan,2024-01-01T09:00,js
a1,x.js,2,1,20,2024-01-01,09:00,+00:00,dylan,2024-01-01T09:00,js
b2,y.css,1,0,8,2024-01-02,14:30,+00:00,dylan,2024-01-02T14:30,css
`

type fakeDashboard struct {
	ds *meta.Dataset
}

func (f fakeDashboard) NewScrubber() (*meta.Scrubber, error) { return meta.NewScrubber(f.ds), nil }

func (f fakeDashboard) Stats() ([]models.Stat, error) {
	return meta.Stats(f.ds.Rows, f.ds.Commits), nil
}

func newFakeDashboard(t *testing.T) fakeDashboard {
	t.Helper()
	rows, summary, err := meta.NewLoader(time.UTC).Parse("loc.csv", strings.NewReader(sessionLog))
	require.NoError(t, err)
	return fakeDashboard{ds: meta.NewDataset(rows, summary, "")}
}

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand("  next ")
	require.NoError(t, err)
	assert.Equal(t, cmdNext, cmd.kind)

	cmd, err = parseCommand("g 42.5")
	require.NoError(t, err)
	assert.Equal(t, cmdProgress, cmd.kind)
	assert.Equal(t, 42.5, cmd.progress)

	cmd, err = parseCommand("b 10 20 0 5")
	require.NoError(t, err)
	require.NotNil(t, cmd.brush)
	assert.Equal(t, 0.0, cmd.brush.X0)
	assert.Equal(t, 20.0, cmd.brush.Y1)

	cmd, err = parseCommand("")
	require.NoError(t, err)
	assert.Equal(t, cmdNone, cmd.kind)

	for _, bad := range []string{"g", "g far", "b 1 2 3", "b 1 2 3 x", "jump"} {
		_, err := parseCommand(bad)
		assert.Error(t, err, bad)
	}
}

func plainStyles() styles {
	return newStyles(lipgloss.NewRenderer(io.Discard))
}

func newTestModel(t *testing.T) dashboardModel {
	t.Helper()
	m, err := newDashboardModel(newFakeDashboard(t), "Meta", plainStyles())
	require.NoError(t, err)
	return m
}

// submit types line into the command input and presses enter
func submit(t *testing.T, m dashboardModel, line string) (dashboardModel, tea.Cmd) {
	t.Helper()
	var model tea.Model = m
	if line != "" {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	}
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(dashboardModel), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestDashboardModelAppliesCommands(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "No commits selected")
	assert.Contains(t, m.View(), "> ")

	m, cmd := submit(t, m, "p")
	assert.False(t, isQuit(cmd))
	assert.Contains(t, m.View(), "2/2 b2")
	assert.Empty(t, m.input.Value())

	m, _ = submit(t, m, "b 0 0 1000 600")
	assert.Contains(t, m.View(), "2 commits selected")

	m, _ = submit(t, m, "wat")
	assert.Contains(t, m.View(), `unknown command "wat"`)

	m, _ = submit(t, m, "c")
	assert.Contains(t, m.View(), "No commits selected")
	assert.NotContains(t, m.View(), "unknown command")

	m, _ = submit(t, m, "g 0")
	assert.Contains(t, m.View(), "January 1, 2024 at 9:00 AM")

	m, cmd = submit(t, m, "q")
	assert.True(t, isQuit(cmd))
	assert.Empty(t, m.View())
}

func TestDashboardModelQuitsOnCtrlC(t *testing.T) {
	var model tea.Model = newTestModel(t)
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
	assert.Empty(t, model.View())
}

func TestDashboardSessionsDoNotShareState(t *testing.T) {
	fd := newFakeDashboard(t)
	a, err := newDashboardModel(fd, "Meta", plainStyles())
	require.NoError(t, err)
	b, err := newDashboardModel(fd, "Meta", plainStyles())
	require.NoError(t, err)

	a, _ = submit(t, a, "b 0 0 1000 600")
	assert.Contains(t, a.View(), "2 commits selected")
	assert.Contains(t, b.View(), "No commits selected")
}

func TestRenderDashboardListsFiles(t *testing.T) {
	fd := newFakeDashboard(t)
	v, err := fd.ds.View(meta.Query{})
	require.NoError(t, err)
	stats, _ := fd.Stats()

	frame := renderDashboard(plainStyles(), "Meta", stats, v, "")
	assert.Contains(t, frame, "x.js")
	assert.Contains(t, frame, "y.css")
	assert.Contains(t, frame, helpText)
}
