package ssh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
)

const maxFiles = 8

// styles are built per session from the client's renderer so colors match
// the remote terminal
type styles struct {
	renderer *lipgloss.Renderer

	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	panel lipgloss.Style
	count lipgloss.Style
	alert lipgloss.Style
	help  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		renderer: r,
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4E79A7")).
			MarginBottom(1),
		label: r.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Width(18),
		value: r.NewStyle().Bold(true),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BAB0AC")).
			Padding(0, 1),
		count: r.NewStyle().Foreground(lipgloss.Color("#F28E2C")),
		alert: r.NewStyle().Foreground(lipgloss.Color("#E15759")),
		help:  r.NewStyle().Foreground(lipgloss.Color("#64748B")),
	}
}

func (s styles) dot(color string) string {
	return s.renderer.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

const helpText = "n next  p prev  g <progress>  b x0 y0 x1 y1  c clear  q quit"

// commandKind is one dashboard input
type commandKind int

const (
	cmdNone commandKind = iota
	cmdNext
	cmdPrev
	cmdProgress
	cmdBrush
	cmdClear
	cmdQuit
	cmdHelp
)

type command struct {
	kind     commandKind
	progress float64
	brush    *meta.Selection
}

// parseCommand reads one input line. An empty line is cmdNone.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{kind: cmdNone}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "n", "next":
		return command{kind: cmdNext}, nil
	case "p", "prev":
		return command{kind: cmdPrev}, nil
	case "c", "clear":
		return command{kind: cmdClear}, nil
	case "q", "quit", "exit":
		return command{kind: cmdQuit}, nil
	case "h", "help", "?":
		return command{kind: cmdHelp}, nil
	case "g", "go":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("usage: g <progress>")
		}
		p, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return command{}, fmt.Errorf("progress must be a number: %q", fields[1])
		}
		return command{kind: cmdProgress, progress: p}, nil
	case "b", "brush":
		if len(fields) != 5 {
			return command{}, fmt.Errorf("usage: b x0 y0 x1 y1")
		}
		var corners [4]float64
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return command{}, fmt.Errorf("brush corners must be numbers: %q", f)
			}
			corners[i] = v
		}
		return command{kind: cmdBrush, brush: meta.NewSelection(corners[0], corners[1], corners[2], corners[3])}, nil
	}
	return command{}, fmt.Errorf("unknown command %q", fields[0])
}

// renderDashboard draws one frame of the terminal dashboard
func renderDashboard(st styles, title string, stats []models.Stat, v meta.ViewState, problem string) string {
	var b strings.Builder

	b.WriteString(st.title.Render(title))
	b.WriteString("\n")

	rows := make([]string, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, st.label.Render(stat.Label)+st.value.Render(stat.Value))
	}
	b.WriteString(st.panel.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s\n", st.label.Render("Cutoff"), st.value.Render(v.CutoffLabel))
	fmt.Fprintf(&b, "%s %s\n", st.label.Render("Progress"), st.value.Render(fmt.Sprintf("%.0f", v.Progress)))
	if v.Step >= 0 && v.Step < len(v.Steps) {
		step := v.Steps[v.Step]
		fmt.Fprintf(&b, "%s %s\n", st.label.Render("Step"),
			st.value.Render(fmt.Sprintf("%d/%d %s by %s, %s lines in %d files",
				v.Step+1, len(v.Steps), step.CommitID, step.Author, humanize.Comma(int64(step.Lines)), step.Files)))
	}
	fmt.Fprintf(&b, "%s %s\n", st.label.Render("Commits"), st.value.Render(strconv.Itoa(len(v.Filtered))))
	b.WriteString(st.count.Render(v.CountLabel))
	b.WriteString("\n")

	for _, share := range v.Breakdown {
		fmt.Fprintf(&b, "  %-10s %8s lines  %s\n", share.Type, humanize.Comma(int64(share.Lines)), share.Formatted)
	}

	if len(v.Files) > 0 {
		b.WriteString("\n")
		files := v.Files
		if len(files) > maxFiles {
			files = files[:maxFiles]
		}
		for _, f := range files {
			fmt.Fprintf(&b, "%s %-40s %s\n", st.dot(f.Color), f.Name, humanize.Comma(int64(f.Lines)))
		}
		if more := len(v.Files) - len(files); more > 0 {
			fmt.Fprintf(&b, "  and %d more\n", more)
		}
	}

	if problem != "" {
		b.WriteString("\n")
		b.WriteString(st.alert.Render(problem))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.help.Render(helpText))
	b.WriteString("\n\n")
	return b.String()
}
