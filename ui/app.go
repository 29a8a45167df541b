package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/wuzhjian/compass/model"
)

// Model is the bubbletea model of the report viewer.
type Model struct {
	report  *model.Report
	version string
	width   int
	height  int

	// Navigation
	selected int
	scroll   int // vertical scroll offset in the detail pane
	showHelp bool
}

// NewModel creates a viewer for report.
func NewModel(report *model.Report, version string) Model {
	return Model{report: report, version: version}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case "esc":
			m.showHelp = false
		case "tab", "l", "right":
			m.selectEntry(m.selected + 1)
		case "shift+tab", "h", "left":
			m.selectEntry(m.selected - 1)
		case "j", "down":
			m.scroll++
		case "k", "up":
			if m.scroll > 0 {
				m.scroll--
			}
		case "g":
			m.scroll = 0
		}
	}
	return m, nil
}

func (m *Model) selectEntry(i int) {
	n := len(m.report.Entries)
	if n == 0 {
		return
	}
	m.selected = (i%n + n) % n
	m.scroll = 0
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	if len(m.report.Entries) == 0 {
		sb.WriteString(dimStyle.Render("  No diagnosis entries for this job."))
		sb.WriteString("\n")
		return sb.String()
	}

	body := strings.Split(RenderEntry(m.report.Entries[m.selected], m.width), "\n")
	avail := m.height - 5
	if avail < 1 {
		avail = len(body)
	}
	start := m.scroll
	if start > len(body)-1 {
		start = len(body) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + avail
	if end > len(body) {
		end = len(body)
	}
	sb.WriteString(strings.Join(body[start:end], "\n"))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(" tab: next  shift+tab: prev  j/k: scroll  ?: help  q: quit"))
	return sb.String()
}

func (m Model) renderHeader() string {
	abnormal := m.report.Abnormal()
	n := int64(len(m.report.Entries))
	return titleStyle.Render(fmt.Sprintf(" compass %s", m.version)) +
		dimStyle.Render(" │ job ") + valueStyle.Render(m.report.JobID) +
		dimStyle.Render(fmt.Sprintf(" │ %s %s │ ", humanize.Comma(n), plural(n, "entry", "entries"))) +
		verdictStyle(abnormal).Render(verdictText(abnormal))
}

func (m Model) renderTabs() string {
	var parts []string
	for i, e := range m.report.Entries {
		abnormal := e.Artifact != nil && e.Artifact.Abnormal
		label := fmt.Sprintf(" %d %s ", i+1, e.ShortLabel)
		if i == m.selected {
			parts = append(parts, selectedStyle.Render(label))
		} else {
			parts = append(parts, verdictStyle(abnormal).Render(label))
		}
	}
	return " " + strings.Join(parts, dimStyle.Render("│"))
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(" Keys") + "\n\n")
	for _, d := range []kv{
		{"tab / l", "next category"},
		{"shift+tab / h", "previous category"},
		{"j / k", "scroll details"},
		{"g", "scroll to top"},
		{"?", "toggle help"},
		{"q", "quit"},
	} {
		sb.WriteString("  " + styledPad(labelStyle.Render(d.Key), 16) + valueStyle.Render(d.Val) + "\n")
	}
	return sb.String()
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Run shows report in a fullscreen viewer until the user quits.
func Run(report *model.Report, version string) error {
	p := tea.NewProgram(NewModel(report, version), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
