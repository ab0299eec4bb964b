package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/d3d12-capture/command"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	callStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	seqStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
	stateDetail
)

type browserModel struct {
	data     *decoded
	visible  []int // indexes into data.commands
	filter   textinput.Model
	selected int
	offset   int
	height   int
	width    int
	state    modelState
}

func newBrowserModel(d *decoded, call command.CallID) *browserModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Placeholder = "call name substring"
	ti.Width = 40
	if call != command.CallInvalid {
		ti.SetValue(call.String())
	}
	m := &browserModel{data: d, filter: ti, height: 24, width: 100}
	m.applyFilter()
	return m
}

func (m *browserModel) Init() tea.Cmd { return nil }

func (m *browserModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, c := range m.data.commands {
		if q == "" || strings.Contains(strings.ToLower(c.Call().String()), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected, m.offset = 0, 0
}

func (m *browserModel) rows() int {
	return max(m.height-8, 1)
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if m.state == stateFilter {
			switch msg.String() {
			case "enter", "esc":
				m.filter.Blur()
				m.state = stateBrowse
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "pgdown":
			if m.state == stateBrowse {
				m.selected = min(m.selected+m.rows(), max(len(m.visible)-1, 0))
			}

		case "pgup":
			if m.state == stateBrowse {
				m.selected = max(m.selected-m.rows(), 0)
			}

		case "/":
			if m.state == stateBrowse {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				if len(m.visible) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateBrowse
			}

		case "esc":
			if m.state == stateDetail {
				m.state = stateBrowse
			}
		}
	}

	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.rows() {
		m.offset = m.selected - m.rows() + 1
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Capture Browser"))
	b.WriteString(" ")
	b.WriteString(m.data.path)
	fmt.Fprintf(&b, "  %d/%d commands\n\n", len(m.visible), len(m.data.commands))

	if m.state == stateDetail {
		c := m.data.commands[m.visible[m.selected]]
		b.WriteString(detailStyle.Width(max(m.width-4, 20)).Render(detail(c)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
		return b.String()
	}

	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	end := min(m.offset+m.rows(), len(m.visible))
	for i := m.offset; i < end; i++ {
		c := m.data.commands[m.visible[i]]
		h := c.Header()
		if i == m.selected {
			b.WriteString(selectedStyle.Render(fmt.Sprintf("> %8d  %s  %s", h.Seq, c.Call(), summary(c))))
		} else {
			fmt.Fprintf(&b, "  %s  %s  %s",
				seqStyle.Render(fmt.Sprintf("%8d", h.Seq)), callStyle.Render(c.Call().String()), summary(c))
		}
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString("  no matching commands\n")
	}

	b.WriteString("\n")
	if m.state == stateFilter {
		b.WriteString(helpStyle.Render("type to filter • enter/esc done"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • / filter • enter details • q quit"))
	}
	return b.String()
}

func runInteractive(d *decoded, call command.CallID) error {
	p := tea.NewProgram(newBrowserModel(d, call), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
