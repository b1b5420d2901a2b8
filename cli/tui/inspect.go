package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/sluice/cli/view"
)

// InspectModel is a Bubble Tea model for inspect views.
type InspectModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "inspect_stream":
		content = m.renderInspectStream()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m InspectModel) renderInspectStream() string {
	data, ok := m.data.(*view.StreamReport)
	if !ok {
		return "Invalid data type for inspect_stream"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Stream Details"))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Stream ID", data.StreamID},
		{"State", data.State},
		{"Content Type", data.ContentType},
		{"Encoding", data.ContentEncoding},
		{"Observed", fmt.Sprintf("%d B", data.Observed)},
	}

	if data.Path != "" {
		rows = append([][]string{{"Path", data.Path}}, rows...)
	}
	if data.ContentLength != nil {
		rows = append(rows, []string{"Content Length", fmt.Sprintf("%d B", *data.ContentLength)})
	}
	rows = append(rows,
		[]string{"Deserializable", fmt.Sprintf("%t", data.Deserializable)},
		[]string{"Compressed", fmt.Sprintf("%t", data.Compressed)},
	)
	if data.FaultCode != "" {
		rows = append(rows, []string{"Fault", data.FaultCode})
	}
	if data.FaultMessage != "" {
		rows = append(rows, []string{"Fault Detail", data.FaultMessage})
	}

	for _, row := range rows {
		label := LabelStyle.Render(row[0] + ":")
		value := row[1]
		switch row[0] {
		case "State":
			value = StateStyle(data.State).Render(value)
		case "Fault", "Fault Detail":
			value = ErrorStyle.Render(value)
		default:
			value = ValueStyle.Render(value)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label, value))
	}

	return BoxStyle.Render(b.String())
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders inspect data without full TUI (for fallback).
func RenderInspectStatic(viewType string, data any) string {
	model := NewInspectModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
