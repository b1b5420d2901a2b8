package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/sluice/cli/view"
)

// StatsModel is a Bubble Tea model for stats views.
type StatsModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewStatsModel creates a new stats model.
func NewStatsModel(viewType string, data any) StatsModel {
	return StatsModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "stats_streams":
		content = m.renderStatsStreams()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m StatsModel) renderStatsStreams() string {
	data, ok := m.data.(*view.StatsReport)
	if !ok {
		return "Invalid data type for stats_streams"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Stream Statistics"))
	b.WriteString("\n\n")

	boxes := []string{
		m.renderStatBox("Opened", data.Opened, highlightColor),
		m.renderStatBox("Flushed", data.Flushed, successColor),
		m.renderStatBox("Errored", data.Errored, errorColor),
		m.renderStatBox("Destroyed", data.Destroyed, warningColor),
	}

	// Join boxes horizontally
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))

	if data.Flushed > 0 {
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Total Bytes:"),
			ValueStyle.Render(fmt.Sprintf("%d", data.TotalBytes))))
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Payload Range:"),
			ValueStyle.Render(fmt.Sprintf("%d – %d B", data.MinBytes, data.MaxBytes))))
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Mean Payload:"),
			ValueStyle.Render(fmt.Sprintf("%.0f B", data.MeanBytes))))
	}

	if len(data.FaultCodes) > 0 {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render("Faults"))
		b.WriteString("\n")

		codes := make([]string, 0, len(data.FaultCodes))
		for code := range data.FaultCodes {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render(code+":"),
				ErrorStyle.Render(fmt.Sprintf("%d", data.FaultCodes[code]))))
		}
	}

	return b.String()
}

func (m StatsModel) renderStatBox(label string, value int64, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// RunStatsTUI runs the stats TUI.
func RunStatsTUI(viewType string, data any) error {
	model := NewStatsModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderStatsStatic renders stats data without full TUI (for fallback).
func RenderStatsStatic(viewType string, data any) string {
	model := NewStatsModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
