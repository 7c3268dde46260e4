package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/keygraph/pkg/layout"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	settledStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))

	tableBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	canvasBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	borderColor    = lipgloss.Color("#00FFFF")
	selectionColor = lipgloss.Color("#FF00FF")

	// communityPalette colours nodes by community label; labels beyond
	// the palette wrap around
	communityPalette = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8800")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4488")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#44AAFF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#AAFF44")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#AA88FF")),
	}
)

func communityStyle(label int) *lipgloss.Style {
	if label < 0 {
		return &mutedStyle
	}
	return &communityPalette[label%len(communityPalette)]
}

// View renders the full frame: title and status, the keyword table beside
// the canvas, then the message and help lines.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("keygraph"))
	s.WriteString("  ")
	s.WriteString(m.renderStatus())
	s.WriteString("\n")

	tablePanel := tableBoxStyle.Render(m.table.View())
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		tablePanel,
		m.renderCanvasPanel(lipgloss.Width(tablePanel)),
	))

	if m.message != "" {
		s.WriteString("\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return s.String()
}

func (m Model) renderStatus() string {
	phase := phaseStyle.Render(m.snap.Phase)
	if m.snap.Phase == layout.PhaseSettled.String() {
		phase = settledStyle.Render("settled")
	}

	parts := []string{
		statusStyle.Render("variant " + m.snap.Variant),
		phase,
		statusStyle.Render(fmt.Sprintf("alpha %.3f", m.snap.Alpha)),
		statusStyle.Render(fmt.Sprintf("tick %d", m.snap.Tick)),
		statusStyle.Render(fmt.Sprintf("%d docs · %d nodes · %d links · %d communities",
			m.docCount, len(m.snap.Nodes), len(m.links), m.commCount)),
	}
	if pinned := m.pinnedCount(); pinned > 0 {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("%d pinned", pinned)))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderCanvasPanel(tableWidth int) string {
	if len(m.snap.Nodes) == 0 {
		return canvasBoxStyle.Render(mutedStyle.Render("no graph yet; load a corpus and rebuild"))
	}
	cols := m.width - tableWidth - 4
	rows := m.table.Height() + 1
	return canvasBoxStyle.Render(renderCanvas(m.snap, m.links, cols, rows, m.ascii))
}
