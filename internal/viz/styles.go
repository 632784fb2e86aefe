package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the lipgloss set derived from a Theme.
type Styles struct {
	Canvas  lipgloss.Style
	Panel   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Failed  lipgloss.Style
	Moving  lipgloss.Style
	Graph   lipgloss.Style
	Bar     lipgloss.Style
	BarOff  lipgloss.Style
}

const panelWidth = 44

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Foreground(t.Rope).Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(panelWidth),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Failed:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Moving:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Graph:   lipgloss.NewStyle().Foreground(t.Rope).Padding(1, 0),
		Bar:     lipgloss.NewStyle().Foreground(t.Accent),
		BarOff:  lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// ProgressBar renders a filled/empty bar for percent in [0, 1].
func (s Styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return s.Bar.Render(strings.Repeat("█", filled)) + s.BarOff.Render(strings.Repeat("░", width-filled))
}

// Row renders one label/value line of the stats panel.
func (s Styles) Row(label, value string) string {
	return s.Label.Render(label) + s.Value.Render(value) + "\n"
}
