package notify

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// Priority color mapping, mirroring the web client's popup styling:
// urgent=red, high=orange, normal=blue, low=gray. Unrecognized priorities
// render with the normal row.
var (
	colorRed    = lipgloss.Color("196")
	colorOrange = lipgloss.Color("208")
	colorBlue   = lipgloss.Color("33")
	colorGray   = lipgloss.Color("245")
)

// StyleSet holds the panel and badge styles for one priority.
type StyleSet struct {
	Panel lipgloss.Style
	Badge lipgloss.Style
}

func newStyleSet(c lipgloss.Color) StyleSet {
	return StyleSet{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1).
			Width(60),
		Badge: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
	}
}

var priorityStyles = map[model.Priority]StyleSet{
	model.PriorityUrgent: newStyleSet(colorRed),
	model.PriorityHigh:   newStyleSet(colorOrange),
	model.PriorityNormal: newStyleSet(colorBlue),
	model.PriorityLow:    newStyleSet(colorGray),
}

// StylesFor returns the style set for a priority, falling back to the
// normal row for unrecognized values.
func StylesFor(p model.Priority) StyleSet {
	return priorityStyles[p.Normalize()]
}

// PriorityColor returns the accent color for a priority.
func PriorityColor(p model.Priority) lipgloss.Color {
	switch p.Normalize() {
	case model.PriorityUrgent:
		return colorRed
	case model.PriorityHigh:
		return colorOrange
	case model.PriorityLow:
		return colorGray
	}
	return colorBlue
}

// TypeIcon returns the glyph shown next to the announcement title.
func TypeIcon(t model.NotificationType) string {
	switch t {
	case model.TypeUrgent:
		return "⚠"
	case model.TypeAcademic:
		return "📖"
	case model.TypeEvent:
		return "📅"
	case model.TypeSystem:
		return "🔔"
	}
	return "📢"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)
