package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

// CountBar is one row of a grade pyramid: a label and a count drawn
// relative to Max.
type CountBar struct {
	Label      string
	LabelWidth int
	Count      int
	Max        int
	Width      int
}

// View renders the bar.
func (c CountBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(c.LabelWidth).
		Render(c.Label)

	count := fmt.Sprintf("  %d", c.Count)
	barWidth := c.Width - lipgloss.Width(label) - len(count) - 1
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if c.Max > 0 {
		filled = barWidth * c.Count / c.Max
	}
	if c.Count > 0 && filled == 0 {
		filled = 1
	}
	filled = min(filled, barWidth)

	return label + " " +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
}
