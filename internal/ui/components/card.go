package components

import (
	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked cards so they
// line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

// Card wraps content in a rounded border at content width cw.
func Card(content string, cw int) string {
	return theme.Card.Width(cw).Render(content)
}

// Centre places content in the middle of a width x height area.
func Centre(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
