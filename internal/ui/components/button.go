package components

import (
	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

// Button is a labelled button; Active marks the focused one.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ButtonRow renders labels side by side with the one at active focused.
func ButtonRow(labels []string, active int) string {
	views := make([]string, 0, len(labels)*2)
	for i, l := range labels {
		if i > 0 {
			views = append(views, "  ")
		}
		views = append(views, Button{Label: l, Active: i == active}.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
