package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

const titleFull = ` ╔═╗╦  ╦╔╦╗╔╗   ╔═╗╔═╗╦╔╗╔╔╦╗╔═╗
 ║  ║  ║║║║╠╩╗  ╠═╝║ ║║║║║ ║ ╚═╗
 ╚═╝╩═╝╩╩ ╩╚═╝  ╩  ╚═╝╩╝╚╝ ╩ ╚═╝`

const titleCompact = "C L I M B · P O I N T S"

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle     MascotVariant = iota // Standing at the base
	MascotClimbing                      // Session in progress
	MascotSent                          // Climbed this month
)

const mascotIdle = `   o
  /|\
  / \
▔▔▔▔▔▔▔`

const mascotClimbing = `  \o
   |\
  /
▐░▒▓▒░▌`

const mascotSent = ` \o/ ⚑
  |
 / \
▔▔▔▔▔▔▔`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.TextDim
	switch v {
	case MascotClimbing:
		art, fg = mascotClimbing, theme.Accent
	case MascotSent:
		art, fg = mascotSent, theme.Primary
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

func renderMascotBox(v MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(v))
}

// renderStatsBar shows the month count, total sessions and the hardest
// grade per discipline.
func renderStatsBar(d stats.Dashboard, cw int, compact bool) string {
	monthStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	sessionStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	gradeStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	parts := []string{
		monthStyle.Render(fmt.Sprintf("▲ %d THIS MONTH", d.ClimbsThisMonth)),
		sessionStyle.Render(fmt.Sprintf("● %d SESSIONS", d.TotalSessions)),
	}
	if compact {
		parts = []string{
			monthStyle.Render(fmt.Sprintf("▲%d", d.ClimbsThisMonth)),
			sessionStyle.Render(fmt.Sprintf("●%d", d.TotalSessions)),
		}
	}
	for _, b := range d.Hardest {
		if b.Grade == "" {
			continue
		}
		parts = append(parts, gradeStyle.Render(b.Grade))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Accent).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, "  "))
}

func renderError(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(cw).
		Align(lipgloss.Center).
		Render("✗ " + msg)
}

const buttonWidth = 26

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact drops the button borders for small terminals.
func renderMenuCompact(items []string, selected int, cw int) string {
	var lines []string
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
		} else {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   "+label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderUpdateNote(latestVersion string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("New version %s available", latestVersion))
}

// renderFrame wraps content in a double border centred in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
