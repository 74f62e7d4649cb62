package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

// Picker is a grid selector over a fixed list of options, used for grades,
// disciplines and venues.
type Picker struct {
	Options  []string
	Selected int
	Columns  int
}

// NewPicker creates a picker laid out in columns (at least 1).
func NewPicker(options []string, columns int) Picker {
	return Picker{Options: options, Columns: max(columns, 1)}
}

// Value returns the selected option, or "" when there are none.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// Select moves the cursor to option s if present.
func (p *Picker) Select(s string) {
	for i, o := range p.Options {
		if o == s {
			p.Selected = i
			return
		}
	}
}

// Update handles arrow and vim-style navigation. Enter is left to the
// owning screen.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(p.Options) == 0 {
		return p, nil
	}

	next := p.Selected
	switch kmsg.String() {
	case "left", "h":
		next--
	case "right", "l":
		next++
	case "up", "k":
		next -= p.Columns
	case "down", "j":
		next += p.Columns
	case "home":
		next = 0
	case "end":
		next = len(p.Options) - 1
	}
	if next >= 0 && next < len(p.Options) {
		p.Selected = next
	}
	return p, nil
}

// View renders the options as a grid.
func (p Picker) View() string {
	width := 0
	for _, o := range p.Options {
		width = max(width, lipgloss.Width(o))
	}
	cell := lipgloss.NewStyle().Width(width + 4)

	var b strings.Builder
	for i, o := range p.Options {
		if i > 0 && i%p.Columns == 0 {
			b.WriteString("\n")
		}
		if i == p.Selected {
			b.WriteString(cell.Inherit(theme.Selected).Render("▸ " + o))
		} else {
			b.WriteString(cell.Inherit(theme.Unselected).Render("  " + o))
		}
	}
	return b.String()
}
