package logsession

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/components"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.phase() {
	case recorder.NoActiveSession:
		return s.viewSetup(width, height)
	case recorder.AwaitingSaveConfirmation:
		return s.viewConfirm(width, height)
	}
	return s.viewLogging(width, height)
}

func (s *Screen) viewSetup(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.step {
	case stepClimber:
		body = s.climberIn.View()
	case stepDiscipline:
		body = theme.Subtitle.Render("What are you climbing?") + "\n\n" + s.disciplines.View()
	case stepVenue:
		body = theme.Subtitle.Render("Where are you climbing?") + "\n\n" + s.venues.View()
	}
	if s.errMsg != "" {
		body += "\n\n" + theme.Bad.Render(s.errMsg)
	}

	return components.Centre(
		theme.Title.Render("Start a session")+"\n\n"+components.Card(body, cw),
		width, height)
}

func (s *Screen) viewLogging(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompact(height)

	var ctx strings.Builder
	ctx.WriteString(theme.Subtitle.Render(string(s.discipline)))
	if area := s.rec.Area(); area != "" {
		ctx.WriteString(theme.Hint.Render("  @ " + area))
	}
	if !compact {
		ctx.WriteString("\n" + theme.Hint.Render("Started "+s.rec.Started().Format("15:04")))
	}

	gradesCard := s.grades.View()
	if s.focus != focusGrades {
		gradesCard = lipgloss.NewStyle().Faint(true).Render(gradesCard)
	}

	parts := []string{
		ctx.String(),
		components.Card(gradesCard, cw),
		components.Card(s.viewClimbs(compact), cw),
	}
	switch {
	case s.errMsg != "":
		parts = append(parts, theme.Bad.Render(s.errMsg))
	case s.statusMsg != "":
		parts = append(parts, theme.Good.Render(s.statusMsg))
	}
	return components.Centre(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}

// viewClimbs lists the logged climbs, newest at the bottom. In compact
// mode only the tail around the cursor is shown.
func (s *Screen) viewClimbs(compact bool) string {
	climbs := s.rec.Climbs()
	if len(climbs) == 0 {
		return theme.Hint.Render("No climbs yet. Pick a grade and press Enter.")
	}

	limit := 8
	if compact {
		limit = 4
	}
	start := 0
	if len(climbs) > limit {
		start = len(climbs) - limit
		if s.focus == focusList && s.listCursor < start {
			start = s.listCursor
		}
	}
	end := min(start+limit, len(climbs))

	var b strings.Builder
	b.WriteString(theme.Body.Render(fmt.Sprintf("Climbs (%d)", len(climbs))))
	for i := start; i < end; i++ {
		c := climbs[i]
		line := fmt.Sprintf("%2d. %-16s %-6s %s", i+1, c.Discipline, c.Grade, c.Timestamp.Format("15:04"))
		b.WriteString("\n")
		if s.focus == focusList && i == s.listCursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
	}
	if start > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("  … %d earlier", start)))
	}
	return b.String()
}

func (s *Screen) viewConfirm(width, height int) string {
	var b strings.Builder
	if s.saving {
		b.WriteString(theme.Title.Render("Saving…"))
		b.WriteString("\n\n" + theme.Body.Render(s.savingNote))
		return components.Centre(theme.Modal.Width(components.ContentWidth(width)).Render(b.String()), width, height)
	}
	b.WriteString(theme.Title.Render("Save this session?"))
	b.WriteString("\n\n")

	climbs := s.rec.Climbs()
	b.WriteString(theme.Body.Render(fmt.Sprintf("%s, %d climbs", s.rec.Climber(), len(climbs))))
	if sum, err := s.rec.Summary(); err == nil {
		for _, best := range sum.Best {
			b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("Hardest %s: %s", best.Scale, best.Label())))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(s.labelIn.View())
	b.WriteString("\n\n")
	b.WriteString(components.ButtonRow([]string{"Save", "Cancel"}, s.button))
	if s.modalErr != "" {
		b.WriteString("\n\n" + theme.Bad.Render(s.modalErr))
		b.WriteString("\n" + theme.Hint.Render("Your climbs are kept. Press Enter to retry."))
	}

	return components.Centre(theme.Modal.Width(components.ContentWidth(width)).Render(b.String()), width, height)
}
