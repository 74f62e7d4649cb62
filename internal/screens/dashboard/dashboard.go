// Package dashboard shows all-time and monthly stats with a grade pyramid.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/router"
	"github.com/hanley0809-ux/climbing-points-app/internal/screen"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/components"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

// RowSource reads the full climb table.
type RowSource interface {
	AllRows(ctx context.Context) ([]climb.Row, error)
}

type dashboardLoadedMsg struct {
	Dashboard stats.Dashboard
	Pyramids  []stats.Pyramid
	Err       error
}

// Screen renders the dashboard.
type Screen struct {
	rows     RowSource
	scales   stats.DisciplineLister
	climber  string
	now      func() time.Time
	dash     stats.Dashboard
	pyramids []stats.Pyramid
	current  int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the dashboard for climber's rows. An empty climber counts
// everyone. now defaults to time.Now.
func New(rows RowSource, scales stats.DisciplineLister, climber string, now func() time.Time) *Screen {
	if now == nil {
		now = time.Now
	}
	return &Screen{rows: rows, scales: scales, climber: climber, now: now}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		all, err := s.rows.AllRows(context.Background())
		if err != nil {
			return dashboardLoadedMsg{Err: err}
		}
		rows := stats.RowsFor(all, s.climber)
		now := s.now()
		dash, err := stats.BuildDashboard(rows, s.scales, now)
		if err != nil {
			return dashboardLoadedMsg{Err: err}
		}
		entries, err := stats.Entries(rows, now.Location())
		if err != nil {
			return dashboardLoadedMsg{Err: err}
		}
		pyramids, err := stats.Pyramids(entries, s.scales)
		if err != nil {
			return dashboardLoadedMsg{Err: err}
		}
		return dashboardLoadedMsg{Dashboard: dash, Pyramids: pyramids}
	}
}

func (s *Screen) Title() string {
	return "Dashboard"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	if len(s.pyramids) > 1 {
		hints = append([]layout.KeyHint{{Key: "←→", Description: "Scale"}}, hints...)
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.dash = msg.Dashboard
			s.pyramids = msg.Pyramids
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		n := len(s.pyramids)
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "right", "l", "tab":
			if n > 0 {
				s.current = (s.current + 1) % n
			}
		case "left", "h", "shift+tab":
			if n > 0 {
				s.current = (s.current + n - 1) % n
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Crunching numbers...")
	}

	cw := components.ContentWidth(width)
	d := s.dash

	var totals strings.Builder
	totals.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s %d", d.Month, d.Year)))
	totals.WriteString("\n")
	totals.WriteString(theme.Body.Render(fmt.Sprintf("Climbs this month  %d", d.ClimbsThisMonth)))
	totals.WriteString("\n")
	totals.WriteString(theme.Body.Render(fmt.Sprintf("All-time climbs    %d", d.TotalClimbs)))
	totals.WriteString("\n")
	totals.WriteString(theme.Body.Render(fmt.Sprintf("Sessions           %d", d.TotalSessions)))

	var hardest strings.Builder
	hardest.WriteString(theme.Subtitle.Render("Hardest sends"))
	for _, b := range d.Hardest {
		label := string(b.Discipline)
		if b.Scale != label {
			label += " (" + b.Scale + ")"
		}
		style := theme.Good
		if b.Grade == "" {
			style = theme.Hint
		}
		hardest.WriteString("\n")
		hardest.WriteString(theme.Body.Render(fmt.Sprintf("%-28s ", label)) + style.Render(b.Label()))
	}

	parts := []string{
		components.Card(totals.String(), cw),
		components.Card(hardest.String(), cw),
	}
	if !layout.IsCompact(height) && len(s.pyramids) > 0 {
		parts = append(parts, components.Card(s.viewPyramid(cw), cw))
	}
	return components.Centre(lipgloss.JoinVertical(lipgloss.Left, parts...), width, height)
}

func (s *Screen) viewPyramid(cw int) string {
	p := s.pyramids[s.current]

	labelWidth := 0
	for _, r := range p.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Grade))
	}

	var b strings.Builder
	title := "Grade pyramid: " + p.Scale
	if len(s.pyramids) > 1 {
		title += fmt.Sprintf("  (%d/%d)", s.current+1, len(s.pyramids))
	}
	b.WriteString(theme.Subtitle.Render(title))
	for _, r := range p.Rows {
		b.WriteString("\n")
		b.WriteString(components.CountBar{
			Label:      r.Grade,
			LabelWidth: labelWidth,
			Count:      r.Count,
			Max:        p.Max(),
			Width:      cw - 4,
		}.View())
	}
	return b.String()
}
