// Package history lists saved sessions from the climb table.
package history

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
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

// RowSource reads the full climb table.
type RowSource interface {
	AllRows(ctx context.Context) ([]climb.Row, error)
}

type historyLoadedMsg struct {
	Sessions  []stats.Session
	Summaries []stats.Summary
	Err       error
}

// HistoryScreen displays past sessions, newest first.
type HistoryScreen struct {
	rows      RowSource
	scales    stats.ScaleResolver
	climber   string
	sessions  []stats.Session
	summaries []stats.Summary
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. An empty climber lists everyone.
func New(rows RowSource, scales stats.ScaleResolver, climber string) *HistoryScreen {
	return &HistoryScreen{
		rows:     rows,
		scales:   scales,
		climber:  climber,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		rows, err := s.rows.AllRows(context.Background())
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		sessions, err := stats.GroupSessions(rows, s.climber, time.Local)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		summaries := make([]stats.Summary, len(sessions))
		for i, sess := range sessions {
			// A row whose scale has since been removed from the config
			// still lists, just without a hardest grade.
			sum, err := stats.Summarize(sess.Climbs, s.scales)
			if err != nil {
				sum = stats.Summary{Count: len(sess.Climbs)}
			}
			summaries[i] = sum
		}
		return historyLoadedMsg{Sessions: sessions, Summaries: summaries}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.summaries = msg.Summaries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Go climb something!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		dateStr := sess.ID
		if !sess.Started.IsZero() {
			dateStr = sess.Started.Format("Jan 02, 2006 15:04")
		}
		name := sess.Name
		if name == "" {
			name = "untitled"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-20s  %-10s  %d climbs",
			prefix, dateStr, truncate(name, 20), truncate(sess.Climber, 10), len(sess.Climbs))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range s.details(i) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// details lists the hardest grade per scale and then every climb.
func (s *HistoryScreen) details(i int) []string {
	var lines []string
	if i < len(s.summaries) {
		for _, best := range s.summaries[i].Best {
			lines = append(lines, fmt.Sprintf("    Hardest %s: %s", best.Scale, best.Label()))
		}
	}
	for _, c := range s.sessions[i].Climbs {
		line := fmt.Sprintf("    %s  %-16s %s", c.Timestamp.Format("15:04"), c.Discipline, c.Grade)
		if c.Area != "" {
			line += "  @ " + c.Area
		}
		lines = append(lines, line)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
