// Package saved shows the confirmation for a session that was just
// persisted.
package saved

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/router"
	"github.com/hanley0809-ux/climbing-points-app/internal/screen"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

// SavedScreen displays a saved session.
type SavedScreen struct {
	session recorder.SavedSession
}

var _ screen.Screen = (*SavedScreen)(nil)
var _ screen.KeyHintProvider = (*SavedScreen)(nil)

// New creates a new SavedScreen.
func New(s recorder.SavedSession) *SavedScreen {
	return &SavedScreen{session: s}
}

func (s *SavedScreen) Init() tea.Cmd {
	return nil
}

func (s *SavedScreen) Title() string {
	return "Session Saved"
}

func (s *SavedScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SavedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SavedScreen) View(width, height int) string {
	sess := s.session
	centre := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(centre(theme.Title.Render("Session saved!")))
	b.WriteString("\n\n")

	name := sess.Label
	if name == "" {
		name = sess.ID
	}
	b.WriteString(centre(theme.Body.Render(name)))
	b.WriteString("\n")
	b.WriteString(centre(theme.Hint.Render(fmt.Sprintf("%s · %d climbs", sess.Climber, sess.Summary.Count))))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 48)))
	b.WriteString(centre(theme.Hint.Render("Hardest")))
	b.WriteString("\n")
	b.WriteString(centre(divider))
	b.WriteString("\n")
	for _, best := range sess.Summary.Best {
		label := string(best.Discipline)
		if best.Scale != label {
			label += " (" + best.Scale + ")"
		}
		line := fmt.Sprintf("%-28s %s", label, best.Label())
		b.WriteString(centre(theme.Good.Render(line)))
		b.WriteString("\n")
	}

	if !layout.IsCompact(height) {
		b.WriteString("\n")
		b.WriteString(centre(theme.Hint.Render("Climbs by grade")))
		b.WriteString("\n")
		b.WriteString(centre(divider))
		b.WriteString("\n")
		for _, line := range gradeCounts(sess.Climbs) {
			b.WriteString(centre(theme.Body.Render(line)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// gradeCounts returns "Discipline Grade ×N" lines in first-seen order.
func gradeCounts(climbs []climb.Entry) []string {
	type key struct {
		d     climb.Discipline
		grade string
	}
	counts := make(map[key]int)
	first := make(map[key]int)
	for i, c := range climbs {
		k := key{c.Discipline, c.Grade}
		if _, ok := counts[k]; !ok {
			first[k] = i
		}
		counts[k]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return first[keys[i]] < first[keys[j]] })

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-28s %s ×%d", k.d, k.grade, counts[k]))
	}
	return lines
}
