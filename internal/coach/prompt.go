package coach

import (
	"fmt"
	"strings"

	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

const systemPrompt = `You are an experienced climbing coach. You review a climber's recent indoor and outdoor sessions and give short, practical training advice. Be specific and encouraging. Never invent climbs that are not listed.`

func buildUserMessage(climber string, sessions []sessionView, scales []*grades.Scale) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Climber: %s\n", climber)
	fmt.Fprintf(&b, "Recent sessions (newest first): %d\n", len(sessions))

	for _, s := range sessions {
		b.WriteString("\n")
		label := s.Name
		if label == "" {
			label = s.ID
		}
		fmt.Fprintf(&b, "Session %s (%d climbs)\n", label, s.Summary.Count)
		for _, best := range s.Summary.Best {
			fmt.Fprintf(&b, "- hardest %s on %s scale: %s\n", best.Discipline, best.Scale, best.Label())
		}
		for _, c := range s.Climbs {
			if c.Area != "" {
				fmt.Fprintf(&b, "  %s %s @ %s\n", c.Discipline, c.Grade, c.Area)
			} else {
				fmt.Fprintf(&b, "  %s %s\n", c.Discipline, c.Grade)
			}
		}
	}

	b.WriteString("\nGrade scales, hardest first:\n")
	for _, sc := range scales {
		fmt.Fprintf(&b, "- %s: %s\n", sc.Name(), strings.Join(sc.Labels(), ", "))
	}

	b.WriteString(`
Instructions:
1. Summarize the sessions in two or three sentences.
2. Name one focus area for the next session.
3. Give up to five concrete drills.
4. Pick target_grade from the scales listed above. It should be at most one grade above the hardest climb so far.`)

	return b.String()
}

type sessionView struct {
	stats.Session
	Summary stats.Summary
}

// scalesFor lists the distinct scales the sessions were ranked on.
func scalesFor(sessions []stats.Session, r stats.ScaleResolver) []*grades.Scale {
	var out []*grades.Scale
	seen := make(map[*grades.Scale]bool)
	for _, s := range sessions {
		for _, c := range s.Climbs {
			sc, err := r.Resolve(c.Discipline, c.Area)
			if err != nil || seen[sc] {
				continue
			}
			seen[sc] = true
			out = append(out, sc)
		}
	}
	return out
}
