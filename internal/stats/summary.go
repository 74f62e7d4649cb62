package stats

import (
	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
)

// NoGrade is displayed when a discipline has no climbs to rank.
const NoGrade = "none"

// ScaleResolver picks the scale a climb is ranked against.
type ScaleResolver interface {
	Resolve(d climb.Discipline, venue string) (*grades.Scale, error)
}

// Best is the hardest grade climbed on one scale.
type Best struct {
	Discipline climb.Discipline
	Scale      string
	Grade      string
}

// Label returns the grade, or NoGrade when nothing was climbed.
func (b Best) Label() string {
	if b.Grade == "" {
		return NoGrade
	}
	return b.Grade
}

// Summary is the count and per-scale hardest grade of a set of climbs.
type Summary struct {
	Count int
	Best  []Best
}

// HardestFor returns the first hardest grade recorded for d.
func (s Summary) HardestFor(d climb.Discipline) (string, bool) {
	for _, b := range s.Best {
		if b.Discipline == d && b.Grade != "" {
			return b.Grade, true
		}
	}
	return "", false
}

// Summarize counts entries and ranks each against its own discipline and
// venue scale. Scales are never compared to each other, so a mixed
// session yields one Best per scale, in order of first appearance.
func Summarize(entries []climb.Entry, r ScaleResolver) (Summary, error) {
	groups, err := groupByScale(entries, r)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Count: len(entries)}
	for _, g := range groups {
		grade, _, err := grades.Hardest(g.entries, g.discipline, g.scale)
		if err != nil {
			return Summary{}, err
		}
		sum.Best = append(sum.Best, Best{
			Discipline: g.discipline,
			Scale:      g.scale.Name(),
			Grade:      grade,
		})
	}
	return sum, nil
}

type scaleGroup struct {
	discipline climb.Discipline
	scale      *grades.Scale
	entries    []climb.Entry
}

func groupByScale(entries []climb.Entry, r ScaleResolver) ([]*scaleGroup, error) {
	type key struct {
		d climb.Discipline
		s *grades.Scale
	}
	var order []*scaleGroup
	byScale := make(map[key]*scaleGroup)
	for _, e := range entries {
		s, err := r.Resolve(e.Discipline, e.Area)
		if err != nil {
			return nil, err
		}
		k := key{e.Discipline, s}
		g, ok := byScale[k]
		if !ok {
			g = &scaleGroup{discipline: e.Discipline, scale: s}
			byScale[k] = g
			order = append(order, g)
		}
		g.entries = append(g.entries, e)
	}
	return order, nil
}
