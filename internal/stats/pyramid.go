package stats

import "github.com/hanley0809-ux/climbing-points-app/internal/climb"

// GradeCount is one row of a Pyramid.
type GradeCount struct {
	Grade string
	Count int
}

// Pyramid counts climbs per grade on one scale, hardest first. Rows span
// the hardest to the easiest grade climbed, gaps included.
type Pyramid struct {
	Discipline climb.Discipline
	Scale      string
	Rows       []GradeCount
}

// Max returns the largest row count.
func (p Pyramid) Max() int {
	m := 0
	for _, r := range p.Rows {
		m = max(m, r.Count)
	}
	return m
}

// Pyramids builds one pyramid per scale, in order of first appearance.
// Unknown grades fail the same way Summarize does.
func Pyramids(entries []climb.Entry, r ScaleResolver) ([]Pyramid, error) {
	groups, err := groupByScale(entries, r)
	if err != nil {
		return nil, err
	}

	out := make([]Pyramid, 0, len(groups))
	for _, g := range groups {
		counts := make([]int, g.scale.Len())
		lo, hi := g.scale.Len(), -1
		for _, e := range g.entries {
			rank, err := g.scale.Rank(e.Grade)
			if err != nil {
				return nil, err
			}
			counts[rank]++
			lo = min(lo, rank)
			hi = max(hi, rank)
		}

		p := Pyramid{Discipline: g.discipline, Scale: g.scale.Name()}
		labels := g.scale.Labels()
		for i := lo; i <= hi; i++ {
			p.Rows = append(p.Rows, GradeCount{Grade: labels[i], Count: counts[i]})
		}
		out = append(out, p)
	}
	return out, nil
}
