package stats

import (
	"time"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
)

// ClimbsInMonth counts entries whose timestamp falls in the given calendar
// month of loc.
func ClimbsInMonth(entries []climb.Entry, year int, month time.Month, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	n := 0
	for _, e := range entries {
		t := e.Timestamp.In(loc)
		if t.Year() == year && t.Month() == month {
			n++
		}
	}
	return n
}

// Entries parses persisted rows into entries in loc.
func Entries(rows []climb.Row, loc *time.Location) ([]climb.Entry, error) {
	out := make([]climb.Entry, 0, len(rows))
	for _, r := range rows {
		e, err := r.Entry(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// DisciplineLister is a ScaleResolver that can enumerate its disciplines.
type DisciplineLister interface {
	ScaleResolver
	Disciplines() []climb.Discipline
}

// Dashboard is recomputed on demand from the full climb table.
type Dashboard struct {
	Year            int
	Month           time.Month
	ClimbsThisMonth int
	TotalClimbs     int
	TotalSessions   int
	Hardest         []Best
}

// HardestFor returns the dashboard label for d: the hardest grade on d's
// default scale, or on the first venue scale climbed when the default has
// nothing.
func (d Dashboard) HardestFor(disc climb.Discipline) string {
	for _, b := range d.Hardest {
		if b.Discipline == disc && b.Grade != "" {
			return b.Grade
		}
	}
	return NoGrade
}

// BuildDashboard computes the dashboard for the month containing now.
// Every configured discipline appears in Hardest, with an empty grade
// when nothing has been climbed on it. Each discipline's default scale
// is listed before its venue scales.
func BuildDashboard(rows []climb.Row, r DisciplineLister, now time.Time) (Dashboard, error) {
	loc := now.Location()
	entries, err := Entries(rows, loc)
	if err != nil {
		return Dashboard{}, err
	}

	sum, err := Summarize(entries, r)
	if err != nil {
		return Dashboard{}, err
	}

	sessions := make(map[string]bool)
	for _, row := range rows {
		if row.SessionID != "" {
			sessions[row.SessionID] = true
		}
	}

	dash := Dashboard{
		Year:            now.Year(),
		Month:           now.Month(),
		ClimbsThisMonth: ClimbsInMonth(entries, now.Year(), now.Month(), loc),
		TotalClimbs:     len(rows),
		TotalSessions:   len(sessions),
	}

	for _, d := range r.Disciplines() {
		def := ""
		if s, err := r.Resolve(d, ""); err == nil {
			def = s.Name()
		}
		var own []Best
		for _, b := range sum.Best {
			if b.Discipline != d {
				continue
			}
			if b.Scale == def {
				own = append([]Best{b}, own...)
			} else {
				own = append(own, b)
			}
		}
		if len(own) == 0 {
			own = []Best{{Discipline: d, Scale: string(d)}}
		}
		dash.Hardest = append(dash.Hardest, own...)
	}
	return dash, nil
}
