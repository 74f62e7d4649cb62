package stats

import (
	"sort"
	"time"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
)

// Session is a persisted group of climbs sharing one SessionID.
type Session struct {
	ID      string
	Name    string
	Climber string
	Started time.Time
	Climbs  []climb.Entry
}

// RowsFor keeps the rows logged by climber. An empty climber keeps every
// row.
func RowsFor(rows []climb.Row, climber string) []climb.Row {
	if climber == "" {
		return rows
	}
	var out []climb.Row
	for _, r := range rows {
		if r.Name == climber {
			out = append(out, r)
		}
	}
	return out
}

// GroupSessions groups rows by SessionID, newest first. Rows without a
// SessionID are skipped. A non-empty climber keeps only that climber's
// rows.
func GroupSessions(rows []climb.Row, climber string, loc *time.Location) ([]Session, error) {
	if loc == nil {
		loc = time.Local
	}

	var order []string
	byID := make(map[string]*Session)
	for _, r := range rows {
		if r.SessionID == "" {
			continue
		}
		if climber != "" && r.Name != climber {
			continue
		}
		e, err := r.Entry(loc)
		if err != nil {
			return nil, err
		}
		s, ok := byID[r.SessionID]
		if !ok {
			s = &Session{ID: r.SessionID, Climber: r.Name}
			if started, err := climb.ParseTimestamp(r.SessionID, loc); err == nil {
				s.Started = started
			}
			byID[r.SessionID] = s
			order = append(order, r.SessionID)
		}
		if s.Name == "" {
			s.Name = r.Session
		}
		s.Climbs = append(s.Climbs, e)
	}

	out := make([]Session, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Started.Equal(out[j].Started) {
			return out[i].Started.After(out[j].Started)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
