package climb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the persisted format of both climb timestamps and
// session identifiers.
const TimestampLayout = "2006-01-02 15:04:05"

// Discipline is a climbing category. Its string form is the value stored
// in the Discipline column.
type Discipline string

const (
	Bouldering    Discipline = "Bouldering"
	SportClimbing Discipline = "Sport Climbing"
)

// Disciplines returns the known disciplines in display order.
func Disciplines() []Discipline {
	return []Discipline{Bouldering, SportClimbing}
}

// ParseDiscipline accepts the canonical names case-insensitively plus the
// short aliases "boulder" and "sport".
func ParseDiscipline(s string) (Discipline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bouldering", "boulder":
		return Bouldering, nil
	case "sport climbing", "sport", "sportclimbing":
		return SportClimbing, nil
	}
	return "", &ValidationError{Field: "discipline", Reason: fmt.Sprintf("unknown discipline %q", s)}
}

// Entry is a single climb logged during an in-progress session.
type Entry struct {
	Discipline Discipline `json:"discipline"`
	Grade      string     `json:"grade"`
	Timestamp  time.Time  `json:"timestamp"`
	Area       string     `json:"area,omitempty"`
}

// DecodeEntries decodes a JSON array of entries, rejecting unknown keys.
func DecodeEntries(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, &ValidationError{Field: "climbs", Reason: "malformed climb entries", Err: err}
	}
	return entries, nil
}

// Row is one persisted climb in the append-only climb table.
type Row struct {
	Discipline Discipline
	Grade      string
	Timestamp  string
	SessionID  string
	Name       string
	Area       string
	Session    string
}

// NewRow stamps an entry with its session identity.
func NewRow(e Entry, sessionID, climber, label string) Row {
	return Row{
		Discipline: e.Discipline,
		Grade:      e.Grade,
		Timestamp:  FormatTimestamp(e.Timestamp),
		SessionID:  sessionID,
		Name:       climber,
		Area:       e.Area,
		Session:    label,
	}
}

// Entry parses the row back into an entry in loc.
func (r Row) Entry(loc *time.Location) (Entry, error) {
	ts, err := ParseTimestamp(r.Timestamp, loc)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Discipline: r.Discipline,
		Grade:      r.Grade,
		Timestamp:  ts,
		Area:       r.Area,
	}, nil
}

// FormatTimestamp renders t in the persisted layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a persisted timestamp as wall-clock time in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "timestamp", Reason: fmt.Sprintf("malformed timestamp %q", s), Err: err}
	}
	return t, nil
}
