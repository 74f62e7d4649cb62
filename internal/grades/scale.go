package grades

import (
	"fmt"
	"strings"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
)

// Scale is an ordered grade vocabulary, hardest first. Comparison is by
// list position only.
type Scale struct {
	name   string
	labels []string
	index  map[string]int
}

// NewScale builds a scale from hardest-first labels. Labels must be
// non-empty and unique.
func NewScale(name string, labels []string) (*Scale, error) {
	if len(labels) == 0 {
		return nil, &climb.ValidationError{Field: "scale", Reason: fmt.Sprintf("scale %s has no grades", name)}
	}
	s := &Scale{
		name:   name,
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			return nil, &climb.ValidationError{Field: "scale", Reason: fmt.Sprintf("scale %s has an empty grade at position %d", name, i)}
		}
		if _, dup := s.index[l]; dup {
			return nil, &climb.ValidationError{Field: "scale", Reason: fmt.Sprintf("scale %s lists %q twice", name, l)}
		}
		s.labels[i] = l
		s.index[l] = i
	}
	return s, nil
}

// MustScale is NewScale for built-in tables.
func MustScale(name string, labels []string) *Scale {
	s, err := NewScale(name, labels)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Scale) Name() string { return s.name }

// Len returns the number of grades in the scale.
func (s *Scale) Len() int { return len(s.labels) }

// Labels returns a copy of the hardest-first grade list.
func (s *Scale) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Rank returns the position of grade in the scale; 0 is the hardest.
func (s *Scale) Rank(grade string) (int, error) {
	i, ok := s.index[grade]
	if !ok {
		return 0, &climb.UnknownGradeError{Grade: grade, Scale: s.name}
	}
	return i, nil
}

// Contains reports whether grade is part of the scale.
func (s *Scale) Contains(grade string) bool {
	_, ok := s.index[grade]
	return ok
}

// Hardest returns the hardest grade among the entries of discipline d.
// ok is false when no entry matches. Any matching entry whose grade is not
// in the scale fails the whole computation.
func Hardest(entries []climb.Entry, d climb.Discipline, s *Scale) (grade string, ok bool, err error) {
	best := -1
	for _, e := range entries {
		if e.Discipline != d {
			continue
		}
		r, err := s.Rank(e.Grade)
		if err != nil {
			return "", false, err
		}
		if best < 0 || r < best {
			best = r
		}
	}
	if best < 0 {
		return "", false, nil
	}
	return s.labels[best], true, nil
}
