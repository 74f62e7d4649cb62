package grades

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
)

// DefaultVenue names the venue scale used for areas without their own.
const DefaultVenue = "default"

// ErrNoScale is wrapped by Resolve when no scale applies.
var ErrNoScale = errors.New("no grade scale configured")

// Spec is the configuration form of a discipline's grading: either one
// flat hardest-first list or a set of per-venue lists.
type Spec struct {
	Flat   []string
	Venues map[string][]string
}

// UnmarshalYAML accepts a sequence (flat scale) or a mapping of venue
// name to sequence.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		return value.Decode(&s.Flat)
	case yaml.MappingNode:
		return value.Decode(&s.Venues)
	default:
		return fmt.Errorf("line %d: grade scale must be a list or a venue mapping", value.Line)
	}
}

// MarshalYAML writes the spec back in whichever form it was given.
func (s Spec) MarshalYAML() (any, error) {
	if s.Venues != nil {
		return s.Venues, nil
	}
	return s.Flat, nil
}

// Registry maps disciplines, and optionally venues, to scales.
type Registry struct {
	flat   map[climb.Discipline]*Scale
	venues map[climb.Discipline]map[string]*Scale
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		flat:   make(map[climb.Discipline]*Scale),
		venues: make(map[climb.Discipline]map[string]*Scale),
	}
}

// Set installs a single scale for every venue of d.
func (r *Registry) Set(d climb.Discipline, s *Scale) {
	delete(r.venues, d)
	r.flat[d] = s
}

// SetVenue installs a venue-specific scale for d. Use DefaultVenue for the
// fallback scale.
func (r *Registry) SetVenue(d climb.Discipline, venue string, s *Scale) {
	delete(r.flat, d)
	if r.venues[d] == nil {
		r.venues[d] = make(map[string]*Scale)
	}
	r.venues[d][venue] = s
}

// Resolve returns the scale for d at venue. A discipline with a flat
// scale ignores the venue.
func (r *Registry) Resolve(d climb.Discipline, venue string) (*Scale, error) {
	if s, ok := r.flat[d]; ok {
		return s, nil
	}
	vs, ok := r.venues[d]
	if !ok {
		return nil, &climb.ValidationError{
			Field:  "discipline",
			Reason: fmt.Sprintf("no grade scale for %s", d),
			Err:    ErrNoScale,
		}
	}
	if s, ok := vs[venue]; ok {
		return s, nil
	}
	if s, ok := vs[DefaultVenue]; ok {
		return s, nil
	}
	reason := fmt.Sprintf("no %s grade scale for area %q", d, venue)
	if venue == "" {
		reason = fmt.Sprintf("%s needs an area", d)
	}
	return nil, &climb.ValidationError{Field: "area", Reason: reason, Err: ErrNoScale}
}

// RequiresVenue reports whether d can only be resolved with a known venue.
func (r *Registry) RequiresVenue(d climb.Discipline) bool {
	vs, ok := r.venues[d]
	if !ok {
		return false
	}
	_, hasDefault := vs[DefaultVenue]
	return !hasDefault
}

// Venues returns the sorted venue names configured for d, excluding the
// default entry.
func (r *Registry) Venues(d climb.Discipline) []string {
	var out []string
	for v := range r.venues[d] {
		if v != DefaultVenue {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Disciplines lists the configured disciplines, known ones first.
func (r *Registry) Disciplines() []climb.Discipline {
	seen := make(map[climb.Discipline]bool)
	var out []climb.Discipline
	for _, d := range climb.Disciplines() {
		if r.has(d) {
			out = append(out, d)
			seen[d] = true
		}
	}
	var extra []string
	for d := range r.flat {
		if !seen[d] {
			extra = append(extra, string(d))
		}
	}
	for d := range r.venues {
		if !seen[d] {
			extra = append(extra, string(d))
		}
	}
	sort.Strings(extra)
	for _, d := range extra {
		out = append(out, climb.Discipline(d))
	}
	return out
}

func (r *Registry) has(d climb.Discipline) bool {
	if _, ok := r.flat[d]; ok {
		return true
	}
	_, ok := r.venues[d]
	return ok
}

// Apply builds scales from specs keyed by discipline name and installs
// them, replacing whatever d had before.
func (r *Registry) Apply(specs map[string]Spec) error {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d, err := climb.ParseDiscipline(name)
		if err != nil {
			return err
		}
		spec := specs[name]
		if spec.Venues == nil {
			s, err := NewScale(string(d), spec.Flat)
			if err != nil {
				return err
			}
			r.Set(d, s)
			continue
		}
		if len(spec.Venues) == 0 {
			return &climb.ValidationError{Field: "scale", Reason: fmt.Sprintf("%s has an empty venue mapping", d)}
		}
		delete(r.flat, d)
		delete(r.venues, d)
		for venue, labels := range spec.Venues {
			s, err := NewScale(string(d)+"/"+venue, labels)
			if err != nil {
				return err
			}
			r.SetVenue(d, venue, s)
		}
	}
	return nil
}
