// Package logsession is the screen for recording a climbing session.
package logsession

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/router"
	"github.com/hanley0809-ux/climbing-points-app/internal/screen"
	"github.com/hanley0809-ux/climbing-points-app/internal/screens/saved"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/components"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
)

// defaultVenueOption stands for "no specific area" in the venue picker.
const defaultVenueOption = "Anywhere else"

// saveTimeout bounds a save including the notification.
const saveTimeout = 15 * time.Second

type setupStep int

const (
	stepClimber setupStep = iota
	stepDiscipline
	stepVenue
)

type focus int

const (
	focusGrades focus = iota
	focusList
)

// Screen drives a recorder.Recorder. Every change goes through recorder
// operations; the screen only keeps cursor and form state.
type Screen struct {
	rec    *recorder.Recorder
	scales *grades.Registry

	// setup
	step        setupStep
	climberIn   components.TextInput
	disciplines components.Picker
	venues      components.Picker

	// logging
	discipline climb.Discipline
	grades     components.Picker
	focus      focus
	listCursor int

	// confirmation
	labelIn   components.TextInput
	button    int // 0 save, 1 cancel
	modalErr  string
	statusMsg string
	errMsg    string

	// saving is set while a ConfirmSave command is running; savingNote
	// keeps what the modal showed since the recorder resets on success.
	saving     bool
	savingNote string
}

// saveDoneMsg reports the result of a ConfirmSave command.
type saveDoneMsg struct {
	saved *recorder.SavedSession
	err   error
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the screen. climber pre-fills the name field.
func New(rec *recorder.Recorder, scales *grades.Registry, climber string) *Screen {
	s := &Screen{
		rec:       rec,
		scales:    scales,
		climberIn: components.NewTextInput("Climber", "Your name", 40),
		labelIn:   components.NewTextInput("Session name (optional)", "e.g. Tuesday board night", 60),
	}
	s.climberIn.SetValue(climber)

	var names []string
	for _, d := range scales.Disciplines() {
		names = append(names, string(d))
	}
	s.disciplines = components.NewPicker(names, 1)

	if rec.State() != recorder.NoActiveSession {
		s.discipline = rec.Discipline()
		if s.discipline == "" && len(names) > 0 {
			s.discipline = climb.Discipline(names[0])
		}
		s.loadGrades()
	}
	return s
}

// phase is the recorder state as the screen presents it. A running save
// keeps the confirmation modal up until its result arrives.
func (s *Screen) phase() recorder.State {
	if s.saving {
		return recorder.AwaitingSaveConfirmation
	}
	return s.rec.State()
}

func (s *Screen) Init() tea.Cmd {
	if s.rec.State() == recorder.NoActiveSession {
		return s.climberIn.Init()
	}
	if s.rec.State() == recorder.AwaitingSaveConfirmation {
		return s.labelIn.Init()
	}
	return nil
}

func (s *Screen) Title() string {
	switch s.phase() {
	case recorder.NoActiveSession:
		return "New Session"
	case recorder.AwaitingSaveConfirmation:
		return "Save Session"
	}
	return "Logging"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.saving {
		return nil
	}
	switch s.rec.State() {
	case recorder.NoActiveSession:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	case recorder.AwaitingSaveConfirmation:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Tab", Description: "Save/Cancel"},
			{Key: "Esc", Description: "Keep logging"},
		}
	}
	if s.focus == focusList {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "X", Description: "Remove"},
			{Key: "Tab", Description: "Grades"},
			{Key: "F", Description: "Finish"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→↑↓", Description: "Grade"},
		{Key: "Enter", Description: "Log climb"},
		{Key: "D", Description: "Discipline"},
		{Key: "Tab", Description: "Climbs"},
		{Key: "F", Description: "Finish"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if done, ok := msg.(saveDoneMsg); ok {
		return s.saveDone(done)
	}
	if s.saving {
		return s, nil
	}
	switch s.rec.State() {
	case recorder.NoActiveSession:
		return s.updateSetup(msg)
	case recorder.AwaitingSaveConfirmation:
		return s.updateConfirm(msg)
	}
	return s.updateLogging(msg)
}

func (s *Screen) updateSetup(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch kmsg.String() {
		case "esc":
			if s.step == stepClimber {
				return s, popCmd
			}
			s.step--
			s.errMsg = ""
			return s, nil
		case "enter":
			return s.advanceSetup()
		}
	}

	var cmd tea.Cmd
	switch s.step {
	case stepClimber:
		s.climberIn, cmd = s.climberIn.Update(msg)
	case stepDiscipline:
		s.disciplines, cmd = s.disciplines.Update(msg)
	case stepVenue:
		s.venues, cmd = s.venues.Update(msg)
	}
	return s, cmd
}

func (s *Screen) advanceSetup() (screen.Screen, tea.Cmd) {
	s.errMsg = ""
	switch s.step {
	case stepClimber:
		if strings.TrimSpace(s.climberIn.Value()) == "" {
			s.climberIn.SetError("Enter a climber name")
			return s, nil
		}
		s.step = stepDiscipline
		return s, nil

	case stepDiscipline:
		d := climb.Discipline(s.disciplines.Value())
		venues := s.scales.Venues(d)
		if len(venues) == 0 {
			return s.start(d, "")
		}
		if !s.scales.RequiresVenue(d) {
			venues = append(venues, defaultVenueOption)
		}
		s.venues = components.NewPicker(venues, 1)
		s.step = stepVenue
		return s, nil
	}

	venue := s.venues.Value()
	if venue == defaultVenueOption {
		venue = ""
	}
	return s.start(climb.Discipline(s.disciplines.Value()), venue)
}

func (s *Screen) start(d climb.Discipline, venue string) (screen.Screen, tea.Cmd) {
	if err := s.rec.Start(context.Background(), s.climberIn.Value(), d, venue); err != nil {
		s.errMsg = errorText(err)
		return s, nil
	}
	s.discipline = d
	s.focus = focusGrades
	s.loadGrades()
	return s, nil
}

func (s *Screen) updateLogging(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	s.statusMsg = ""

	switch kmsg.String() {
	case "esc":
		return s, popCmd
	case "tab":
		if s.focus == focusGrades && len(s.rec.Climbs()) > 0 {
			s.focus = focusList
			s.listCursor = len(s.rec.Climbs()) - 1
		} else {
			s.focus = focusGrades
		}
		return s, nil
	case "f", "F":
		if !s.rec.RequestFinish() {
			s.errMsg = "Log at least one climb before finishing."
			return s, nil
		}
		s.errMsg = ""
		s.modalErr = ""
		s.button = 0
		s.labelIn.SetValue("")
		return s, s.labelIn.Init()
	}

	if s.focus == focusList {
		return s.updateList(kmsg)
	}

	switch kmsg.String() {
	case "d", "D":
		s.cycleDiscipline()
		return s, nil
	case "enter":
		grade := s.grades.Value()
		e, err := s.rec.AddClimb(context.Background(), s.discipline, grade, time.Time{}, "")
		if err != nil {
			s.errMsg = errorText(err)
			return s, nil
		}
		s.errMsg = ""
		s.statusMsg = "Logged " + string(e.Discipline) + " " + e.Grade
		return s, nil
	}

	var cmd tea.Cmd
	s.grades, cmd = s.grades.Update(msg)
	return s, cmd
}

func (s *Screen) updateList(kmsg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	n := len(s.rec.Climbs())
	switch kmsg.String() {
	case "up", "k":
		if s.listCursor > 0 {
			s.listCursor--
		}
	case "down", "j":
		if s.listCursor < n-1 {
			s.listCursor++
		}
	case "x", "X", "delete", "backspace":
		e, err := s.rec.RemoveClimb(context.Background(), s.listCursor)
		if err != nil {
			s.errMsg = errorText(err)
			return s, nil
		}
		s.statusMsg = "Removed " + string(e.Discipline) + " " + e.Grade
		if n-1 == 0 {
			s.focus = focusGrades
		}
		s.listCursor = min(s.listCursor, max(n-2, 0))
	}
	return s, nil
}

func (s *Screen) updateConfirm(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s.cancelSave()
		case "tab", "shift+tab":
			s.button = 1 - s.button
			return s, nil
		case "enter":
			if s.button == 1 {
				return s.cancelSave()
			}
			return s.confirmSave()
		}
	}

	var cmd tea.Cmd
	s.labelIn, cmd = s.labelIn.Update(msg)
	return s, cmd
}

// confirmSave runs the save as a command so a slow store or notifier
// never blocks the event loop.
func (s *Screen) confirmSave() (screen.Screen, tea.Cmd) {
	s.saving = true
	s.modalErr = ""
	s.savingNote = fmt.Sprintf("%s, %d climbs", s.rec.Climber(), len(s.rec.Climbs()))
	rec, label := s.rec, s.labelIn.Value()
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if _, err := rec.ConfirmSave(ctx, label); err != nil {
			return saveDoneMsg{err: err}
		}
		return saveDoneMsg{saved: rec.LastSaved()}
	}
}

func (s *Screen) saveDone(msg saveDoneMsg) (screen.Screen, tea.Cmd) {
	s.saving = false
	if msg.err != nil {
		// The session stays in AwaitingSaveConfirmation so Enter retries.
		s.modalErr = errorText(msg.err)
		return s, nil
	}
	if msg.saved == nil {
		return s, popCmd
	}
	last := *msg.saved
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: saved.New(last)}
	}
}

func (s *Screen) cancelSave() (screen.Screen, tea.Cmd) {
	if err := s.rec.CancelSave(); err != nil {
		s.modalErr = errorText(err)
		return s, nil
	}
	s.modalErr = ""
	return s, nil
}

// cycleDiscipline switches the discipline used for the next climbs.
func (s *Screen) cycleDiscipline() {
	ds := s.scales.Disciplines()
	if len(ds) < 2 {
		return
	}
	for i, d := range ds {
		if d == s.discipline {
			next := ds[(i+1)%len(ds)]
			if _, err := s.scales.Resolve(next, s.rec.Area()); err != nil {
				s.errMsg = errorText(err)
				return
			}
			s.discipline = next
			s.errMsg = ""
			s.loadGrades()
			return
		}
	}
}

func (s *Screen) loadGrades() {
	scale, err := s.scales.Resolve(s.discipline, s.rec.Area())
	if err != nil {
		s.errMsg = errorText(err)
		s.grades = components.NewPicker(nil, 1)
		return
	}
	labels := scale.Labels()
	// Easiest first reads more naturally when logging a session.
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	s.grades = components.NewPicker(labels, 6)
}

func popCmd() tea.Msg { return router.PopScreenMsg{} }

// errorText turns recorder errors into one-line messages.
func errorText(err error) string {
	var ve *climb.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Reason != "":
			return ve.Reason
		case ve.Err != nil:
			return ve.Err.Error()
		}
		return ve.Error()
	}
	return err.Error()
}
