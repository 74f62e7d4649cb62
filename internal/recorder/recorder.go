// Package recorder owns the in-progress climbing session and turns it into
// persisted climb rows.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
	"github.com/hanley0809-ux/climbing-points-app/internal/store"
)

// maxIDAttempts bounds the one-second bumps when a session id is taken.
const maxIDAttempts = 60

// Store is the append-only climb table.
type Store interface {
	AppendRows(ctx context.Context, rows []climb.Row) error
	SessionExists(ctx context.Context, sessionID string) (bool, error)
}

// Mirror keeps the in-progress session across restarts.
type Mirror interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// EventLog records session lifecycle events.
type EventLog interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Notifier is told about every saved session.
type Notifier interface {
	SessionSaved(ctx context.Context, s SavedSession) error
}

// Scales resolves the grade scale for a discipline and venue.
type Scales interface {
	Resolve(d climb.Discipline, venue string) (*grades.Scale, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SavedSession describes a session that was just persisted.
type SavedSession struct {
	ID      string
	Label   string
	Climber string
	Climbs  []climb.Entry
	Summary stats.Summary
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithEventLog records start, finish and discard events.
func WithEventLog(l EventLog) Option {
	return func(r *Recorder) { r.events = l }
}

// WithNotifier announces saved sessions.
func WithNotifier(n Notifier) Option {
	return func(r *Recorder) { r.notifier = n }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithWarnings redirects best-effort failure warnings (default os.Stderr).
func WithWarnings(w io.Writer) Option {
	return func(r *Recorder) { r.warnings = w }
}

// Recorder is the session state machine. Accessors may be called while a
// ConfirmSave runs on another goroutine; the save's store writes and
// notification happen outside the lock, and other changes are refused
// until it returns.
type Recorder struct {
	store    Store
	mirror   Mirror
	scales   Scales
	events   EventLog
	notifier Notifier
	clock    Clock
	warnings io.Writer

	mu         sync.Mutex
	saving     bool
	state      State
	climber    string
	discipline climb.Discipline
	area       string
	started    time.Time
	climbs     []climb.Entry
	lastSaved  *SavedSession
}

// New creates a recorder in NoActiveSession. mirror may be nil.
func New(s Store, mirror Mirror, scales Scales, opts ...Option) *Recorder {
	r := &Recorder{
		store:    s,
		mirror:   mirror,
		scales:   scales,
		clock:    systemClock{},
		warnings: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle phase.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Saving reports whether a ConfirmSave is in flight.
func (r *Recorder) Saving() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saving
}

// Climber returns the active climber's name.
func (r *Recorder) Climber() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.climber
}

// Discipline returns the session's default discipline, if any.
func (r *Recorder) Discipline() climb.Discipline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.discipline
}

// Area returns the session's default gym or area.
func (r *Recorder) Area() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.area
}

// Started returns when the session was started.
func (r *Recorder) Started() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Climbs returns a copy of the in-progress list.
func (r *Recorder) Climbs() []climb.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyClimbs()
}

func (r *Recorder) copyClimbs() []climb.Entry {
	out := make([]climb.Entry, len(r.climbs))
	copy(out, r.climbs)
	return out
}

// LastSaved returns the most recently saved session, or nil.
func (r *Recorder) LastSaved() *SavedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSaved
}

// Start begins a session for climber. A discipline whose scales are per
// venue needs an area unless a default venue scale exists.
func (r *Recorder) Start(ctx context.Context, climber string, d climb.Discipline, area string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != NoActiveSession {
		return &climb.ValidationError{Field: "session", Err: ErrSessionActive}
	}
	climber = strings.TrimSpace(climber)
	if climber == "" {
		return &climb.ValidationError{Field: "climber", Reason: "name is required"}
	}
	area = strings.TrimSpace(area)
	if d != "" {
		if _, err := r.scales.Resolve(d, area); err != nil {
			return err
		}
	}

	r.state = SessionInProgress
	r.climber = climber
	r.discipline = d
	r.area = area
	r.started = r.clock.Now()
	r.climbs = nil

	r.sync(ctx)
	r.logEvent(ctx, "start", "", "")
	return nil
}

// AddClimb appends a climb. Empty discipline and area fall back to the
// session context; a zero timestamp means now. Unknown grades are rejected.
func (r *Recorder) AddClimb(ctx context.Context, d climb.Discipline, grade string, ts time.Time, area string) (climb.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireInProgress(); err != nil {
		return climb.Entry{}, err
	}
	if d == "" {
		d = r.discipline
	}
	if d == "" {
		return climb.Entry{}, &climb.ValidationError{Field: "discipline", Reason: "discipline is required"}
	}
	area = strings.TrimSpace(area)
	if area == "" {
		area = r.area
	}
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return climb.Entry{}, &climb.ValidationError{Field: "grade", Reason: "grade is required"}
	}

	scale, err := r.scales.Resolve(d, area)
	if err != nil {
		return climb.Entry{}, err
	}
	if _, err := scale.Rank(grade); err != nil {
		return climb.Entry{}, err
	}
	if ts.IsZero() {
		ts = r.clock.Now()
	}

	e := climb.Entry{Discipline: d, Grade: grade, Timestamp: ts, Area: area}
	r.climbs = append(r.climbs, e)
	r.sync(ctx)
	return e, nil
}

// RemoveClimb deletes the climb at index. The list is unchanged when
// index is out of range.
func (r *Recorder) RemoveClimb(ctx context.Context, index int) (climb.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireInProgress(); err != nil {
		return climb.Entry{}, err
	}
	if index < 0 || index >= len(r.climbs) {
		return climb.Entry{}, &climb.IndexError{Index: index, Len: len(r.climbs)}
	}

	removed := r.climbs[index]
	r.climbs = append(r.climbs[:index:index], r.climbs[index+1:]...)
	r.sync(ctx)
	return removed, nil
}

// RequestFinish moves to AwaitingSaveConfirmation. It reports false and
// changes nothing when there is nothing to save.
func (r *Recorder) RequestFinish() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != SessionInProgress || len(r.climbs) == 0 {
		return false
	}
	r.state = AwaitingSaveConfirmation
	return true
}

// CancelSave returns to SessionInProgress without persisting.
func (r *Recorder) CancelSave() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != AwaitingSaveConfirmation {
		return &climb.ValidationError{Field: "session", Err: ErrNotConfirming}
	}
	if r.saving {
		return &climb.ValidationError{Field: "session", Err: ErrSaveInFlight}
	}
	r.state = SessionInProgress
	return nil
}

// ConfirmSave persists every climb under a fresh session id. On failure
// the climbs, the mirror and the confirmation state are all kept so the
// save can be retried.
func (r *Recorder) ConfirmSave(ctx context.Context, label string) (string, error) {
	r.mu.Lock()
	if r.state != AwaitingSaveConfirmation {
		r.mu.Unlock()
		return "", &climb.ValidationError{Field: "session", Err: ErrNotConfirming}
	}
	if r.saving {
		r.mu.Unlock()
		return "", &climb.ValidationError{Field: "session", Err: ErrSaveInFlight}
	}
	r.saving = true
	saved := SavedSession{Label: strings.TrimSpace(label), Climber: r.climber, Climbs: r.copyClimbs()}
	r.mu.Unlock()

	err := r.persist(ctx, &saved)

	r.mu.Lock()
	r.saving = false
	if err != nil {
		r.mu.Unlock()
		return "", err
	}
	r.logEvent(ctx, "finish", saved.ID, saved.Label)
	r.reset(ctx)
	r.lastSaved = &saved
	r.mu.Unlock()

	if r.notifier != nil {
		if err := r.notifier.SessionSaved(ctx, saved); err != nil {
			r.warn("notify: %v", err)
		}
	}
	return saved.ID, nil
}

// persist allocates a session id and appends s's climbs under it. It only
// touches fields that never change after New.
func (r *Recorder) persist(ctx context.Context, s *SavedSession) error {
	id, err := r.newSessionID(ctx)
	if err != nil {
		return err
	}

	rows := make([]climb.Row, 0, len(s.Climbs))
	for _, e := range s.Climbs {
		rows = append(rows, climb.NewRow(e, id, s.Climber, s.Label))
	}
	if err := r.store.AppendRows(ctx, rows); err != nil {
		return &climb.PersistenceError{Op: "save session", Err: err}
	}

	s.ID = id
	if sum, err := stats.Summarize(s.Climbs, r.scales); err == nil {
		s.Summary = sum
	} else {
		s.Summary = stats.Summary{Count: len(s.Climbs)}
		r.warn("summarize session %s: %v", id, err)
	}
	return nil
}

// FinishSession requests a finish and confirms it in one step.
func (r *Recorder) FinishSession(ctx context.Context, label string) (string, error) {
	switch r.State() {
	case NoActiveSession:
		return "", &climb.ValidationError{Field: "session", Err: ErrNoActiveSession}
	case SessionInProgress:
		if !r.RequestFinish() {
			return "", &climb.ValidationError{Field: "climbs", Err: ErrNothingToSave}
		}
	}
	return r.ConfirmSave(ctx, label)
}

// Discard abandons the active session without persisting it.
func (r *Recorder) Discard(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == NoActiveSession {
		return &climb.ValidationError{Field: "session", Err: ErrNoActiveSession}
	}
	if r.saving {
		return &climb.ValidationError{Field: "session", Err: ErrSaveInFlight}
	}
	r.logEvent(ctx, "discard", "", "")
	r.reset(ctx)
	return nil
}

// Restore rebuilds an in-progress session from the mirror. It reports
// false when there is nothing to restore.
func (r *Recorder) Restore(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != NoActiveSession {
		return false, &climb.ValidationError{Field: "session", Err: ErrSessionActive}
	}
	if r.mirror == nil {
		return false, nil
	}

	data, ok, err := r.mirror.Get(ctx, DraftKey)
	if err != nil {
		return false, &climb.PersistenceError{Op: "restore session", Err: err}
	}
	if !ok {
		return false, nil
	}
	d, err := decodeDraft(data)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(d.Climber) == "" {
		return false, &climb.ValidationError{Field: "draft", Reason: "draft has no climber"}
	}

	r.state = SessionInProgress
	r.climber = d.Climber
	r.discipline = d.Discipline
	r.area = d.Area
	r.started = d.Started
	r.climbs = d.Climbs
	return true, nil
}

// Summary counts the in-progress climbs and ranks them per scale.
func (r *Recorder) Summary() (stats.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return stats.Summarize(r.climbs, r.scales)
}

func (r *Recorder) requireInProgress() error {
	switch r.state {
	case NoActiveSession:
		return &climb.ValidationError{Field: "session", Err: ErrNoActiveSession}
	case AwaitingSaveConfirmation:
		return &climb.ValidationError{Field: "session", Err: ErrNotInProgress}
	}
	return nil
}

// newSessionID derives the id from the clock, bumping by a second while
// the id is already taken.
func (r *Recorder) newSessionID(ctx context.Context) (string, error) {
	now := r.clock.Now()
	for i := 0; i < maxIDAttempts; i++ {
		id := climb.FormatTimestamp(now.Add(time.Duration(i) * time.Second))
		exists, err := r.store.SessionExists(ctx, id)
		if err != nil {
			return "", &climb.PersistenceError{Op: "check session id", Err: err}
		}
		if !exists {
			return id, nil
		}
	}
	return "", &climb.PersistenceError{
		Op:  "allocate session id",
		Err: errors.New("every candidate id is taken"),
	}
}

func (r *Recorder) reset(ctx context.Context) {
	r.state = NoActiveSession
	r.climber = ""
	r.discipline = ""
	r.area = ""
	r.started = time.Time{}
	r.climbs = nil
	if r.mirror != nil {
		if err := r.mirror.Delete(ctx, DraftKey); err != nil {
			r.warn("clear session draft: %v", err)
		}
	}
}

// sync mirrors the in-progress session.
func (r *Recorder) sync(ctx context.Context) {
	if r.mirror == nil {
		return
	}
	data, err := encodeDraft(Draft{
		Climber:    r.climber,
		Discipline: r.discipline,
		Area:       r.area,
		Started:    r.started,
		Climbs:     r.climbs,
	})
	if err != nil {
		r.warn("encode session draft: %v", err)
		return
	}
	if err := r.mirror.Set(ctx, DraftKey, data); err != nil {
		r.warn("save session draft: %v", err)
	}
}

func (r *Recorder) logEvent(ctx context.Context, action, sessionID, label string) {
	if r.events == nil {
		return
	}
	err := r.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:  sessionID,
		Action:     action,
		Climber:    r.climber,
		Discipline: string(r.discipline),
		Climbs:     len(r.climbs),
		Label:      label,
	})
	if err != nil {
		r.warn("record %s event: %v", action, err)
	}
}

func (r *Recorder) warn(format string, args ...any) {
	fmt.Fprintf(r.warnings, "warning: "+format+"\n", args...)
}
