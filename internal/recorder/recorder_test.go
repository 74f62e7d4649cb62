package recorder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
	"github.com/hanley0809-ux/climbing-points-app/internal/store"
)

// MockStore is a testify mock of the climb table.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) AppendRows(ctx context.Context, rows []climb.Row) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

type memMirror struct {
	data   map[string][]byte
	setErr error
}

func newMemMirror() *memMirror {
	return &memMirror{data: make(map[string][]byte)}
}

func (m *memMirror) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memMirror) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memMirror) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type memEvents struct {
	events []store.SessionEventData
}

func (m *memEvents) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	m.events = append(m.events, data)
	return nil
}

func (m *memEvents) actions() []string {
	var out []string
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

type memNotifier struct {
	saved []SavedSession
}

func (m *memNotifier) SessionSaved(_ context.Context, s SavedSession) error {
	m.saved = append(m.saved, s)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var clockTime = time.Date(2024, time.April, 2, 20, 0, 0, 0, time.UTC)

const firstID = "2024-04-02 20:00:00"

type fixture struct {
	rec    *Recorder
	store  *MockStore
	mirror *memMirror
	events *memEvents
	notify *memNotifier
}

func newFixture(t *testing.T, reg *grades.Registry) *fixture {
	t.Helper()
	if reg == nil {
		reg = grades.Defaults()
	}
	f := &fixture{
		store:  &MockStore{},
		mirror: newMemMirror(),
		events: &memEvents{},
		notify: &memNotifier{},
	}
	f.rec = New(f.store, f.mirror, reg,
		WithClock(fixedClock{clockTime}),
		WithEventLog(f.events),
		WithNotifier(f.notify),
		WithWarnings(io.Discard),
	)
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.rec.Start(context.Background(), "Alex", climb.Bouldering, ""))
}

func (f *fixture) add(t *testing.T, grade string) {
	t.Helper()
	_, err := f.rec.AddClimb(context.Background(), "", grade, time.Time{}, "")
	require.NoError(t, err)
}

func TestStartRequiresClimber(t *testing.T) {
	f := newFixture(t, nil)

	err := f.rec.Start(context.Background(), "   ", climb.Bouldering, "")
	var ve *climb.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, "climber", ve.Field)
	assert.Equal(t, NoActiveSession, f.rec.State())
}

func TestStartTwiceFails(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)

	err := f.rec.Start(context.Background(), "Sam", climb.Bouldering, "")
	assert.ErrorIs(t, err, ErrSessionActive)
	assert.Equal(t, "Alex", f.rec.Climber())
}

func TestStartNeedsVenueWithoutDefault(t *testing.T) {
	reg := grades.Defaults()
	reg.SetVenue(climb.Bouldering, "Barn", grades.MustScale("barn", []string{"Black", "Red", "Blue"}))
	f := newFixture(t, reg)

	err := f.rec.Start(context.Background(), "Alex", climb.Bouldering, "")
	var ve *climb.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "area", ve.Field)
	assert.ErrorIs(t, err, grades.ErrNoScale)

	require.NoError(t, f.rec.Start(context.Background(), "Alex", climb.Bouldering, "Barn"))
	e, err := f.rec.AddClimb(context.Background(), "", "Red", time.Time{}, "")
	require.NoError(t, err)
	assert.Equal(t, "Barn", e.Area)
}

func TestAddClimbOutsideSession(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.rec.AddClimb(context.Background(), climb.Bouldering, "V3", time.Time{}, "")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestAddClimbDefaults(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)

	e, err := f.rec.AddClimb(context.Background(), "", "V3", time.Time{}, "")
	require.NoError(t, err)
	assert.Equal(t, climb.Bouldering, e.Discipline)
	assert.Equal(t, clockTime, e.Timestamp)

	at := clockTime.Add(-time.Hour)
	e, err = f.rec.AddClimb(context.Background(), climb.SportClimbing, "6b+", at, "")
	require.NoError(t, err)
	assert.Equal(t, climb.SportClimbing, e.Discipline)
	assert.Equal(t, at, e.Timestamp)
	assert.Len(t, f.rec.Climbs(), 2)
}

func TestAddClimbUnknownGrade(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V2")

	_, err := f.rec.AddClimb(context.Background(), "", "V42", time.Time{}, "")
	var ug *climb.UnknownGradeError
	require.True(t, errors.As(err, &ug), "expected UnknownGradeError, got %v", err)
	assert.Equal(t, "V42", ug.Grade)
	assert.Len(t, f.rec.Climbs(), 1)
}

func TestAddClimbMirrorsDraft(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V4")

	data, ok := f.mirror.data[DraftKey]
	require.True(t, ok)
	d, err := decodeDraft(data)
	require.NoError(t, err)
	assert.Equal(t, "Alex", d.Climber)
	require.Len(t, d.Climbs, 1)
	assert.Equal(t, "V4", d.Climbs[0].Grade)
}

func TestMirrorFailureIsBestEffort(t *testing.T) {
	f := newFixture(t, nil)
	var warnings bytes.Buffer
	f.rec.warnings = &warnings
	f.mirror.setErr = errors.New("disk full")

	f.start(t)
	f.add(t, "V1")

	assert.Len(t, f.rec.Climbs(), 1)
	assert.Contains(t, warnings.String(), "warning: save session draft: disk full")
}

// Removing index 5 from a three-climb list fails and changes nothing.
func TestRemoveClimbOutOfRange(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	for _, g := range []string{"V1", "V2", "V3"} {
		f.add(t, g)
	}
	before := f.rec.Climbs()

	_, err := f.rec.RemoveClimb(context.Background(), 5)
	var ie *climb.IndexError
	require.True(t, errors.As(err, &ie), "expected IndexError, got %v", err)
	assert.Equal(t, 5, ie.Index)
	assert.Equal(t, 3, ie.Len)
	assert.Equal(t, before, f.rec.Climbs())

	_, err = f.rec.RemoveClimb(context.Background(), -1)
	assert.True(t, errors.As(err, &ie))
}

func TestRemoveClimb(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	for _, g := range []string{"V1", "V2", "V3"} {
		f.add(t, g)
	}
	snapshot := f.rec.Climbs()

	removed, err := f.rec.RemoveClimb(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "V2", removed.Grade)

	got := f.rec.Climbs()
	require.Len(t, got, 2)
	assert.Equal(t, "V1", got[0].Grade)
	assert.Equal(t, "V3", got[1].Grade)
	assert.Equal(t, "V2", snapshot[1].Grade, "earlier copies are not aliased")
}

func TestRequestFinishEmptyIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)

	assert.False(t, f.rec.RequestFinish())
	assert.Equal(t, SessionInProgress, f.rec.State())
}

func TestCancelSave(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V1")

	require.True(t, f.rec.RequestFinish())
	assert.Equal(t, AwaitingSaveConfirmation, f.rec.State())

	_, err := f.rec.AddClimb(context.Background(), "", "V2", time.Time{}, "")
	assert.ErrorIs(t, err, ErrNotInProgress)

	require.NoError(t, f.rec.CancelSave())
	assert.Equal(t, SessionInProgress, f.rec.State())
	assert.Len(t, f.rec.Climbs(), 1)

	assert.ErrorIs(t, f.rec.CancelSave(), ErrNotConfirming)
	f.store.AssertNotCalled(t, "AppendRows", mock.Anything, mock.Anything)
}

// Finishing a session with V3 and V5 persists two rows under one id.
func TestFinishSessionPersistsRows(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V3")
	f.add(t, "V5")

	f.store.On("SessionExists", mock.Anything, firstID).Return(false, nil)
	f.store.On("AppendRows", mock.Anything, mock.MatchedBy(func(rows []climb.Row) bool {
		if len(rows) != 2 {
			return false
		}
		for _, r := range rows {
			if r.SessionID != firstID || r.Name != "Alex" || r.Session != "Evening" {
				return false
			}
		}
		return rows[0].Grade == "V3" && rows[1].Grade == "V5"
	})).Return(nil)

	id, err := f.rec.FinishSession(context.Background(), " Evening ")
	require.NoError(t, err)
	assert.Equal(t, firstID, id)
	assert.Empty(t, f.rec.Climbs())
	assert.Equal(t, NoActiveSession, f.rec.State())
	assert.NotContains(t, f.mirror.data, DraftKey)
	f.store.AssertExpectations(t)

	assert.Equal(t, []string{"start", "finish"}, f.events.actions())
	assert.Equal(t, 2, f.events.events[1].Climbs)

	require.Len(t, f.notify.saved, 1)
	saved := f.notify.saved[0]
	assert.Equal(t, "Evening", saved.Label)
	assert.Equal(t, 2, saved.Summary.Count)
	grade, ok := saved.Summary.HardestFor(climb.Bouldering)
	assert.True(t, ok)
	assert.Equal(t, "V5", grade)
	assert.Equal(t, &saved, f.rec.LastSaved())

	// A new session may start right away.
	require.NoError(t, f.rec.Start(context.Background(), "Alex", climb.Bouldering, ""))
}

func TestFinishSessionEmpty(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.rec.FinishSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	f.start(t)
	_, err = f.rec.FinishSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrNothingToSave)
	assert.Equal(t, SessionInProgress, f.rec.State())
}

func TestConfirmSaveFailureKeepsSession(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V3")
	f.add(t, "V5")
	require.True(t, f.rec.RequestFinish())

	f.store.On("SessionExists", mock.Anything, firstID).Return(false, nil)
	f.store.On("AppendRows", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
	f.store.On("AppendRows", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.rec.ConfirmSave(context.Background(), "")
	var pe *climb.PersistenceError
	require.True(t, errors.As(err, &pe), "expected PersistenceError, got %v", err)
	assert.Equal(t, AwaitingSaveConfirmation, f.rec.State())
	assert.Len(t, f.rec.Climbs(), 2)
	assert.Contains(t, f.mirror.data, DraftKey)
	assert.Empty(t, f.notify.saved)

	id, err := f.rec.ConfirmSave(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, firstID, id)
	assert.Equal(t, NoActiveSession, f.rec.State())
	f.store.AssertNumberOfCalls(t, "AppendRows", 2)
}

func TestChangesRefusedWhileSaving(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V3")
	require.True(t, f.rec.RequestFinish())

	entered := make(chan struct{})
	release := make(chan struct{})
	f.store.On("SessionExists", mock.Anything, firstID).Return(false, nil)
	f.store.On("AppendRows", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.rec.ConfirmSave(context.Background(), "board")
		done <- err
	}()
	<-entered

	// Reads do not wait for the store write.
	assert.True(t, f.rec.Saving())
	assert.Equal(t, AwaitingSaveConfirmation, f.rec.State())
	assert.Len(t, f.rec.Climbs(), 1)

	assert.ErrorIs(t, f.rec.CancelSave(), ErrSaveInFlight)
	assert.ErrorIs(t, f.rec.Discard(context.Background()), ErrSaveInFlight)
	_, err := f.rec.ConfirmSave(context.Background(), "")
	assert.ErrorIs(t, err, ErrSaveInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.rec.Saving())
	assert.Equal(t, NoActiveSession, f.rec.State())
	f.store.AssertNumberOfCalls(t, "AppendRows", 1)
}

type blockingNotifier struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingNotifier) SessionSaved(ctx context.Context, _ SavedSession) error {
	close(b.entered)
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSlowNotifierDoesNotHoldRecorder(t *testing.T) {
	n := &blockingNotifier{entered: make(chan struct{}), release: make(chan struct{})}
	st := &MockStore{}
	rec := New(st, newMemMirror(), grades.Defaults(),
		WithClock(fixedClock{clockTime}), WithNotifier(n), WithWarnings(io.Discard))
	require.NoError(t, rec.Start(context.Background(), "Alex", climb.Bouldering, ""))
	_, err := rec.AddClimb(context.Background(), "", "V2", time.Time{}, "")
	require.NoError(t, err)

	st.On("SessionExists", mock.Anything, firstID).Return(false, nil)
	st.On("AppendRows", mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := rec.FinishSession(context.Background(), "")
		done <- err
	}()
	<-n.entered

	// The rows are saved before the notifier runs.
	assert.Equal(t, NoActiveSession, rec.State())
	require.NotNil(t, rec.LastSaved())
	assert.Equal(t, firstID, rec.LastSaved().ID)

	close(n.release)
	require.NoError(t, <-done)
}

func TestSessionIDCollisionBumps(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V0")

	f.store.On("SessionExists", mock.Anything, "2024-04-02 20:00:00").Return(true, nil)
	f.store.On("SessionExists", mock.Anything, "2024-04-02 20:00:01").Return(true, nil)
	f.store.On("SessionExists", mock.Anything, "2024-04-02 20:00:02").Return(false, nil)
	f.store.On("AppendRows", mock.Anything, mock.Anything).Return(nil)

	id, err := f.rec.FinishSession(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-02 20:00:02", id)
}

func TestSessionIDLookupFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V0")

	f.store.On("SessionExists", mock.Anything, mock.Anything).Return(false, errors.New("timeout"))

	_, err := f.rec.FinishSession(context.Background(), "")
	var pe *climb.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, AwaitingSaveConfirmation, f.rec.State())
	f.store.AssertNotCalled(t, "AppendRows", mock.Anything, mock.Anything)
}

func TestDiscard(t *testing.T) {
	f := newFixture(t, nil)
	assert.ErrorIs(t, f.rec.Discard(context.Background()), ErrNoActiveSession)

	f.start(t)
	f.add(t, "V2")
	require.NoError(t, f.rec.Discard(context.Background()))

	assert.Equal(t, NoActiveSession, f.rec.State())
	assert.Empty(t, f.rec.Climbs())
	assert.NotContains(t, f.mirror.data, DraftKey)
	assert.Equal(t, []string{"start", "discard"}, f.events.actions())
}

func TestRestoreFromMirror(t *testing.T) {
	f := newFixture(t, nil)
	f.start(t)
	f.add(t, "V6")
	f.add(t, "V2")

	// A fresh recorder over the same mirror picks the session back up.
	restored := New(f.store, f.mirror, grades.Defaults(), WithWarnings(io.Discard))
	ok, err := restored.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, SessionInProgress, restored.State())
	assert.Equal(t, "Alex", restored.Climber())
	assert.Equal(t, climb.Bouldering, restored.Discipline())
	assert.Equal(t, f.rec.Climbs(), restored.Climbs())

	sum, err := restored.Summary()
	require.NoError(t, err)
	grade, _ := sum.HardestFor(climb.Bouldering)
	assert.Equal(t, "V6", grade)
}

func TestRestoreNothing(t *testing.T) {
	f := newFixture(t, nil)

	ok, err := f.rec.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, NoActiveSession, f.rec.State())
}

func TestRestoreRejectsUnknownKeys(t *testing.T) {
	f := newFixture(t, nil)
	f.mirror.data[DraftKey] = []byte(`{"climber":"Alex","climbs":[{"discipline":"Bouldering","grade":"V1","timestamp":"2024-04-02T18:00:00Z","colour":"red"}]}`)

	_, err := f.rec.Restore(context.Background())
	var ve *climb.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, NoActiveSession, f.rec.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "no active session", NoActiveSession.String())
	assert.Equal(t, "in progress", SessionInProgress.String())
	assert.Equal(t, "awaiting save confirmation", AwaitingSaveConfirmation.String())
}
