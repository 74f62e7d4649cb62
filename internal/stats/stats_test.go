package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
)

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2024, month, day, hour, 0, 0, 0, time.UTC)
}

func boulder(grade string, ts time.Time) climb.Entry {
	return climb.Entry{Discipline: climb.Bouldering, Grade: grade, Timestamp: ts}
}

func sport(grade string, ts time.Time) climb.Entry {
	return climb.Entry{Discipline: climb.SportClimbing, Grade: grade, Timestamp: ts}
}

func TestClimbsInMonth(t *testing.T) {
	entries := []climb.Entry{
		boulder("V1", at(time.March, 30, 10)),
		boulder("V2", at(time.March, 31, 23)),
		boulder("V3", at(time.April, 1, 0)),
		sport("6a", at(time.April, 15, 12)),
		boulder("V4", at(time.April, 30, 23)),
		boulder("V5", at(time.May, 1, 0)),
	}

	assert.Equal(t, 3, ClimbsInMonth(entries, 2024, time.April, time.UTC))
	assert.Equal(t, 2, ClimbsInMonth(entries, 2024, time.March, time.UTC))
	assert.Equal(t, 0, ClimbsInMonth(entries, 2023, time.April, time.UTC))
	assert.Equal(t, 0, ClimbsInMonth(nil, 2024, time.April, time.UTC))
}

func TestClimbsInMonthUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 23:00 UTC on March 31 is already April 1 in UTC+2.
	entries := []climb.Entry{boulder("V1", at(time.March, 31, 23))}

	assert.Equal(t, 1, ClimbsInMonth(entries, 2024, time.April, loc))
	assert.Equal(t, 0, ClimbsInMonth(entries, 2024, time.March, loc))
}

func TestSummarize(t *testing.T) {
	reg := grades.Defaults()
	entries := []climb.Entry{
		boulder("V3", at(time.April, 2, 10)),
		sport("6b", at(time.April, 2, 11)),
		boulder("V5", at(time.April, 2, 12)),
		sport("7a", at(time.April, 2, 13)),
	}

	sum, err := Summarize(entries, reg)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)
	require.Len(t, sum.Best, 2)
	assert.Equal(t, Best{Discipline: climb.Bouldering, Scale: "Bouldering", Grade: "V5"}, sum.Best[0])
	assert.Equal(t, Best{Discipline: climb.SportClimbing, Scale: "Sport Climbing", Grade: "7a"}, sum.Best[1])

	grade, ok := sum.HardestFor(climb.SportClimbing)
	assert.True(t, ok)
	assert.Equal(t, "7a", grade)
}

func TestSummarizeIdempotent(t *testing.T) {
	reg := grades.Defaults()
	entries := []climb.Entry{
		boulder("V0", at(time.April, 2, 10)),
		boulder("V7", at(time.April, 2, 11)),
	}

	first, err := Summarize(entries, reg)
	require.NoError(t, err)
	second, err := Summarize(entries, reg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummarizeEmpty(t *testing.T) {
	sum, err := Summarize(nil, grades.Defaults())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Count)
	assert.Empty(t, sum.Best)

	_, ok := sum.HardestFor(climb.Bouldering)
	assert.False(t, ok)
}

func TestSummarizeVenueScales(t *testing.T) {
	reg := grades.Defaults()
	reg.SetVenue(climb.Bouldering, "Barn", grades.MustScale("barn", []string{"Black", "Red", "Blue"}))
	reg.SetVenue(climb.Bouldering, "Shed", grades.MustScale("shed", []string{"5", "4", "3"}))

	entries := []climb.Entry{
		{Discipline: climb.Bouldering, Grade: "Blue", Area: "Barn", Timestamp: at(time.April, 1, 10)},
		{Discipline: climb.Bouldering, Grade: "3", Area: "Shed", Timestamp: at(time.April, 1, 11)},
		{Discipline: climb.Bouldering, Grade: "Red", Area: "Barn", Timestamp: at(time.April, 1, 12)},
	}

	sum, err := Summarize(entries, reg)
	require.NoError(t, err)
	require.Len(t, sum.Best, 2)
	assert.Equal(t, "Red", sum.Best[0].Grade)
	assert.Equal(t, "barn", sum.Best[0].Scale)
	assert.Equal(t, "3", sum.Best[1].Grade)
}

// Unknown grades fail ranking in both Hardest and Summarize.
func TestUnknownGradePolicyConsistent(t *testing.T) {
	reg := grades.Defaults()
	entries := []climb.Entry{
		boulder("V3", at(time.April, 2, 10)),
		boulder("V42", at(time.April, 2, 11)),
	}

	scale, err := reg.Resolve(climb.Bouldering, "")
	require.NoError(t, err)

	_, _, err = grades.Hardest(entries, climb.Bouldering, scale)
	var ug *climb.UnknownGradeError
	require.True(t, errors.As(err, &ug), "Hardest: expected UnknownGradeError, got %v", err)
	assert.Equal(t, "V42", ug.Grade)

	_, err = Summarize(entries, reg)
	require.True(t, errors.As(err, &ug), "Summarize: expected UnknownGradeError, got %v", err)
	assert.Equal(t, "V42", ug.Grade)

	// Raw counts never depend on ranking.
	assert.Equal(t, 2, ClimbsInMonth(entries, 2024, time.April, time.UTC))
}

func row(d climb.Discipline, grade, ts, sessionID, name string) climb.Row {
	return climb.Row{Discipline: d, Grade: grade, Timestamp: ts, SessionID: sessionID, Name: name}
}

func TestBuildDashboard(t *testing.T) {
	rows := []climb.Row{
		row(climb.Bouldering, "V4", "2024-03-20 18:00:00", "2024-03-20 20:00:00", "Alex"),
		row(climb.Bouldering, "V2", "2024-04-02 18:00:00", "2024-04-02 20:00:00", "Alex"),
		row(climb.Bouldering, "V3", "2024-04-02 18:30:00", "2024-04-02 20:00:00", "Alex"),
		row(climb.Bouldering, "V1", "2024-04-05 18:30:00", "", "Alex"),
	}
	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

	dash, err := BuildDashboard(rows, grades.Defaults(), now)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.ClimbsThisMonth)
	assert.Equal(t, 4, dash.TotalClimbs)
	assert.Equal(t, 2, dash.TotalSessions)
	assert.Equal(t, "V4", dash.HardestFor(climb.Bouldering))
	assert.Equal(t, NoGrade, dash.HardestFor(climb.SportClimbing))
	require.Len(t, dash.Hardest, 2)
	assert.Equal(t, NoGrade, dash.Hardest[1].Label())
}

func TestBuildDashboardEmpty(t *testing.T) {
	dash, err := BuildDashboard(nil, grades.Defaults(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, dash.ClimbsThisMonth)
	assert.Equal(t, NoGrade, dash.HardestFor(climb.Bouldering))
	assert.Equal(t, NoGrade, dash.HardestFor(climb.SportClimbing))
}

func TestBuildDashboardUnknownGrade(t *testing.T) {
	rows := []climb.Row{row(climb.Bouldering, "purple", "2024-04-02 18:00:00", "2024-04-02 20:00:00", "Alex")}
	_, err := BuildDashboard(rows, grades.Defaults(), time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC))
	var ug *climb.UnknownGradeError
	assert.True(t, errors.As(err, &ug))
}

func TestBuildDashboardPrefersDefaultScale(t *testing.T) {
	reg := grades.NewRegistry()
	reg.SetVenue(climb.Bouldering, grades.DefaultVenue, grades.MustScale("v", grades.VScale))
	reg.SetVenue(climb.Bouldering, "Barn", grades.MustScale("barn", []string{"Black", "Red", "Blue"}))
	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

	barn := row(climb.Bouldering, "Red", "2024-04-01 18:00:00", "2024-04-01 20:00:00", "Alex")
	barn.Area = "Barn"
	gym := row(climb.Bouldering, "V3", "2024-04-02 18:00:00", "2024-04-02 20:00:00", "Alex")

	dash, err := BuildDashboard([]climb.Row{barn, gym}, reg, now)
	require.NoError(t, err)
	require.Len(t, dash.Hardest, 2)
	assert.Equal(t, "v", dash.Hardest[0].Scale)
	assert.Equal(t, "V3", dash.HardestFor(climb.Bouldering))

	// Only venue climbs: the venue's best stands in.
	dash, err = BuildDashboard([]climb.Row{barn}, reg, now)
	require.NoError(t, err)
	assert.Equal(t, "Red", dash.HardestFor(climb.Bouldering))
}

func TestRowsFor(t *testing.T) {
	rows := []climb.Row{
		row(climb.Bouldering, "V2", "2024-04-02 18:00:00", "2024-04-02 20:00:00", "Alex"),
		row(climb.Bouldering, "V9", "2024-04-02 18:10:00", "2024-04-02 20:00:01", "Sam"),
	}

	alex := RowsFor(rows, "Alex")
	require.Len(t, alex, 1)
	assert.Equal(t, "V2", alex[0].Grade)
	assert.Empty(t, RowsFor(rows, "Robin"))
	assert.Len(t, RowsFor(rows, ""), 2)
}

// Another climber's rows on a scale this config does not know must not
// break the dashboard once filtered out.
func TestDashboardIgnoresOtherClimbers(t *testing.T) {
	sam := row(climb.Bouldering, "Black", "2024-04-02 18:10:00", "2024-04-02 20:00:01", "Sam")
	sam.Area = "Barn"
	rows := []climb.Row{
		row(climb.Bouldering, "V2", "2024-04-02 18:00:00", "2024-04-02 20:00:00", "Alex"),
		row(climb.Bouldering, "V9", "2024-04-03 18:10:00", "2024-04-03 20:00:00", "Sam"),
		sam,
	}
	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

	dash, err := BuildDashboard(RowsFor(rows, "Alex"), grades.Defaults(), now)
	require.NoError(t, err)
	assert.Equal(t, "V2", dash.HardestFor(climb.Bouldering))
	assert.Equal(t, 1, dash.ClimbsThisMonth)
	assert.Equal(t, 1, dash.TotalSessions)
}

func TestGroupSessions(t *testing.T) {
	rows := []climb.Row{
		row(climb.Bouldering, "V1", "2024-04-01 18:00:00", "2024-04-01 19:00:00", "Alex"),
		row(climb.Bouldering, "V2", "2024-04-03 18:00:00", "2024-04-03 19:00:00", "Sam"),
		row(climb.Bouldering, "V3", "2024-04-01 18:10:00", "2024-04-01 19:00:00", "Alex"),
		row(climb.Bouldering, "V4", "2024-04-02 18:00:00", "", "Alex"),
		row(climb.SportClimbing, "6a", "2024-04-05 18:00:00", "2024-04-05 19:00:00", "Alex"),
	}
	rows[4].Session = "Crag day"

	sessions, err := GroupSessions(rows, "", time.UTC)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "2024-04-05 19:00:00", sessions[0].ID)
	assert.Equal(t, "Crag day", sessions[0].Name)
	assert.Equal(t, "2024-04-03 19:00:00", sessions[1].ID)
	assert.Equal(t, "2024-04-01 19:00:00", sessions[2].ID)
	assert.Len(t, sessions[2].Climbs, 2)
	assert.Equal(t, "V1", sessions[2].Climbs[0].Grade)

	mine, err := GroupSessions(rows, "Alex", time.UTC)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, s := range mine {
		assert.Equal(t, "Alex", s.Climber)
	}
}

func TestPyramids(t *testing.T) {
	entries := []climb.Entry{
		boulder("V3", at(time.April, 2, 10)),
		boulder("V5", at(time.April, 2, 11)),
		sport("6a", at(time.April, 2, 12)),
		boulder("V3", at(time.April, 2, 13)),
	}

	ps, err := Pyramids(entries, grades.Defaults())
	require.NoError(t, err)
	require.Len(t, ps, 2)

	assert.Equal(t, climb.Bouldering, ps[0].Discipline)
	assert.Equal(t, []GradeCount{{"V5", 1}, {"V4", 0}, {"V3", 2}}, ps[0].Rows)
	assert.Equal(t, 2, ps[0].Max())
	assert.Equal(t, []GradeCount{{"6a", 1}}, ps[1].Rows)
}

func TestPyramidsUnknownGrade(t *testing.T) {
	_, err := Pyramids([]climb.Entry{boulder("V99", at(time.April, 2, 10))}, grades.Defaults())
	var ug *climb.UnknownGradeError
	assert.True(t, errors.As(err, &ug))
}
