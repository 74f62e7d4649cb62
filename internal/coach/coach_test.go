package coach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
	"github.com/hanley0809-ux/climbing-points-app/internal/llm"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

func validAdviceJSON() json.RawMessage {
	return json.RawMessage(`{
		"summary": "Two steady bouldering sessions topping out at V5.",
		"focus": "Footwork on steep terrain",
		"drills": ["Silent feet on V2s", "4x4 on V3s"],
		"target_grade": "V6"
	}`)
}

func testSessions() []stats.Session {
	at := func(day, hour int) time.Time { return time.Date(2024, 4, day, hour, 0, 0, 0, time.UTC) }
	return []stats.Session{
		{ID: "2024-04-09 19:00:00", Name: "Tuesday", Climber: "Alex", Climbs: []climb.Entry{
			{Discipline: climb.Bouldering, Grade: "V5", Timestamp: at(9, 19)},
			{Discipline: climb.Bouldering, Grade: "V3", Timestamp: at(9, 19)},
		}},
		{ID: "2024-04-02 19:00:00", Climber: "Alex", Climbs: []climb.Entry{
			{Discipline: climb.SportClimbing, Grade: "6b", Timestamp: at(2, 19)},
		}},
	}
}

func TestAdvise(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validAdviceJSON()})
	svc := NewService(mock, grades.Defaults(), DefaultConfig())

	advice, err := svc.Advise(context.Background(), "Alex", testSessions())
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if advice.Focus != "Footwork on steep terrain" || advice.TargetGrade != "V6" {
		t.Errorf("advice = %+v", advice)
	}
	if len(advice.Drills) != 2 {
		t.Errorf("drills = %v", advice.Drills)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	req := calls[0]
	if req.Schema != AdviceSchema {
		t.Error("request must carry AdviceSchema")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Climber: Alex", "Session Tuesday (2 climbs)", "hardest Bouldering", ": V5", "6b"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestAdvise_LimitsSessions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validAdviceJSON()})
	cfg := DefaultConfig()
	cfg.Sessions = 1
	svc := NewService(mock, grades.Defaults(), cfg)

	if _, err := svc.Advise(context.Background(), "Alex", testSessions()); err != nil {
		t.Fatalf("Advise: %v", err)
	}
	msg := mock.Calls()[0].Messages[0].Content
	if strings.Contains(msg, "6b") {
		t.Errorf("older session should be dropped:\n%s", msg)
	}
}

func TestAdvise_NoSessions(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), grades.Defaults(), DefaultConfig())
	_, err := svc.Advise(context.Background(), "Alex", nil)
	var ve *climb.ValidationError
	if !errors.As(err, &ve) || ve.Field != "sessions" {
		t.Fatalf("err = %v, want sessions ValidationError", err)
	}
}

func TestAdvise_RejectsOffSchemaReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"focus":"power"}`)})
	svc := NewService(mock, grades.Defaults(), DefaultConfig())

	_, err := svc.Advise(context.Background(), "Alex", testSessions())
	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %T (%v), want ErrInvalidResponse", err, err)
	}
}

func TestAdvise_UnknownGrade(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), grades.Defaults(), DefaultConfig())
	sessions := []stats.Session{{ID: "s", Climbs: []climb.Entry{{Discipline: climb.Bouldering, Grade: "V99"}}}}

	_, err := svc.Advise(context.Background(), "Alex", sessions)
	var unknown *climb.UnknownGradeError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownGradeError", err)
	}
}
