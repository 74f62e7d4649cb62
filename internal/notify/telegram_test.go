package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	if msg, ok := args.Get(0).(tgbotapi.Message); ok {
		return msg, args.Error(1)
	}
	return tgbotapi.Message{}, args.Error(1)
}

func savedSession() recorder.SavedSession {
	return recorder.SavedSession{
		ID:      "2024-04-02 20:00:00",
		Label:   "Tuesday board",
		Climber: "Alex",
		Summary: stats.Summary{
			Count: 3,
			Best: []stats.Best{
				{Discipline: climb.Bouldering, Scale: "Bouldering", Grade: "V5"},
				{Discipline: climb.Bouldering, Scale: "Boulder Barn", Grade: "Red"},
			},
		},
	}
}

func TestFormatSessionSaved(t *testing.T) {
	got := FormatSessionSaved(savedSession())
	assert.Equal(t, "🧗 Alex saved a session: Tuesday board\n"+
		"Climbs: 3\n"+
		"Hardest Bouldering: V5\n"+
		"Hardest Bouldering (Boulder Barn): Red", got)
}

func TestFormatSessionSavedWithoutLabel(t *testing.T) {
	s := savedSession()
	s.Label = ""
	s.Summary = stats.Summary{}
	assert.Equal(t, "🧗 Alex saved a session: 2024-04-02 20:00:00\nClimbs: 0", FormatSessionSaved(s))
}

func TestSessionSavedSendsToChat(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 456 && strings.Contains(msg.Text, "Tuesday board")
	})).Return(tgbotapi.Message{MessageID: 1}, nil).Once()

	n := NewTelegram("token", 456, WithSender(sender))
	require.NoError(t, n.SessionSaved(context.Background(), savedSession()))
	sender.AssertExpectations(t)
}

func TestSessionSavedSendError(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything).Return(nil, errors.New("chat not found"))

	n := NewTelegram("token", 456, WithSender(sender))
	err := n.SessionSaved(context.Background(), savedSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSessionSavedCancelledContext(t *testing.T) {
	sender := new(MockSender)
	n := NewTelegram("token", 456, WithSender(sender))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.SessionSaved(ctx, savedSession()), context.Canceled)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestSessionSavedAgainstBotAPI(t *testing.T) {
	var (
		mu      sync.Mutex
		methods []string
		chatID  string
		text    string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		defer mu.Unlock()

		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		methods = append(methods, method)

		var result any
		switch method {
		case "getMe":
			result = map[string]any{"id": 1, "is_bot": true, "first_name": "climbpoints", "username": "climbpoints_bot"}
		case "sendMessage":
			chatID = r.FormValue("chat_id")
			text = r.FormValue("text")
			result = map[string]any{"message_id": 7, "date": 0, "chat": map[string]any{"id": 456, "type": "private"}}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
	}))
	t.Cleanup(server.Close)

	n := NewTelegram("123:abc", 456, WithEndpoint(server.URL+"/bot%s/%s"), WithHTTPClient(server.Client()))
	require.NoError(t, n.SessionSaved(context.Background(), savedSession()))
	require.NoError(t, n.SessionSaved(context.Background(), savedSession()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"getMe", "sendMessage", "sendMessage"}, methods)
	assert.Equal(t, "456", chatID)
	assert.Contains(t, text, "Hardest Bouldering: V5")
}

func TestSessionSavedBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error_code": 401, "description": "Unauthorized"})
	}))
	t.Cleanup(server.Close)

	n := NewTelegram("bad", 456, WithEndpoint(server.URL+"/bot%s/%s"), WithHTTPClient(server.Client()))
	err := n.SessionSaved(context.Background(), savedSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect telegram bot")
}

func TestSessionSavedHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	n := NewTelegram("123:abc", 456, WithEndpoint(server.URL+"/bot%s/%s"))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.SessionSaved(ctx, savedSession())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "err = %v", err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDefaultClientHasTimeout(t *testing.T) {
	n := NewTelegram("123:abc", 456)
	assert.Equal(t, DefaultTimeout, n.client.Timeout)
}

var _ recorder.Notifier = (*Telegram)(nil)
