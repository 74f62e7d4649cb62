// Package notify announces saved sessions outside the app.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
)

// DefaultTimeout bounds each Bot API request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// Sender sends one Telegram message. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a summary of every saved session to one chat.
type Telegram struct {
	token    string
	chatID   int64
	endpoint string
	client   *http.Client

	once   sync.Once
	sender Sender
	err    error
}

// Option configures a Telegram notifier.
type Option func(*Telegram)

// WithEndpoint overrides the Bot API endpoint format, e.g.
// "http://127.0.0.1:8080/bot%s/%s".
func WithEndpoint(endpoint string) Option {
	return func(t *Telegram) { t.endpoint = endpoint }
}

// WithHTTPClient sets the client used to reach the Bot API.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Telegram) { t.client = c }
}

// WithSender skips bot construction and sends through s.
func WithSender(s Sender) Option {
	return func(t *Telegram) { t.sender = s }
}

// NewTelegram creates a notifier for chatID. The bot is not contacted until
// the first session is saved.
func NewTelegram(token string, chatID int64, opts ...Option) *Telegram {
	t := &Telegram{
		token:    token,
		chatID:   chatID,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Telegram) bot() (Sender, error) {
	t.once.Do(func() {
		if t.sender != nil {
			return
		}
		api, err := tgbotapi.NewBotAPIWithClient(t.token, t.endpoint, t.client)
		if err != nil {
			t.err = fmt.Errorf("connect telegram bot: %w", err)
			return
		}
		t.sender = api
	})
	return t.sender, t.err
}

// SessionSaved implements recorder.Notifier. It returns when ctx is done
// even if the Bot API has not answered; the request itself is still
// bounded by the client timeout.
func (t *Telegram) SessionSaved(ctx context.Context, s recorder.SavedSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatSessionSaved(s))

	done := make(chan error, 1)
	go func() {
		sender, err := t.bot()
		if err != nil {
			done <- err
			return
		}
		if _, err := sender.Send(msg); err != nil {
			done <- fmt.Errorf("send telegram message: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("send telegram message: %w", ctx.Err())
	}
}

// FormatSessionSaved renders the plain-text announcement for s.
func FormatSessionSaved(s recorder.SavedSession) string {
	var b strings.Builder

	title := s.Label
	if title == "" {
		title = s.ID
	}
	fmt.Fprintf(&b, "🧗 %s saved a session: %s\n", s.Climber, title)
	fmt.Fprintf(&b, "Climbs: %d\n", s.Summary.Count)
	for _, best := range s.Summary.Best {
		if best.Scale == string(best.Discipline) {
			fmt.Fprintf(&b, "Hardest %s: %s\n", best.Discipline, best.Label())
		} else {
			fmt.Fprintf(&b, "Hardest %s (%s): %s\n", best.Discipline, best.Scale, best.Label())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
