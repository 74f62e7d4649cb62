// Package coach turns recent sessions into training advice from an LLM.
package coach

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/llm"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

// Purpose labels coach calls in the LLM event log.
const Purpose = "coach"

// Advice is the coach's structured reply.
type Advice struct {
	Summary     string   `json:"summary"`
	Focus       string   `json:"focus"`
	Drills      []string `json:"drills"`
	TargetGrade string   `json:"target_grade"`
}

// Service asks a provider for advice.
type Service struct {
	provider llm.Provider
	scales   stats.ScaleResolver
	cfg      Config
}

// NewService creates a coach backed by provider.
func NewService(provider llm.Provider, scales stats.ScaleResolver, cfg Config) *Service {
	if cfg.Sessions <= 0 {
		cfg.Sessions = DefaultConfig().Sessions
	}
	return &Service{provider: provider, scales: scales, cfg: cfg}
}

// Advise reviews the newest sessions, which must be ordered newest first
// as returned by stats.GroupSessions.
func (s *Service) Advise(ctx context.Context, climber string, sessions []stats.Session) (*Advice, error) {
	if len(sessions) == 0 {
		return nil, &climb.ValidationError{Field: "sessions", Reason: "no saved sessions to review"}
	}
	if len(sessions) > s.cfg.Sessions {
		sessions = sessions[:s.cfg.Sessions]
	}

	views := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		sum, err := stats.Summarize(sess.Climbs, s.scales)
		if err != nil {
			return nil, fmt.Errorf("summarize session %s: %w", sess.ID, err)
		}
		views = append(views, sessionView{Session: sess, Summary: sum})
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(climber, views, scalesFor(sessions, s.scales))},
		},
		Schema:      AdviceSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("coach advice: %w", err)
	}

	var out Advice
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coach response: %w", err)
	}
	return &out, nil
}
