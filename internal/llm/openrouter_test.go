package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("empty API key", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(ProviderSettings{Model: "openai/gpt-4o-mini"}); err == nil {
			t.Fatal("expected error for empty API key")
		}
	})

	t.Run("model passes through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(ProviderSettings{APIKey: "sk-or", Model: "anthropic/claude-haiku-4.5"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "anthropic/claude-haiku-4.5" {
			t.Errorf("model = %q", p.ModelID())
		}
	})

	t.Run("custom base URL", func(t *testing.T) {
		var gotPath, gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			chatCompletion(`ok`, "stop")(w, r)
		}))
		t.Cleanup(server.Close)

		p, err := NewOpenRouterProvider(ProviderSettings{APIKey: "sk-or", Model: "openai/gpt-4o-mini", BaseURL: server.URL + "/api/v1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if gotPath != "/api/v1/chat/completions" {
			t.Errorf("path = %q", gotPath)
		}
		if gotAuth != "Bearer sk-or" {
			t.Errorf("auth = %q", gotAuth)
		}
	})
}
