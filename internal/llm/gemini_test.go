package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"focus":        map[string]any{"type": "string", "description": "what to work on"},
			"target_grade": map[string]any{"type": "string", "enum": []any{"V4", "V5"}},
			"sessions":     map[string]any{"type": "integer"},
			"drills": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"focus", "drills"},
	}

	s := geminiSchema(def)
	if s.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("properties = %d, want 4", len(s.Properties))
	}
	if s.Properties["focus"].Description != "what to work on" {
		t.Errorf("description = %q", s.Properties["focus"].Description)
	}
	if s.Properties["sessions"].Type != genai.TypeInteger {
		t.Errorf("sessions type = %s", s.Properties["sessions"].Type)
	}
	if len(s.Properties["target_grade"].Enum) != 2 {
		t.Errorf("enum = %v", s.Properties["target_grade"].Enum)
	}
	if s.Properties["drills"].Items.Type != genai.TypeString {
		t.Errorf("items type = %s", s.Properties["drills"].Items.Type)
	}
	if len(s.Required) != 2 {
		t.Errorf("required = %v", s.Required)
	}
}

func TestGeminiSchema_UnknownTypeDefaultsToString(t *testing.T) {
	if s := geminiSchema(map[string]any{"type": "null"}); s.Type != genai.TypeString {
		t.Fatalf("type = %s, want STRING", s.Type)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), ProviderSettings{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
