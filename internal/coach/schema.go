package coach

import "github.com/hanley0809-ux/climbing-points-app/internal/llm"

// AdviceSchema is the structured output the coach asks for.
var AdviceSchema = &llm.Schema{
	Name:        "coach-advice",
	Description: "Training advice based on recent climbing sessions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three sentences on how the recent sessions went",
			},
			"focus": map[string]any{
				"type":        "string",
				"description": "The single most useful thing to work on next",
			},
			"drills": map[string]any{
				"type":        "array",
				"description": "Concrete drills for the next session",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"maxItems":    5,
			},
			"target_grade": map[string]any{
				"type":        "string",
				"description": "A grade label from the climber's scale to project next",
			},
		},
		"required":             []any{"summary", "focus", "drills", "target_grade"},
		"additionalProperties": false,
	},
}
