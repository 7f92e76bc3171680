package quizgen

import "github.com/abhisek/quizforge/internal/llm"

// RequiredOptions is the exact option count demanded from the AI.
const RequiredOptions = 4

// QuizSchema defines the JSON schema every AI response must satisfy.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "A multiple-choice quiz generated from study material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question, answerable from the source text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    RequiredOptions,
							"maxItems":    RequiredOptions,
							"description": "Exactly 4 answer choices",
						},
						"correct_answer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     RequiredOptions - 1,
							"description": "0-based index of the correct entry in options",
						},
					},
					"required":             []any{"question_text", "options", "correct_answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// responseSchema validates what comes back. It is QuizSchema without the
// additionalProperties constraints, so extra keys in a response are ignored
// while missing keys, wrong types and out-of-range values still fail.
var responseSchema = &llm.Schema{
	Name:        "quiz-response",
	Description: QuizSchema.Description,
	Definition:  withoutAdditionalProperties(QuizSchema.Definition).(map[string]any),
}

// withoutAdditionalProperties returns a deep copy of a schema definition
// with every additionalProperties keyword removed.
func withoutAdditionalProperties(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == "additionalProperties" {
				continue
			}
			out[k] = withoutAdditionalProperties(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = withoutAdditionalProperties(val)
		}
		return out
	default:
		return v
	}
}
