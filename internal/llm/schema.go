package llm

import "github.com/examforge/question-extractor/constants"

// BuildQuestionJSONSchema returns the canonical question schema (draft
// 2020-12 subset) as a generic map. It constrains shape and ranges; the
// type-dependent options requirement is enforced in code since it reads
// better there than as schema conditionals.
func BuildQuestionJSONSchema() map[string]any {
	types := make([]string, 0, len(constants.QuestionTypes))
	for _, t := range constants.QuestionTypes {
		types = append(types, string(t))
	}
	difficulties := make([]string, 0, len(constants.Difficulties))
	for _, d := range constants.Difficulties {
		difficulties = append(difficulties, string(d))
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"type":          map[string]any{"type": "string", "enum": types},
			"question_text": map[string]any{"type": "string", "minLength": 6},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
			"correct_answer": map[string]any{
				"oneOf": []any{
					map[string]any{"type": "string"},
					map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
			"points": map[string]any{
				"type":    "integer",
				"minimum": constants.MinPoints,
				"maximum": constants.MaxPoints,
			},
			"difficulty": map[string]any{"type": "string", "enum": difficulties},
			"category":   map[string]any{"type": "string"},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"type", "question_text", "points"},
	}
}
