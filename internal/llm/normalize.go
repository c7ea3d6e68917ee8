package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
)

// DecodeQuestions turns a raw model completion into normalized questions.
// It strips fencing, recovers the outermost JSON array, and normalizes each
// item; items failing minimal validity are dropped, not errors.
func DecodeQuestions(completion string) ([]entity.Question, error) {
	cleaned := StripFences(completion)
	arr, ok := ExtractJSONArray(cleaned)
	if !ok {
		return nil, fmt.Errorf("no json array in completion")
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil, fmt.Errorf("decode question array: %w", err)
	}

	out := make([]entity.Question, 0, len(items))
	for _, item := range items {
		if q, ok := NormalizeItem(item); ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// NormalizeItem coerces one loosely-typed provider item into the canonical
// Question shape. Returns false when the item fails minimal validity:
// empty question_text, or a choice-style type with no options.
func NormalizeItem(item map[string]any) (entity.Question, bool) {
	text := SanitizeText(asString(item["question_text"]))
	if text == "" {
		return entity.Question{}, false
	}

	q := entity.Question{
		Type:         NormalizeType(asString(item["type"])),
		QuestionText: text,
		Points:       ClampPoints(item["points"]),
		Difficulty:   NormalizeDifficulty(asString(item["difficulty"])),
		Category:     SanitizeText(asString(item["category"])),
	}

	for _, v := range asStrings(item["options"]) {
		if s := SanitizeText(v); s != "" {
			q.Options = append(q.Options, s)
		}
	}
	for _, v := range asStrings(item["tags"]) {
		if s := SanitizeText(v); s != "" {
			q.Tags = append(q.Tags, s)
		}
	}

	switch ans := item["correct_answer"].(type) {
	case string:
		if s := SanitizeText(ans); s != "" {
			q.CorrectAnswer = entity.SingleAnswer(s)
		}
	case []any:
		var vs []string
		for _, v := range ans {
			if s := SanitizeText(asString(v)); s != "" {
				vs = append(vs, s)
			}
		}
		if len(vs) > 0 {
			q.CorrectAnswer = entity.MultiAnswer(vs)
		}
	}

	if q.Type.RequiresOptions() && len(q.Options) == 0 {
		return entity.Question{}, false
	}
	return q, true
}

// NormalizeType coerces a provider type label into the canonical set by
// keyword containment. Unrecognized labels default to multiple_choice.
func NormalizeType(raw string) constants.QuestionType {
	s := strings.ToLower(raw)
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)

	switch {
	case strings.Contains(s, "multiple") && strings.Contains(s, "select"):
		return constants.MultipleSelect
	case strings.Contains(s, "true") || strings.Contains(s, "false"):
		return constants.TrueFalse
	case strings.Contains(s, "fill") || strings.Contains(s, "blank"):
		return constants.FillBlank
	case strings.Contains(s, "numeric") || strings.Contains(s, "number"):
		return constants.Numeric
	case strings.Contains(s, "essay"):
		return constants.Essay
	case strings.Contains(s, "short"):
		return constants.ShortAnswer
	case strings.Contains(s, "dropdown") || strings.Contains(s, "select"):
		return constants.Dropdown
	default:
		return constants.MultipleChoice
	}
}

// NormalizeDifficulty coerces a difficulty label by keyword containment;
// unrecognized labels come back empty (absent).
func NormalizeDifficulty(raw string) constants.Difficulty {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "easy"):
		return constants.DifficultyEasy
	case strings.Contains(s, "hard"):
		return constants.DifficultyHard
	case strings.Contains(s, "medium"):
		return constants.DifficultyMedium
	default:
		return ""
	}
}

// ClampPoints coerces a numeric or string points value into [MinPoints,
// MaxPoints], defaulting when absent or unparseable.
func ClampPoints(v any) int {
	n := constants.DefaultPoints
	switch t := v.(type) {
	case float64:
		n = int(t)
	case int:
		n = t
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			n = parsed
		}
	}
	if n < constants.MinPoints {
		return constants.MinPoints
	}
	if n > constants.MaxPoints {
		return constants.MaxPoints
	}
	return n
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
