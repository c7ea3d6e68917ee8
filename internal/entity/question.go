package entity

import (
	"encoding/json"
	"fmt"

	"github.com/examforge/question-extractor/constants"
)

// Question is the canonical output unit handed to the exam-authoring product.
type Question struct {
	Type          constants.QuestionType `json:"type"`
	QuestionText  string                 `json:"question_text"`
	Options       []string               `json:"options,omitempty"`
	CorrectAnswer *Answer                `json:"correct_answer,omitempty"`
	Points        int                    `json:"points"`
	Difficulty    constants.Difficulty   `json:"difficulty,omitempty"`
	Category      string                 `json:"category,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
}

// Answer is a correct answer that is either a single string or an ordered
// list of strings (multiple_select). It round-trips both JSON shapes.
type Answer struct {
	Values []string
	Multi  bool
}

// SingleAnswer wraps one answer string.
func SingleAnswer(v string) *Answer {
	return &Answer{Values: []string{v}}
}

// MultiAnswer wraps an ordered list of answer strings.
func MultiAnswer(vs []string) *Answer {
	return &Answer{Values: vs, Multi: true}
}

func (a *Answer) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	if a.Multi {
		return json.Marshal(a.Values)
	}
	if len(a.Values) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(a.Values[0])
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		a.Values = []string{s}
		a.Multi = false
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		a.Values = list
		a.Multi = true
		return nil
	}
	return fmt.Errorf("correct_answer: expected string or string array")
}

// String renders the answer for logs and exports.
func (a *Answer) String() string {
	if a == nil || len(a.Values) == 0 {
		return ""
	}
	if a.Multi {
		out := a.Values[0]
		for _, v := range a.Values[1:] {
			out += "; " + v
		}
		return out
	}
	return a.Values[0]
}

// ParsedQuestion is the local parser's internal unit: a Question plus the
// per-block confidence and the diagnostic format label. Both extras are
// stripped before the question crosses the parser boundary.
type ParsedQuestion struct {
	Question
	Confidence     int    `json:"confidence"`
	DetectedFormat string `json:"detectedFormat"`
}

// Strip returns the plain Question without diagnostics.
func (p ParsedQuestion) Strip() Question {
	return p.Question
}
