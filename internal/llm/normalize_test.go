package llm

import (
	"reflect"
	"strings"
	"testing"

	"github.com/examforge/question-extractor/constants"
)

func TestNormalizeType(t *testing.T) {
	cases := map[string]constants.QuestionType{
		"Multiple Select":  constants.MultipleSelect,
		"multiple-choice":  constants.MultipleChoice,
		"True/False":       constants.TrueFalse,
		"FILL_BLANK":       constants.FillBlank,
		"fill in the gap":  constants.FillBlank,
		"numeric entry":    constants.Numeric,
		"short answer":     constants.ShortAnswer,
		"essay":            constants.Essay,
		"dropdown":         constants.Dropdown,
		"something odd":    constants.MultipleChoice,
		"":                 constants.MultipleChoice,
		"boolean or false": constants.TrueFalse,
	}
	for in, want := range cases {
		if got := NormalizeType(in); got != want {
			t.Fatalf("NormalizeType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	cases := map[string]constants.Difficulty{
		"Easy":       constants.DifficultyEasy,
		"very hard":  constants.DifficultyHard,
		"MEDIUM":     constants.DifficultyMedium,
		"impossible": "",
		"":           "",
	}
	for in, want := range cases {
		if got := NormalizeDifficulty(in); got != want {
			t.Fatalf("NormalizeDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClampPoints(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{nil, 1},
		{float64(5), 5},
		{float64(0), 1},
		{float64(250), 100},
		{"12", 12},
		{"garbage", 1},
		{true, 1},
	}
	for _, c := range cases {
		if got := ClampPoints(c.in); got != c.want {
			t.Fatalf("ClampPoints(%#v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	in := "What\x00 is\n the \x1b[1mcapital\x07 of France?  "
	got := SanitizeText(in)
	if got != "What is the [1mcapital of France?" {
		t.Fatalf("unexpected sanitize result: %q", got)
	}

	long := strings.Repeat("a", 2*constants.MaxFieldLen)
	if n := len(SanitizeText(long)); n != constants.MaxFieldLen {
		t.Fatalf("expected truncation to %d, got %d", constants.MaxFieldLen, n)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[1,2]\n```":        "[1,2]",
		"```\n[1,2]\n```":            "[1,2]",
		"[1,2]":                      "[1,2]",
		"noise ```json\n[]\n``` hmm": "[]",
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Fatalf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeQuestions(t *testing.T) {
	completion := "Here you go:\n```json\n" + `[
	  {"type":"multiple_choice","question_text":"What is 2+2?","options":["3","4"],"correct_answer":"4","points":1},
	  {"type":"multiple_choice","question_text":"No options here","points":1},
	  {"type":"short_answer","question_text":"","points":1},
	  {"type":"multiple_select","question_text":"Pick the primes","options":["2","3","4"],"correct_answer":["2","3"],"points":"2"}
	]` + "\n```"

	qs, err := DecodeQuestions(completion)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Item 2 lacks options for a choice type, item 3 has empty text.
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d: %#v", len(qs), qs)
	}
	if qs[0].CorrectAnswer.String() != "4" {
		t.Fatalf("unexpected answer: %q", qs[0].CorrectAnswer.String())
	}
	if qs[1].Type != constants.MultipleSelect || qs[1].Points != 2 {
		t.Fatalf("unexpected second question: %#v", qs[1])
	}
	if !qs[1].CorrectAnswer.Multi || !reflect.DeepEqual(qs[1].CorrectAnswer.Values, []string{"2", "3"}) {
		t.Fatalf("unexpected multi answer: %#v", qs[1].CorrectAnswer)
	}
}

func TestDecodeQuestions_NoArray(t *testing.T) {
	if _, err := DecodeQuestions("I could not find any questions."); err == nil {
		t.Fatal("expected error for completion without array")
	}
}
