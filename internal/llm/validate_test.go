package llm

import (
	"testing"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
)

func TestValidatorFilter(t *testing.T) {
	v, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	qs := []entity.Question{
		{
			Type:         constants.TrueFalse,
			QuestionText: "The sky is blue.",
			Points:       1,
		},
		{
			// question_text at the rejection boundary (<= 5 chars)
			Type:         constants.ShortAnswer,
			QuestionText: "Why?",
			Points:       1,
		},
		{
			// choice type without options
			Type:         constants.MultipleChoice,
			QuestionText: "Which of these is a mammal?",
			Points:       1,
		},
		{
			Type:          constants.MultipleChoice,
			QuestionText:  "Which of these is a mammal?",
			Options:       []string{"Shark", "Dolphin"},
			CorrectAnswer: entity.SingleAnswer("Dolphin"),
			Points:        2,
			Difficulty:    constants.DifficultyEasy,
		},
	}

	kept, issues := v.Filter(qs)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d (issues: %v)", len(kept), issues)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %#v", issues)
	}
	if kept[0].Type != constants.TrueFalse || kept[1].Type != constants.MultipleChoice {
		t.Fatalf("unexpected kept set: %#v", kept)
	}
}

func TestValidatorRejectsOutOfRangePoints(t *testing.T) {
	v, err := NewValidator(nil)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	kept, _ := v.Filter([]entity.Question{{
		Type:         constants.ShortAnswer,
		QuestionText: "Explain photosynthesis.",
		Points:       500,
	}})
	if len(kept) != 0 {
		t.Fatalf("expected out-of-range points to be rejected, got %#v", kept)
	}
}
