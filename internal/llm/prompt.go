package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs chat-style providers to emit a bare JSON array of
// question objects and nothing else.
const SystemPrompt = `You are an expert at parsing and extracting educational questions from text.
For each question, extract:
1. type: one of "multiple_choice", "multiple_select", "true_false", "numeric", "dropdown", "short_answer", "essay", "fill_blank"
2. question_text: the full question
3. options: array of options (choice-style types only)
4. correct_answer: the correct answer or option (string, or array for multiple_select)
5. points: number of points (default 1)
6. difficulty: "easy", "medium", or "hard"
7. category: subject/category if identifiable
8. tags: array of relevant tags
Return ONLY a valid JSON array, no markdown, no code fences, no explanation.
Example: [{"type":"multiple_choice","question_text":"What is 2+2?","options":["3","4","5"],"correct_answer":"4","points":1,"difficulty":"easy"}]`

// BuildUserPrompt embeds the (already truncated) source text and the item
// cap into the user message.
func BuildUserPrompt(text string, maxQuestions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract and parse all questions from this text. Limit to %d questions.\n", maxQuestions)
	b.WriteString("Return ONLY the JSON array.\n\nText:\n")
	b.WriteString(text)
	return b.String()
}

// BuildPlainPrompt is the single-string variant for completion-style
// backends that take one prompt instead of chat messages.
func BuildPlainPrompt(text string, maxQuestions int) string {
	return SystemPrompt + "\n\n" + BuildUserPrompt(text, maxQuestions)
}
