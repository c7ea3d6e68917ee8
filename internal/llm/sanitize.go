package llm

import (
	"strings"
	"unicode"

	"github.com/examforge/question-extractor/constants"
)

// SanitizeText strips control characters and non-printable runes from a
// model-produced string and bounds its length, guarding against runaway
// generation. Newlines collapse to spaces; the result is trimmed.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if len(out) > constants.MaxFieldLen {
		out = strings.TrimSpace(out[:constants.MaxFieldLen])
	}
	return out
}

// CleanInput strips control characters from source text before it goes into
// a prompt, preserving newlines and length. Unlike SanitizeText it does not
// cap length; use TruncateText for that.
func CleanInput(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// TruncateText bounds provider input to a safe length for context limits.
func TruncateText(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
