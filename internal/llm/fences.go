package llm

import "strings"

// StripFences removes markdown code-fence wrapping that models add despite
// being told not to. It handles ```json ... ``` and bare ``` ... ``` blocks.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
	} else {
		return s
	}
	if j := strings.Index(s, "```"); j >= 0 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}

// ExtractJSONArray pulls the outermost JSON array out of a completion that
// may carry prose around it. Returns false when no array is present.
func ExtractJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
