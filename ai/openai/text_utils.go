package openai

import (
	"regexp"
	"strings"
)

var firstArrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

// stripCodeFence removes a surrounding markdown code fence from a model reply.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstJSONArray returns the first bracketed span in s, shortest match.
func firstJSONArray(s string) (string, bool) {
	m := firstArrayPattern.FindString(s)
	return m, m != ""
}

// firstJSONObject returns the span from the first '{' to the last '}'.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
