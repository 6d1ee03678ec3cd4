package ingestion

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// bulletChars are list markers models sometimes leave on skill terms.
const bulletChars = "-*•·‣◦"

// NormalizeSkills cleans up extracted skill terms. Each term is NFKC
// normalized, stripped of leading list markers, and has internal whitespace
// collapsed. Blank terms are dropped, as are case-insensitive duplicates; the
// first spelling of a term wins.
func NormalizeSkills(skills []string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = norm.NFKC.String(skill)
		skill = strings.TrimLeft(strings.TrimSpace(skill), bulletChars)
		skill = strings.Join(strings.Fields(skill), " ")
		if skill == "" {
			continue
		}
		key := fold.String(skill)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

// joinList flattens an extracted list field the way it is stored.
func joinList(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}
