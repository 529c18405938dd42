package model

import "strings"

// DescribSeparator joins description clauses and tags.
const DescribSeparator = "; "

// NormalizeDescription turns a free-text note into semicolon-separated clauses.
//
// Newlines ("\n", "\r\n" or a lone "\r") and commas all act as clause
// separators. Each clause is trimmed and empty clauses are dropped:
//
//	NormalizeDescription("a, b\nc")       // "a; b; c"
//	NormalizeDescription(" x ;; y,\n\n")  // "x; y"
func NormalizeDescription(text string) string {
	text = strings.TrimSpace(normalizeNewlines(text))
	text = strings.ReplaceAll(text, "\n", DescribSeparator)
	text = strings.ReplaceAll(text, ",", ";")

	var clauses []string
	for _, part := range strings.Split(text, ";") {
		if part = strings.TrimSpace(part); part != "" {
			clauses = append(clauses, part)
		}
	}
	return strings.Join(clauses, DescribSeparator)
}

// JoinTags renders a tag list as a description.
//
// Tags are joined as-is except that "\r\n" becomes "\n": a CSV reader folds
// line breaks inside quoted fields the same way, so the stored value compares
// equal after a round trip.
func JoinTags(tags []string) string {
	return strings.ReplaceAll(strings.Join(tags, DescribSeparator), "\r\n", "\n")
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
