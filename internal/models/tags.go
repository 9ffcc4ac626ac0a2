package models

import (
	"strings"
)

// NormalizeTags trims whitespace and removes case-insensitive duplicates
// while preserving the order and casing of first occurrences. Empty entries
// are dropped. A nil or empty input yields an empty, non-nil slice so tags
// always serialize as a JSON array.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// HasTag reports whether tags contains tag, compared case-insensitively.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
