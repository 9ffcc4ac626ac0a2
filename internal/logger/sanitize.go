package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPathLength caps URL paths in log entries.
const MaxPathLength = 500

// SanitizePath prepares a URL path for logging: invalid UTF-8 is repaired,
// control characters are stripped, and the result is truncated to
// MaxPathLength. Prevents log injection through crafted request paths.
func SanitizePath(path string) string {
	if path == "" {
		return ""
	}
	if !utf8.ValidString(path) {
		path = strings.ToValidUTF8(path, "")
	}

	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' {
			b.WriteRune(r)
		}
	}
	path = b.String()

	if len(path) > MaxPathLength {
		path = path[:MaxPathLength] + "..."
	}
	return path
}
