// Package sanitizer normalizes free-text input before validation and
// persistence. Dates and room names arrive from several frontends with
// inconsistent surrounding whitespace; room identity is case-insensitive.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims surrounding whitespace and collapses internal runs
// of whitespace into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// FoldRoom produces the identity key for a room name: trimmed and
// lower-cased. "A101" and "a101" are the same room.
func FoldRoom(room string) string {
	return strings.ToLower(TrimAndNormalize(room))
}
