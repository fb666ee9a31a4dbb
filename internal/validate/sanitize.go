package validate

import (
	"strings"
	"unicode"
)

// SanitizeName trims a name and removes control characters.
func SanitizeName(name string) string {
	return strings.TrimSpace(StripControlChars(name, false))
}

// StripControlChars removes control characters. Newlines and tabs survive
// when keepWhitespace is set.
func StripControlChars(s string, keepWhitespace bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && !(keepWhitespace && (r == '\n' || r == '\t')) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// TruncateString shortens s to at most maxLen runes, ending in "…" when cut.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
