package logging

import (
	"regexp"
	"strings"
)

const (
	// MaskChar is the character used for masking.
	MaskChar = "*"
	// URLMaskLength is how many characters of a URL stay visible.
	URLMaskLength = 30
)

// sensitiveKeywords mark log keys whose values are never printed.
var sensitiveKeywords = []string{
	"token", "secret", "password", "api_key", "apikey", "auth", "credential", "webhook_url", "chat_id",
}

var (
	urlPattern = regexp.MustCompile(`https?://[^\s"']+`)
	// botTokenPattern matches Telegram bot tokens such as 123456:ABC-def.
	botTokenPattern = regexp.MustCompile(`\b\d{6,}:[A-Za-z0-9_-]{20,}\b`)
)

// MaskURL keeps the first URLMaskLength characters of a URL.
func MaskURL(url string) string {
	if len(url) <= URLMaskLength {
		return url
	}
	return url[:URLMaskLength] + strings.Repeat(MaskChar, 3)
}

// MaskValue hides a value completely, leaking at most its length up to 8.
func MaskValue(value string) string {
	if value == "" {
		return ""
	}
	return strings.Repeat(MaskChar, min(len(value), 8))
}

// IsSensitiveField reports whether a log key names secret data.
func IsSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MaskString masks bot tokens and non-local URLs inside free text.
func MaskString(s string) string {
	s = botTokenPattern.ReplaceAllStringFunc(s, MaskValue)
	return urlPattern.ReplaceAllStringFunc(s, func(url string) string {
		if strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1") {
			return url
		}
		return MaskURL(url)
	})
}

// MaskArgs masks the values of sensitive keys in slog key/value pairs.
func MaskArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}

	var result []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || !IsSensitiveField(key) {
			continue
		}
		if result == nil {
			result = make([]any, len(args))
			copy(result, args)
		}
		if s, ok := args[i+1].(string); ok {
			result[i+1] = MaskValue(s)
		} else {
			result[i+1] = strings.Repeat(MaskChar, 8)
		}
	}
	if result == nil {
		return args
	}
	return result
}
