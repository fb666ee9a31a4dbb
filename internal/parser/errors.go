package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/plantcare/internal/errors"
)

// TimeParseError reports input that could not be read, with examples of
// what would have worked.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
	Cause      error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// Unwrap exposes the matching sentinel so callers can use errors.Is.
func (e *TimeParseError) Unwrap() error {
	return e.Cause
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// ToUserError converts the error for the CLI's error renderer.
func (e *TimeParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if len(e.Examples) > 0 {
		n := min(3, len(e.Examples))
		suggestion = strings.TrimSpace(suggestion + " Try: " + strings.Join(e.Examples[:n], ", "))
	}
	return errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion).WithCause(e.Cause)
}

// TimestampExamples lists accepted watering times.
var TimestampExamples = []string{
	"now",
	"2 hours ago",
	"yesterday 9am",
	"3 days ago",
	"2026-05-01T08:00:00Z",
}

// FrequencyExamples lists accepted watering intervals.
var FrequencyExamples = []string{
	"3",
	"3d",
	"1w",
	"every 2 weeks",
	"36h",
	"daily",
}

// NewTimestampError creates a timestamp parse error with standard examples.
func NewTimestampError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "time",
		Message:    "could not parse time",
		Examples:   TimestampExamples,
		Suggestion: "Use natural language like '2 days ago' or an RFC 3339 timestamp.",
		Cause:      errors.ErrInvalidTimestamp,
	}
}

// NewFutureTimestampError rejects a watering time after now.
func NewFutureTimestampError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "time",
		Message:    "watering time is in the future",
		Suggestion: errors.GetSuggestion(errors.ErrWateredInFuture),
		Cause:      errors.ErrWateredInFuture,
	}
}

// NewFrequencyError creates a frequency parse error with standard examples.
func NewFrequencyError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "frequency",
		Message:    "could not parse watering frequency",
		Examples:   FrequencyExamples,
		Suggestion: "A bare number means days.",
		Cause:      errors.ErrInvalidFrequency,
	}
}
