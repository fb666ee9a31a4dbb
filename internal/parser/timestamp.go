// Package parser turns human input such as "yesterday 9am" or "every 2 weeks"
// into times and watering frequencies.
package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// FutureTolerance is how far ahead of now a watering time may be before it
// is rejected. It absorbs clock skew between terminals and servers.
const FutureTolerance = time.Minute

// TimestampResult holds the parsed timestamp and any error.
type TimestampResult struct {
	Time  time.Time
	Error error
}

// ParseTimestamp parses a timestamp relative to the current time.
func ParseTimestamp(input string) TimestampResult {
	return ParseTimestampAt(input, time.Now())
}

// ParseTimestampAt parses an RFC 3339 timestamp or a natural language
// expression such as "2 days ago" relative to now.
func ParseTimestampAt(input string, now time.Time) TimestampResult {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "now") {
		return TimestampResult{Time: now}
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return TimestampResult{Time: t}
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return TimestampResult{Error: NewTimestampError(input)}
	}
	return TimestampResult{Time: result.Time}
}

// ParseWateredAt parses when a plant was watered. The result is in UTC and
// may not lie in the future.
func ParseWateredAt(input string, now time.Time) (time.Time, error) {
	result := ParseTimestampAt(input, now)
	if result.Error != nil {
		return time.Time{}, result.Error
	}
	if result.Time.After(now.Add(FutureTolerance)) {
		return time.Time{}, NewFutureTimestampError(input)
	}
	return result.Time.UTC(), nil
}
