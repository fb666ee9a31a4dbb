package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// frequencyPattern matches "3", "3d", "2.5 days", "1w", "36h", "every 2 weeks".
var frequencyPattern = regexp.MustCompile(`(?i)^(?:every\s+)?(\d+(?:\.\d+)?)?\s*(d|day|days|w|wk|week|weeks|h|hr|hrs|hour|hours)?$`)

var namedFrequencies = map[string]float64{
	"daily":       1,
	"every day":   1,
	"weekly":      7,
	"every week":  7,
	"fortnightly": 14,
	"biweekly":    14,
	"monthly":     30,
	"every month": 30,
}

// ParseFrequency parses a watering interval and returns it in days.
// A bare number means days.
func ParseFrequency(input string) (float64, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(input), " "))
	if normalized == "" {
		return 0, NewFrequencyError(input)
	}
	if days, ok := namedFrequencies[normalized]; ok {
		return days, nil
	}

	m := frequencyPattern.FindStringSubmatch(normalized)
	if m == nil {
		// Accept Go durations such as "36h30m" as a last resort.
		if d, err := time.ParseDuration(normalized); err == nil && d > 0 {
			return d.Hours() / 24, nil
		}
		return 0, NewFrequencyError(input)
	}

	if m[1] == "" {
		return 0, NewFrequencyError(input)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0, NewFrequencyError(input)
	}

	switch m[2] {
	case "w", "wk", "week", "weeks":
		return value * 7, nil
	case "h", "hr", "hrs", "hour", "hours":
		return value / 24, nil
	default:
		return value, nil
	}
}

// FormatFrequency renders a day count the way ParseFrequency reads it back.
func FormatFrequency(days float64) string {
	switch {
	case days == 1:
		return "every day"
	case days >= 7 && days == float64(int(days)) && int(days)%7 == 0:
		weeks := int(days) / 7
		if weeks == 1 {
			return "every week"
		}
		return "every " + strconv.Itoa(weeks) + " weeks"
	case days < 1:
		return "every " + strconv.FormatFloat(days*24, 'f', -1, 64) + " hours"
	default:
		return "every " + strconv.FormatFloat(days, 'f', -1, 64) + " days"
	}
}
